package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sybila/hctl-symbolic/pkgs/psbn"
)

func identityNetwork(t *testing.T) *psbn.Network {
	t.Helper()
	net := psbn.NewNetwork([]string{"v0", "v1"}, nil)
	require.NoError(t, net.SetUpdate(0, psbn.Var(0)))
	require.NoError(t, net.SetUpdate(1, psbn.Var(1)))
	return net
}

func TestParseRequestValid(t *testing.T) {
	req, err := ParseRequest([]byte(`{"formula": "!{x}: AX {x}"}`))
	require.NoError(t, err)
	assert.Equal(t, "!{x}: AX {x}", req.Formula)
}

func TestParseRequestMissingFormula(t *testing.T) {
	_, err := ParseRequest([]byte(`{"max_iterations": 10}`))
	require.Error(t, err)
}

func TestParseRequestRejectsUnknownFields(t *testing.T) {
	_, err := ParseRequest([]byte(`{"formula": "p0", "bogus_field": 1}`))
	require.Error(t, err)
}

func TestParseRequestMalformedJSON(t *testing.T) {
	_, err := ParseRequest([]byte(`{not json`))
	require.Error(t, err)
}

func TestModelCheckEndToEnd(t *testing.T) {
	net := identityNetwork(t)
	resp, err := ModelCheck(context.Background(), net, []byte(`{"formula": "!{x}: AX {x}"}`))
	require.NoError(t, err)
	assert.True(t, resp.Satisfiable)
	assert.EqualValues(t, 4, resp.StateCount)
	assert.EqualValues(t, 4, resp.PairCount)
}
