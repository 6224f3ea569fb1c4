package facade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sybila/hctl-symbolic/pkgs/eval"
	"github.com/sybila/hctl-symbolic/pkgs/herr"
	"github.com/sybila/hctl-symbolic/pkgs/psbn"
)

func identityNetwork(t *testing.T) *psbn.Network {
	t.Helper()
	net := psbn.NewNetwork([]string{"v0", "v1"}, nil)
	require.NoError(t, net.SetUpdate(0, psbn.Var(0)))
	require.NoError(t, net.SetUpdate(1, psbn.Var(1)))
	return net
}

func TestModelCheckSteadyStates(t *testing.T) {
	net := identityNetwork(t)
	result, err := ModelCheck(context.Background(), net, "!{x}: AX {x}", nil, eval.DefaultConfig())
	require.NoError(t, err)
	assert.EqualValues(t, 4, result.Cardinality.StateCount)
	assert.EqualValues(t, 1, result.Cardinality.ColourCount)
	assert.EqualValues(t, 4, result.Cardinality.PairCount)
}

func TestModelCheckParseErrorShortCircuits(t *testing.T) {
	net := identityNetwork(t)
	_, err := ModelCheck(context.Background(), net, "p0 &", nil, eval.DefaultConfig())
	require.Error(t, err)
}

func TestModelCheckUnknownPropositionShortCircuits(t *testing.T) {
	net := identityNetwork(t)
	_, err := ModelCheck(context.Background(), net, "not_a_real_variable", nil, eval.DefaultConfig())
	require.Error(t, err)
	var unknown herr.UnknownProposition
	require.ErrorAs(t, err, &unknown)
}

func TestParseValidateEvaluateIndividually(t *testing.T) {
	net := identityNetwork(t)

	tree, err := Parse("!{x}: AX {x}")
	require.NoError(t, err)

	canon, err := Validate(tree, net)
	require.NoError(t, err)
	assert.Equal(t, 1, canon.K)
}
