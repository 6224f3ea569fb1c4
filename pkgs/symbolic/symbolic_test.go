package symbolic

import (
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

func TestNewContextAllocatesBitLayout(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 2)

	assert.Len(t, ctx.StateVars(), 2)
	assert.Len(t, ctx.ParamVars(), 0)
	assert.Equal(t, 2, ctx.K())
	for i := 0; i < 2; i++ {
		assert.Len(t, ctx.HybridVarsGroup(i), 2)
	}
}

func TestEncodeHybridVarIsStateEquality(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 1)
	m := ctx.Manager()

	eq := ctx.EncodeHybridVar(0)
	// Every state together with h[0] set equal to it should satisfy eq:
	// there are exactly 4 states, and for each one exactly one assignment
	// of the 2 hybrid bits satisfies eq, so SatCount over those 4 bits is 4.
	all := append(append([]int(nil), ctx.StateVars()...), ctx.HybridVarsGroup(0)...)
	assert.EqualValues(t, 4, m.SatCount(eq, all))
}

func TestSubstituteThenProjectOutIsTautological(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 1)
	m := ctx.Manager()

	// Substitute(EncodeHybridVar(0), 0) ties state to itself and projects
	// the hybrid group away: the result must be the full state space (no
	// remaining constraint on state).
	tautology := ctx.Substitute(ctx.EncodeHybridVar(0), 0)
	assert.Equal(t, m.True(), tautology)
}

func TestTransitionPreimageEmptyOnIdentityNetwork(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 0)
	m := ctx.Manager()

	anyState := ctx.Unit()
	preimage := ctx.TransitionPreimage(anyState)
	assert.Equal(t, m.False(), preimage, "an identity network has no enabled transitions")
}

func TestUnitDefaultsToTrueWithoutConstraint(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 0)
	assert.Equal(t, ctx.Manager().True(), ctx.Unit())
}

func TestCSSVarsCoversAllGroups(t *testing.T) {
	net := identityNetwork(t)
	ctx := NewContext(net, 2)
	want := 2 + 0 + 2*2 // state + params + K hybrid groups of N bits
	assert.Len(t, ctx.CSSVars(), want)
}
