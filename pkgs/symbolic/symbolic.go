// Package symbolic implements the symbolic context of spec.md §4.4: it
// lifts a psbn.Network into a BDD variable layout (state group, parameter
// group, K hybrid groups) and exposes the projection/substitution/lifting
// primitives the evaluator composes into HCTL semantics. It is the one
// package that knows how bdd.Ref bits map onto network variables,
// parameters, and bound hybrid state-variables.
package symbolic

import (
	"github.com/sybila/hctl-symbolic/pkgs/bdd"
	"github.com/sybila/hctl-symbolic/pkgs/psbn"
)

// CSS (coloured state set) is a BDD predicate over state, parameter, and
// hybrid-group bits, per spec.md §3.
type CSS = bdd.Ref

// Context owns the BDD manager and the three variable groups described in
// spec.md §3: state group, parameter group, and K hybrid groups. It also
// carries a transient "next-state" group used internally to build and
// consult the transition relation; that group never appears in a CSS
// returned to a caller.
type Context struct {
	mgr *bdd.Manager

	net *psbn.Network

	n int // variable count
	p int // parameter count
	k int // hybrid groups

	stateVars  []int // n bits
	nextVars   []int // n bits, transient
	paramVars  []int // p bits
	hybridVars [][]int // k groups of n bits

	unit    CSS
	transRel CSS // T(s, s', c), built once at NewContext time
}

// NewContext builds a symbolic context for net with k simultaneously-live
// hybrid-variable groups (k is validate.Canonical.K for the formula about
// to be evaluated; spec.md §3: "K is max_simultaneously_bound_vars derived
// by the validator").
func NewContext(net *psbn.Network, k int) *Context {
	mgr := bdd.NewManager()
	n, p := net.NumVars(), net.NumParams()

	c := &Context{mgr: mgr, net: net, n: n, p: p, k: k}

	c.stateVars = allocateN(mgr, n)
	c.nextVars = allocateN(mgr, n)
	c.paramVars = allocateN(mgr, p)
	c.hybridVars = make([][]int, k)
	for i := range c.hybridVars {
		c.hybridVars[i] = allocateN(mgr, n)
	}

	c.unit = c.compileUnit()
	c.transRel = c.buildTransitionRelation()
	return c
}

func allocateN(mgr *bdd.Manager, n int) []int {
	vs := make([]int, n)
	for i := range vs {
		vs[i] = mgr.NewVar()
	}
	return vs
}

// Manager exposes the underlying BDD manager, for callers (the evaluator,
// tests) that need Boolean combinators or cardinality directly.
func (c *Context) Manager() *bdd.Manager { return c.mgr }

// Network exposes the backing PSBN, for callers (the evaluator) that need
// to resolve a proposition name to its variable index.
func (c *Context) Network() *psbn.Network { return c.net }

// Unit returns the PSBN's unit set U (spec.md §3: "the set of admissible
// parameter valuations satisfying the PSBN's static constraints").
func (c *Context) Unit() CSS { return c.unit }

// K reports the number of hybrid groups this context allocated.
func (c *Context) K() int { return c.k }

// compileExpr evaluates a psbn.Expr into a BDD over the state and
// parameter groups (update functions and the unit constraint are both
// expressed in this language; spec.md §3's update functions are "Boolean
// expression[s] over the variables possibly containing free parameters").
func (c *Context) compileExpr(e *psbn.Expr) CSS {
	if e == nil {
		// A variable with no update function is compiled as the constant
		// true: it can switch from 0 to 1 and never from 1 to 0. No extra
		// parameter bits are allocated, so a nil update is not a freely
		// parametrised one.
		return c.mgr.True()
	}
	switch e.Kind {
	case psbn.EConst:
		if e.BoolValue {
			return c.mgr.True()
		}
		return c.mgr.False()
	case psbn.EVar:
		return c.mgr.Var(c.stateVars[e.Index])
	case psbn.EParam:
		return c.mgr.Var(c.paramVars[e.Index])
	case psbn.ENot:
		return c.mgr.Not(c.compileExpr(e.Child))
	case psbn.EAnd:
		return c.mgr.And(c.compileExpr(e.Left), c.compileExpr(e.Right))
	case psbn.EOr:
		return c.mgr.Or(c.compileExpr(e.Left), c.compileExpr(e.Right))
	default:
		return c.mgr.False()
	}
}

func (c *Context) compileUnit() CSS {
	if c.net.Unit() == nil {
		return c.mgr.True()
	}
	return c.compileExpr(c.net.Unit())
}

// buildTransitionRelation encodes the asynchronous semantics of spec.md §3:
// "from state s, under colour c, one of the variables may update
// asynchronously (exactly one bit flips if its update function disagrees
// with its current value)". T(s,s',c) is the union, over variables i, of
// "i's update disagrees with s_i, s'_i takes the update's value, and every
// other bit is unchanged".
func (c *Context) buildTransitionRelation() CSS {
	m := c.mgr
	total := m.False()
	for i := 0; i < c.n; i++ {
		target := c.compileExpr(c.net.Update(i))
		sBit := m.Var(c.stateVars[i])
		disagrees := m.Xor(sBit, target)

		nextBit := m.Var(c.nextVars[i])
		nextMatchesTarget := m.Iff(nextBit, target)

		step := m.And(disagrees, nextMatchesTarget)
		for j := 0; j < c.n; j++ {
			if j == i {
				continue
			}
			unchanged := m.Iff(m.Var(c.nextVars[j]), m.Var(c.stateVars[j]))
			step = m.And(step, unchanged)
		}
		total = m.Or(total, step)
	}
	return m.And(total, c.unit)
}

// EncodeProposition restricts the state group's bit for network variable v
// to 1 (spec.md §4.4).
func (c *Context) EncodeProposition(v int) CSS {
	return c.mgr.Var(c.stateVars[v])
}

// EncodeHybridVar builds the bitwise-equality predicate state_group =
// hybrid_group[idx] (spec.md §4.4).
func (c *Context) EncodeHybridVar(idx int) CSS {
	m := c.mgr
	eq := m.True()
	group := c.hybridVars[idx]
	for i := 0; i < c.n; i++ {
		eq = m.And(eq, m.Iff(m.Var(c.stateVars[i]), m.Var(group[i])))
	}
	return eq
}

// renameStateToNext substitutes each state-group bit in x by the
// corresponding next-state-group bit, used to re-express a CSS "as if" the
// current state were the transition's successor.
func (c *Context) renameStateToNext(x CSS) CSS {
	for i := 0; i < c.n; i++ {
		x = c.mgr.Compose(x, c.stateVars[i], c.mgr.Var(c.nextVars[i]))
	}
	return x
}

// renameNextToState is the inverse of renameStateToNext.
func (c *Context) renameNextToState(x CSS) CSS {
	for i := 0; i < c.n; i++ {
		x = c.mgr.Compose(x, c.nextVars[i], c.mgr.Var(c.stateVars[i]))
	}
	return x
}

// TransitionPreimage computes EX's core operator: the states from which
// some transition reaches x (spec.md §4.4 / §4.5: "EX(φ) →
// transition_preimage(⟦φ⟧)").
func (c *Context) TransitionPreimage(x CSS) CSS {
	xNext := c.renameStateToNext(x)
	conj := c.mgr.And(c.transRel, xNext)
	out := c.existsVars(conj, c.nextVars)
	return c.mgr.And(out, c.unit)
}

// TransitionImage computes the dual operator: the successors reachable
// from x. Exposed alongside TransitionPreimage per spec.md §4.4's interface
// listing, even though HCTL's EX only needs the preimage direction.
func (c *Context) TransitionImage(x CSS) CSS {
	conj := c.mgr.And(c.transRel, x)
	projected := c.existsVars(conj, c.stateVars)
	out := c.renameNextToState(projected)
	return c.mgr.And(out, c.unit)
}

// Substitute implements Bind's operator: "projects out the hybrid group
// idx, then renames the state group to that group" — equivalently
// ∃ h[idx]: X ∧ (h[idx] = state) (spec.md §4.4).
func (c *Context) Substitute(x CSS, idx int) CSS {
	tied := c.mgr.And(x, c.EncodeHybridVar(idx))
	return c.existsVars(tied, c.hybridVars[idx])
}

// Jump implements @{x}'s operator: "renames the hybrid group idx into the
// state group" — ∃ state: X ∧ (state = h[idx]) (spec.md §4.4).
func (c *Context) Jump(x CSS, idx int) CSS {
	tied := c.mgr.And(x, c.EncodeHybridVar(idx))
	return c.existsVars(tied, c.stateVars)
}

// ProjectOut implements ∃{x}'s operator: plain existential projection over
// hybrid group idx (spec.md §4.4).
func (c *Context) ProjectOut(x CSS, idx int) CSS {
	return c.existsVars(x, c.hybridVars[idx])
}

func (c *Context) existsVars(x CSS, vars []int) CSS {
	return c.mgr.ExistsAll(x, vars)
}

// IntersectUnit intersects x with the unit set, restoring the "CSS ⊆ U"
// invariant (spec.md §3/§4.4) after an operation that might not preserve it
// on its own (e.g. a caller-supplied wildcard CSS).
func (c *Context) IntersectUnit(x CSS) CSS {
	return c.mgr.And(x, c.unit)
}

// CSSVars returns the full set of variable indices that a caller-supplied
// extended-context CSS is allowed to mention: state, parameter, and every
// hybrid group. Used to validate IncompatibleContext (spec.md §7).
func (c *Context) CSSVars() []int {
	all := append([]int(nil), c.stateVars...)
	all = append(all, c.paramVars...)
	for _, g := range c.hybridVars {
		all = append(all, g...)
	}
	return all
}

// NumVars reports the total BDD variable count allocated by this context,
// including the transient next-state group.
func (c *Context) NumVars() int { return c.mgr.NumVars() }

// StateVars, ParamVars, HybridVars expose the raw bit indices, for
// cardinality computation (spec.md §6: "cardinality(css) → (state_count,
// colour_count, pair_count)").
func (c *Context) StateVars() []int    { return append([]int(nil), c.stateVars...) }
func (c *Context) ParamVars() []int    { return append([]int(nil), c.paramVars...) }
func (c *Context) HybridVarsGroup(idx int) []int {
	return append([]int(nil), c.hybridVars[idx]...)
}
