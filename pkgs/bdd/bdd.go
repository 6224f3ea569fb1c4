// Package bdd implements a reduced, ordered, hash-consed binary decision
// diagram engine: the "BDD provider" that spec.md §1/§6 treats as an
// external collaborator. No published Go BDD library was found among the
// reference corpus (see DESIGN.md), so this is a from-scratch, idiomatic
// implementation — variable-ordered nodes, a unique table for hash-consing,
// and a memoised apply/exists/compose — built the way the teacher builds
// its other cache-backed, map-based subsystems (maps keyed by a composite
// struct, e.g. core/types/validation_cache.go's validatorCache), without a
// mutex: a Manager is not safe for concurrent use.
package bdd

import (
	"fmt"
	"sort"
)

// Ref is an opaque handle to a BDD node. The zero Ref is the False
// terminal; use Manager.False()/True() to obtain the terminal references.
type Ref int32

type node struct {
	variable int // index into the manager's variable order; terminals use -1
	low      Ref // variable = 0 branch
	high     Ref // variable = 1 branch
}

const (
	refFalse Ref = 0
	refTrue  Ref = 1
)

// Manager owns a single universe of BDD variables and all nodes built over
// them. It is not safe for concurrent use (spec.md §5: "the only shared
// resource is the BDD library's variable manager, which is owned by the
// symbolic context and not shared across contexts").
type Manager struct {
	nodes      []node
	unique     map[node]Ref // hash-consing table: structurally equal nodes share a Ref
	numVars    int
	apply2Memo map[apply2Key]Ref
	existMemo  map[existKey]Ref
	composeMemo map[composeKey]Ref
}

type apply2Key struct {
	op   byte
	a, b Ref
}

type existKey struct {
	v Ref
	variable int
}

type composeKey struct {
	v        Ref
	variable int
	into     Ref
}

// NewManager creates an empty Manager with no variables allocated yet.
func NewManager() *Manager {
	m := &Manager{
		unique:      make(map[node]Ref),
		apply2Memo:  make(map[apply2Key]Ref),
		existMemo:   make(map[existKey]Ref),
		composeMemo: make(map[composeKey]Ref),
	}
	// Reserve refFalse/refTrue as the two terminal nodes.
	m.nodes = append(m.nodes, node{variable: -1}, node{variable: -1})
	return m
}

// NewVar allocates and returns a fresh Boolean variable index. This is the
// "fresh-variable allocator" of spec.md §1; the symbolic context calls it
// once per state/parameter/hybrid bit it needs to represent.
func (m *Manager) NewVar() int {
	v := m.numVars
	m.numVars++
	return v
}

// NumVars reports how many variables have been allocated so far.
func (m *Manager) NumVars() int { return m.numVars }

func (m *Manager) False() Ref { return refFalse }
func (m *Manager) True() Ref  { return refTrue }

// mk looks up or creates the node (variable, low, high), applying the
// standard ROBDD reduction: a node whose branches agree collapses to that
// branch (it depends on nothing), and structurally identical nodes are
// shared via the unique table.
func (m *Manager) mk(variable int, low, high Ref) Ref {
	if low == high {
		return low
	}
	n := node{variable: variable, low: low, high: high}
	if r, ok := m.unique[n]; ok {
		return r
	}
	r := Ref(len(m.nodes))
	m.nodes = append(m.nodes, n)
	m.unique[n] = r
	return r
}

// Var returns the BDD that is true exactly when variable v holds.
func (m *Manager) Var(v int) Ref {
	return m.mk(v, refFalse, refTrue)
}

// NotVar returns the BDD that is true exactly when variable v does not hold.
func (m *Manager) NotVar(v int) Ref {
	return m.mk(v, refTrue, refFalse)
}

func (m *Manager) isTerminal(r Ref) bool { return r == refFalse || r == refTrue }

func (m *Manager) at(r Ref) node { return m.nodes[r] }

// Not computes the Boolean complement of r.
func (m *Manager) Not(r Ref) Ref {
	switch r {
	case refFalse:
		return refTrue
	case refTrue:
		return refFalse
	}
	// Memoised under the key of r XOR true, which denotes the same function.
	key := apply2Key{op: byte(opXor), a: refTrue, b: r}
	if res, ok := m.apply2Memo[key]; ok {
		return res
	}
	n := m.at(r)
	res := m.mk(n.variable, m.Not(n.low), m.Not(n.high))
	m.apply2Memo[key] = res
	return res
}

// And, Or, Xor implement the three Boolean combinators of spec.md §1's BDD
// provider; Imp/Iff are convenience compositions the evaluator also needs.
func (m *Manager) And(a, b Ref) Ref { return m.apply(opAnd, a, b) }
func (m *Manager) Or(a, b Ref) Ref  { return m.apply(opOr, a, b) }
func (m *Manager) Xor(a, b Ref) Ref { return m.apply(opXor, a, b) }

func (m *Manager) Imp(a, b Ref) Ref { return m.Or(m.Not(a), b) }
func (m *Manager) Iff(a, b Ref) Ref { return m.Not(m.Xor(a, b)) }

type binOp byte

const (
	opAnd binOp = iota
	opOr
	opXor
)

func (m *Manager) apply(op binOp, a, b Ref) Ref {
	// terminal short-circuits
	switch op {
	case opAnd:
		if a == refFalse || b == refFalse {
			return refFalse
		}
		if a == refTrue {
			return b
		}
		if b == refTrue {
			return a
		}
	case opOr:
		if a == refTrue || b == refTrue {
			return refTrue
		}
		if a == refFalse {
			return b
		}
		if b == refFalse {
			return a
		}
	case opXor:
		if a == refFalse {
			return b
		}
		if b == refFalse {
			return a
		}
		if a == refTrue {
			return m.Not(b)
		}
		if b == refTrue {
			return m.Not(a)
		}
	}
	if a == b {
		switch op {
		case opAnd, opOr:
			return a
		case opXor:
			return refFalse
		}
	}

	key := apply2Key{op: byte(op), a: a, b: b}
	if a > b {
		// apply2 is commutative for And/Or/Xor; normalise key order to
		// improve memo hit-rate.
		key = apply2Key{op: byte(op), a: b, b: a}
	}
	if r, ok := m.apply2Memo[key]; ok {
		return r
	}

	na, nb := m.at(a), m.at(b)
	var splitVar int
	switch {
	case na.variable == nb.variable:
		splitVar = na.variable
	case m.before(na.variable, nb.variable):
		splitVar = na.variable
	default:
		splitVar = nb.variable
	}

	lowA, highA := a, a
	if na.variable == splitVar {
		lowA, highA = na.low, na.high
	}
	lowB, highB := b, b
	if nb.variable == splitVar {
		lowB, highB = nb.low, nb.high
	}

	low := m.apply(op, lowA, lowB)
	high := m.apply(op, highA, highB)
	r := m.mk(splitVar, low, high)
	m.apply2Memo[key] = r
	return r
}

// before reports whether variable index va precedes vb in the manager's
// fixed variable order (variables are ordered by increasing index, the
// order in which NewVar allocated them).
func (m *Manager) before(va, vb int) bool { return va < vb }

// Exists existentially quantifies variable v out of r: Exists(r, v) =
// restrict(r, v=0) | restrict(r, v=1). This backs the symbolic context's
// project_out and the bind/jump substitution machinery of spec.md §4.4.
func (m *Manager) Exists(r Ref, v int) Ref {
	if m.isTerminal(r) {
		return r
	}
	n := m.at(r)
	if n.variable > v {
		return r // v does not occur in r (variable order guarantees this)
	}
	key := existKey{v: r, variable: v}
	if res, ok := m.existMemo[key]; ok {
		return res
	}
	var res Ref
	if n.variable == v {
		res = m.Or(n.low, n.high)
	} else {
		res = m.mk(n.variable, m.Exists(n.low, v), m.Exists(n.high, v))
	}
	m.existMemo[key] = res
	return res
}

// ExistsAll existentially quantifies every variable in vs out of r.
func (m *Manager) ExistsAll(r Ref, vs []int) Ref {
	for _, v := range vs {
		r = m.Exists(r, v)
	}
	return r
}

// Restrict sets variable v to value in r (cofactor).
func (m *Manager) Restrict(r Ref, v int, value bool) Ref {
	if m.isTerminal(r) {
		return r
	}
	n := m.at(r)
	if n.variable > v {
		return r
	}
	if n.variable == v {
		if value {
			return n.high
		}
		return n.low
	}
	return m.mk(n.variable, m.Restrict(n.low, v, value), m.Restrict(n.high, v, value))
}

// Compose substitutes variable `from` in r by the BDD `into`: every place r
// branches on `from`, it instead branches on `into`. The symbolic context
// uses it to rename the state group onto the next-state group and back
// (compose each bit of a group onto the corresponding bit of the other)
// when computing transition pre-images and images.
func (m *Manager) Compose(r Ref, from int, into Ref) Ref {
	if m.isTerminal(r) {
		return r
	}
	n := m.at(r)
	if n.variable > from {
		return r
	}
	if n.variable == from {
		// r = ITE(from, high, low); substituting `from` with `into` (which
		// the symbolic context never builds to depend on `from` itself)
		// gives ITE(into, high, low).
		return m.Or(m.And(into, n.high), m.And(m.Not(into), n.low))
	}
	key := composeKey{v: r, variable: from, into: into}
	if res, ok := m.composeMemo[key]; ok {
		return res
	}
	res := m.mk(n.variable, m.Compose(n.low, from, into), m.Compose(n.high, from, into))
	m.composeMemo[key] = res
	return res
}

// Equal identity-compares two BDD references: because the manager always
// hash-conses, structurally equal predicates always share the same Ref
// (spec.md §9: "the BDD library canonicalises; identity implies semantic
// equality"), so fixpoint convergence can be checked with ==.
func Equal(a, b Ref) bool { return a == b }

// SatCount returns the number of satisfying assignments of r over exactly
// the variables in vars (vars must be a superset of every variable that
// actually occurs in r; variables not occurring in r are free and each
// doubles the count).
func (m *Manager) SatCount(r Ref, vars []int) uint64 {
	order := append([]int(nil), vars...)
	sort.Ints(order)
	return m.satCount(r, order)
}

func (m *Manager) satCount(r Ref, vars []int) uint64 {
	if len(vars) == 0 {
		if r == refTrue {
			return 1
		}
		return 0
	}
	if r == refFalse {
		return 0
	}
	if r == refTrue {
		return 1 << uint(len(vars))
	}
	n := m.at(r)
	v, rest := vars[0], vars[1:]
	if n.variable != v {
		// v does not constrain r: both branches equal r.
		return 2 * m.satCount(r, rest)
	}
	return m.satCount(n.low, rest) + m.satCount(n.high, rest)
}

// ValidRef reports whether r is a reference this manager could have
// produced (used by callers validating a foreign-supplied CSS, e.g. the
// evaluator's extended-context check).
func (m *Manager) ValidRef(r Ref) bool {
	return r >= 0 && int(r) < len(m.nodes)
}

// String returns a small debugging description of r (node count), useful
// under HCTL_DEBUG logging in the evaluator rather than as an API surface.
func (m *Manager) String(r Ref) string {
	seen := map[Ref]bool{}
	var count func(Ref)
	count = func(x Ref) {
		if m.isTerminal(x) || seen[x] {
			return
		}
		seen[x] = true
		n := m.at(x)
		count(n.low)
		count(n.high)
	}
	count(r)
	return fmt.Sprintf("bdd(nodes=%d)", len(seen))
}
