// Package psbn provides the in-memory representation of a parametrised
// Boolean network used by tests and programmatic callers (spec.md §6:
// parsing the on-disk aeon/sbml/bnet formats is explicitly the caller's
// job, not this core's). A Network is just variables, parameters, one
// update Expr per variable, and an optional static unit constraint.
package psbn

import "fmt"

// ExprKind tags the variant of an update-function Expr.
type ExprKind int

const (
	EConst ExprKind = iota
	EVar            // network state variable, by index
	EParam          // free parameter, by index
	ENot
	EAnd
	EOr
)

// Expr is an update-function or unit-constraint expression over state
// variables and parameters. It mirrors ast.Formula's tagged-variant shape
// (spec.md §3's "Syntax tree node" pattern), scaled down to the small
// Boolean-expression language update functions actually need.
type Expr struct {
	Kind      ExprKind
	BoolValue bool
	Index     int // variable or parameter index, per Kind
	Left, Right, Child *Expr
}

func Const(v bool) *Expr        { return &Expr{Kind: EConst, BoolValue: v} }
func Var(idx int) *Expr         { return &Expr{Kind: EVar, Index: idx} }
func Param(idx int) *Expr       { return &Expr{Kind: EParam, Index: idx} }
func Not(e *Expr) *Expr         { return &Expr{Kind: ENot, Child: e} }
func And(l, r *Expr) *Expr      { return &Expr{Kind: EAnd, Left: l, Right: r} }
func Or(l, r *Expr) *Expr       { return &Expr{Kind: EOr, Left: l, Right: r} }

// Network is a parametrised Boolean network: N state variables, P free
// parameters, one update Expr per variable, and a unit constraint over
// parameters restricting admissible colours (spec.md §3's "unit set").
type Network struct {
	varNames   []string
	paramNames []string
	updates    []*Expr // len == len(varNames); nil entry means no update function was set
	unit       *Expr   // over parameter indices only; nil means "all colours admissible"
}

// NewNetwork builds an empty network over the given variable and parameter
// names. Update functions default to nil (none set) until SetUpdate is
// called; this lets callers build networks incrementally, the way the
// teacher's builder-pattern constructors (pkgs/ast's smart constructors) do.
func NewNetwork(varNames, paramNames []string) *Network {
	return &Network{
		varNames:   append([]string(nil), varNames...),
		paramNames: append([]string(nil), paramNames...),
		updates:    make([]*Expr, len(varNames)),
	}
}

// SetUpdate assigns the update function for variable idx.
func (n *Network) SetUpdate(idx int, e *Expr) error {
	if idx < 0 || idx >= len(n.updates) {
		return fmt.Errorf("psbn: variable index %d out of range [0,%d)", idx, len(n.updates))
	}
	n.updates[idx] = e
	return nil
}

// SetUnit assigns the static parameter constraint defining the unit set.
func (n *Network) SetUnit(e *Expr) { n.unit = e }

// NumVars, NumParams report N and P (spec.md §3).
func (n *Network) NumVars() int   { return len(n.varNames) }
func (n *Network) NumParams() int { return len(n.paramNames) }

// VarName, ParamName look up the surface names attached at construction.
func (n *Network) VarName(idx int) string   { return n.varNames[idx] }
func (n *Network) ParamName(idx int) string { return n.paramNames[idx] }

// VarIndex, ParamIndex are the inverse lookups, used by callers assembling
// Expr trees from names rather than indices.
func (n *Network) VarIndex(name string) (int, bool) {
	for i, v := range n.varNames {
		if v == name {
			return i, true
		}
	}
	return 0, false
}

func (n *Network) ParamIndex(name string) (int, bool) {
	for i, p := range n.paramNames {
		if p == name {
			return i, true
		}
	}
	return 0, false
}

// Update returns the update Expr for variable idx, or nil if none was set.
// The symbolic context compiles a nil update as the constant true; it is not
// treated as a freely parametrised update.
func (n *Network) Update(idx int) *Expr { return n.updates[idx] }

// Unit returns the static parameter constraint, or nil meaning "no
// constraint" (every colour admissible).
func (n *Network) Unit() *Expr { return n.unit }

// HasProposition and PropositionNames implement validate.Vocabulary: every
// network variable name is a valid HCTL proposition (spec.md §3: "Prop(name)
// — a network variable").
func (n *Network) HasProposition(name string) bool {
	_, ok := n.VarIndex(name)
	return ok
}

func (n *Network) PropositionNames() []string {
	return append([]string(nil), n.varNames...)
}
