// Package ast defines the HCTL syntax tree: a tagged variant with one Kind
// per spec.md §3 node shape. The evaluator dispatches on Kind directly; no
// dynamic dispatch (interface-per-node) is needed, following the teacher's
// observation (spec.md §9) that this keeps evaluation a plain switch.
package ast

import "fmt"

// Kind tags the variant of a Formula node.
type Kind int

const (
	KConst Kind = iota
	KProp
	KVar // canonical hybrid-variable reference, index valid only after validation
	KNot
	KAnd
	KOr
	KImp
	KIff
	KXor
	KEX
	KAX
	KEF
	KAF
	KEG
	KAG
	KEU
	KAU
	KEW
	KAW
	KBind
	KJump
	KExists
	KForall
	KWildCard
)

var kindNames = [...]string{
	KConst: "const", KProp: "prop", KVar: "var",
	KNot: "~", KAnd: "&", KOr: "|", KImp: "=>", KIff: "<=>", KXor: "^",
	KEX: "EX", KAX: "AX", KEF: "EF", KAF: "AF", KEG: "EG", KAG: "AG",
	KEU: "EU", KAU: "AU", KEW: "EW", KAW: "AW",
	KBind: "bind", KJump: "jump", KExists: "exists", KForall: "forall",
	KWildCard: "wildcard",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Formula is a single HCTL syntax-tree node. Only the fields relevant to
// Kind are populated; this mirrors a tagged union without the boilerplate
// of one Go type per variant.
//
//   - KConst:    BoolValue
//   - KProp:     Name
//   - KVar:      Name (surface name, pre-validation) and/or Index (canonical, post-validation)
//   - KNot, KEX, KAX, KEF, KAF, KEG, KAG: Child
//   - KAnd, KOr, KImp, KIff, KXor, KEU, KAU, KEW, KAW: Left, Right
//   - KBind, KJump, KExists, KForall: Name/Index plus Child
//   - KWildCard: Name
type Formula struct {
	Kind Kind

	BoolValue bool
	Name      string // source-level identifier (proposition, hybrid-var, wildcard)
	Index     int    // canonical hybrid-variable group index, set by the validator

	Left, Right, Child *Formula
}

// --- smart constructors, following the teacher's pkgs/ast/builder.go style ---

func Const(v bool) *Formula { return &Formula{Kind: KConst, BoolValue: v} }
func Prop(name string) *Formula { return &Formula{Kind: KProp, Name: name} }
func Var(name string) *Formula  { return &Formula{Kind: KVar, Name: name} }

func Not(f *Formula) *Formula { return &Formula{Kind: KNot, Child: f} }
func And(l, r *Formula) *Formula { return &Formula{Kind: KAnd, Left: l, Right: r} }
func Or(l, r *Formula) *Formula  { return &Formula{Kind: KOr, Left: l, Right: r} }
func Imp(l, r *Formula) *Formula { return &Formula{Kind: KImp, Left: l, Right: r} }
func Iff(l, r *Formula) *Formula { return &Formula{Kind: KIff, Left: l, Right: r} }
func Xor(l, r *Formula) *Formula { return &Formula{Kind: KXor, Left: l, Right: r} }

func EX(f *Formula) *Formula { return &Formula{Kind: KEX, Child: f} }
func AX(f *Formula) *Formula { return &Formula{Kind: KAX, Child: f} }
func EF(f *Formula) *Formula { return &Formula{Kind: KEF, Child: f} }
func AF(f *Formula) *Formula { return &Formula{Kind: KAF, Child: f} }
func EG(f *Formula) *Formula { return &Formula{Kind: KEG, Child: f} }
func AG(f *Formula) *Formula { return &Formula{Kind: KAG, Child: f} }

func EU(l, r *Formula) *Formula { return &Formula{Kind: KEU, Left: l, Right: r} }
func AU(l, r *Formula) *Formula { return &Formula{Kind: KAU, Left: l, Right: r} }
func EW(l, r *Formula) *Formula { return &Formula{Kind: KEW, Left: l, Right: r} }
func AW(l, r *Formula) *Formula { return &Formula{Kind: KAW, Left: l, Right: r} }

func Bind(name string, f *Formula) *Formula   { return &Formula{Kind: KBind, Name: name, Child: f} }
func Jump(name string, f *Formula) *Formula   { return &Formula{Kind: KJump, Name: name, Child: f} }
func Exists(name string, f *Formula) *Formula { return &Formula{Kind: KExists, Name: name, Child: f} }
func Forall(name string, f *Formula) *Formula { return &Formula{Kind: KForall, Name: name, Child: f} }

func WildCard(name string) *Formula { return &Formula{Kind: KWildCard, Name: name} }

// IsHybrid reports whether k introduces or consumes a hybrid-variable
// binding (KBind, KJump, KExists, KForall).
func (k Kind) IsHybrid() bool {
	switch k {
	case KBind, KJump, KExists, KForall:
		return true
	default:
		return false
	}
}

// Children returns f's direct sub-formulas in a stable order, for
// traversals that don't need to distinguish Left/Right/Child.
func (f *Formula) Children() []*Formula {
	switch {
	case f.Left != nil || f.Right != nil:
		return []*Formula{f.Left, f.Right}
	case f.Child != nil:
		return []*Formula{f.Child}
	default:
		return nil
	}
}
