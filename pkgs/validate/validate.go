// Package validate implements the HCTL validator/normaliser of spec.md §4.3:
// it checks well-formedness (no free hybrid variables, every proposition
// known to the PSBN when a vocabulary is supplied) and rewrites the tree so
// that every hybrid-variable reference carries a canonical, recyclable group
// index instead of its surface name.
package validate

import (
	"github.com/sybila/hctl-symbolic/pkgs/ast"
	"github.com/sybila/hctl-symbolic/pkgs/herr"
)

// Canonical is a validated syntax tree: every ast.KVar, ast.KBind, ast.KJump,
// ast.KExists and ast.KForall node has Index set to its canonical hybrid
// group, and K is the number of groups that must ever be live at once.
type Canonical struct {
	Tree *ast.Formula
	K    int // max_simultaneously_bound_vars, spec.md §3
}

// Vocabulary supplies the known proposition names of a PSBN, for early
// UnknownProposition detection (spec.md §7). A nil Vocabulary defers that
// check to evaluation.
type Vocabulary interface {
	HasProposition(name string) bool
	PropositionNames() []string
}

// scope binds a surface hybrid-variable name to the canonical index
// currently assigned to it.
type scope struct {
	name  string
	index int
	outer *scope
}

type validator struct {
	vocab Vocabulary
	// freeList holds canonical indices no longer in use by any live scope,
	// recycled by the next quantifier that opens (spec.md §3 invariant:
	// "Inner bindings reuse indices freed by outer scopes.")
	freeList []int
	next     int // smallest index never yet allocated
	maxLive  int // high-water mark of simultaneously live indices
	live     int
}

// Validate checks well-formedness of tree and returns its canonical form.
// vocab may be nil if the PSBN's proposition vocabulary is not yet known.
func Validate(tree *ast.Formula, vocab Vocabulary) (*Canonical, error) {
	v := &validator{vocab: vocab}
	canon, err := v.walk(tree, nil)
	if err != nil {
		return nil, err
	}
	return &Canonical{Tree: canon, K: v.maxLive}, nil
}

func (v *validator) allocate() int {
	var idx int
	if n := len(v.freeList); n > 0 {
		idx, v.freeList = v.freeList[n-1], v.freeList[:n-1]
	} else {
		idx, v.next = v.next, v.next+1
	}
	v.live++
	if v.live > v.maxLive {
		v.maxLive = v.live
	}
	return idx
}

func (v *validator) release(idx int) {
	v.freeList = append(v.freeList, idx)
	v.live--
}

func lookup(s *scope, name string) (int, bool) {
	for ; s != nil; s = s.outer {
		if s.name == name {
			return s.index, true
		}
	}
	return 0, false
}

// walk performs the single structural traversal described in spec.md §4.3,
// carrying the lexical environment (scope chain) and the canonical-index
// allocator. It returns a freshly built tree sharing no nodes with tree,
// since every hybrid node needs its Index field filled in.
func (v *validator) walk(f *ast.Formula, env *scope) (*ast.Formula, error) {
	if f == nil {
		return nil, nil
	}
	switch f.Kind {
	case ast.KConst:
		return ast.Const(f.BoolValue), nil

	case ast.KProp:
		if v.vocab != nil && !v.vocab.HasProposition(f.Name) {
			return nil, herr.UnknownProposition{Name: f.Name, KnownNames: v.vocab.PropositionNames()}
		}
		return ast.Prop(f.Name), nil

	case ast.KVar:
		idx, ok := lookup(env, f.Name)
		if !ok {
			return nil, herr.FreeVariable{Name: f.Name}
		}
		n := ast.Var(f.Name)
		n.Index = idx
		return n, nil

	case ast.KWildCard:
		return ast.WildCard(f.Name), nil

	case ast.KNot:
		c, err := v.walk(f.Child, env)
		if err != nil {
			return nil, err
		}
		return ast.Not(c), nil

	case ast.KEX, ast.KAX, ast.KEF, ast.KAF, ast.KEG, ast.KAG:
		c, err := v.walk(f.Child, env)
		if err != nil {
			return nil, err
		}
		return &ast.Formula{Kind: f.Kind, Child: c}, nil

	case ast.KAnd, ast.KOr, ast.KImp, ast.KIff, ast.KXor, ast.KEU, ast.KAU, ast.KEW, ast.KAW:
		l, err := v.walk(f.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := v.walk(f.Right, env)
		if err != nil {
			return nil, err
		}
		return &ast.Formula{Kind: f.Kind, Left: l, Right: r}, nil

	case ast.KBind, ast.KExists, ast.KForall:
		idx := v.allocate()
		inner := &scope{name: f.Name, index: idx, outer: env}
		c, err := v.walk(f.Child, inner)
		v.release(idx)
		if err != nil {
			return nil, err
		}
		n := &ast.Formula{Kind: f.Kind, Name: f.Name, Index: idx, Child: c}
		return n, nil

	case ast.KJump:
		// @{x} is not a binder: x must already be bound by an enclosing
		// !{x}/3{x}/V{x}; the jump only moves evaluation to the state
		// stored in x ("(K,v,s) |= @x.phi iff (K,v,v(x)) |= phi"), so it
		// resolves against the existing scope chain exactly like KVar.
		idx, ok := lookup(env, f.Name)
		if !ok {
			return nil, herr.FreeVariable{Name: f.Name}
		}
		c, err := v.walk(f.Child, env)
		if err != nil {
			return nil, err
		}
		return &ast.Formula{Kind: f.Kind, Name: f.Name, Index: idx, Child: c}, nil

	default:
		return nil, herr.ParseError{Expected: "a well-formed HCTL node", Found: f.Kind.String()}
	}
}
