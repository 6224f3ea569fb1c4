// Package facade implements the analysis façade of spec.md §2/§6: the
// single orchestration point that strings parse → validate → allocate
// context → evaluate → extract result together, short-circuiting on the
// first error and wrapping each stage's error with its stage name
// (following the teacher's stage-wrapped pkg/errors convention throughout
// runtime/planner and core/validation).
package facade

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sybila/hctl-symbolic/pkgs/ast"
	"github.com/sybila/hctl-symbolic/pkgs/eval"
	"github.com/sybila/hctl-symbolic/pkgs/parser"
	"github.com/sybila/hctl-symbolic/pkgs/psbn"
	"github.com/sybila/hctl-symbolic/pkgs/symbolic"
	"github.com/sybila/hctl-symbolic/pkgs/validate"
)

// Cardinality reports the precise sizes spec.md §6 promises:
// state_count, colour_count and pair_count, all computed directly from the
// CSS's BDD rather than by enumeration.
type Cardinality struct {
	StateCount  uint64
	ColourCount uint64
	PairCount   uint64
}

// Result bundles everything a caller typically wants out of a single
// model_check call: the coloured state set itself plus its cardinality.
type Result struct {
	CSS         symbolic.CSS
	Cardinality Cardinality
}

// Parse tokenises and parses formula (spec.md §6: "parse(formula_string) →
// Tree"), wrapping any lexical or structural error with the "parse" stage.
func Parse(formula string) (*ast.Formula, error) {
	tree, err := parser.Parse(formula)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return tree, nil
}

// Validate checks well-formedness and computes the canonical tree
// (spec.md §6: "validate(tree) → CanonicalTree").
func Validate(tree *ast.Formula, vocab validate.Vocabulary) (*validate.Canonical, error) {
	canon, err := validate.Validate(tree, vocab)
	if err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	return canon, nil
}

// Evaluate runs the evaluation engine over an already-validated canonical
// tree against a symbolic context (spec.md §6: "evaluate(canonical_tree,
// psbn, context) → CSS").
func Evaluate(goCtx context.Context, canon *validate.Canonical, symCtx *symbolic.Context, extCtx map[string]symbolic.CSS, cfg eval.Config) (symbolic.CSS, error) {
	css, err := eval.Evaluate(goCtx, canon.Tree, symCtx, extCtx, cfg)
	if err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}
	return css, nil
}

// ModelCheck is the single high-level entry point of spec.md §6:
// "model_check(psbn, formula_string, [extended_context]) → CSS". It
// allocates a fresh symbolic context sized to the formula's own canonical
// K, so callers never have to reason about hybrid-group counts themselves.
func ModelCheck(goCtx context.Context, net *psbn.Network, formula string, extendedContext map[string]symbolic.CSS, cfg eval.Config) (*Result, error) {
	tree, err := Parse(formula)
	if err != nil {
		return nil, err
	}

	canon, err := Validate(tree, net)
	if err != nil {
		return nil, err
	}

	symCtx := symbolic.NewContext(net, canon.K)

	css, err := Evaluate(goCtx, canon, symCtx, extendedContext, cfg)
	if err != nil {
		return nil, err
	}

	return &Result{CSS: css, Cardinality: ComputeCardinality(symCtx, css)}, nil
}

// ComputeCardinality computes (state_count, colour_count, pair_count) for
// css against symCtx's variable layout (spec.md §6: "cardinality(css) →
// (state_count, colour_count, pair_count) — precise cardinalities from the
// BDD"). state_count and colour_count project out every other dimension
// before counting; pair_count counts over the joint (state, colour) space
// directly.
func ComputeCardinality(symCtx *symbolic.Context, css symbolic.CSS) Cardinality {
	mgr := symCtx.Manager()
	stateVars := symCtx.StateVars()
	paramVars := symCtx.ParamVars()

	return Cardinality{
		StateCount:  mgr.SatCount(mgr.ExistsAll(css, paramVars), stateVars),
		ColourCount: mgr.SatCount(mgr.ExistsAll(css, stateVars), paramVars),
		PairCount:   mgr.SatCount(css, append(append([]int(nil), stateVars...), paramVars...)),
	}
}
