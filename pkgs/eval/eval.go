// Package eval implements the HCTL evaluation engine of spec.md §4.5: a
// bottom-up, cache-enabled recursive evaluator that computes a coloured
// state set per sub-formula using symbolic fixpoints for temporal
// operators and substitutions for hybrid operators. Dispatch, caching, and
// logging follow the teacher's ValidationConfig/DefaultValidationConfig
// pattern (a small options struct with a constructor for its defaults) and
// its log/slog debug-level instrumentation.
package eval

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/sybila/hctl-symbolic/pkgs/ast"
	"github.com/sybila/hctl-symbolic/pkgs/bdd"
	"github.com/sybila/hctl-symbolic/pkgs/fingerprint"
	"github.com/sybila/hctl-symbolic/pkgs/herr"
	"github.com/sybila/hctl-symbolic/pkgs/symbolic"
)

var logger = newLogger()

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("HCTL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Config mirrors the teacher's ValidationConfig: a small, copyable options
// struct with an explicit constructor for its defaults, rather than
// functional options (spec.md's evaluator has few enough knobs that this
// stays readable).
type Config struct {
	// MaxIterations caps Kleene iteration as a safety net against a
	// mis-encoded transition relation looping without reaching a fixpoint;
	// the lattice is finite so a correct encoding always converges well
	// before this (spec.md §4.5), but a cap turns a latent bug into an
	// error instead of a hang.
	MaxIterations int
	// Saturation is carried in the configuration but is not read by the
	// evaluator: both settings run the same whole-relation EX step (see
	// stepEX), so no per-variable EX decomposition takes place.
	Saturation bool
	// CacheEnabled toggles the content-addressable sub-formula cache.
	CacheEnabled bool
}

// DefaultConfig returns the configuration new callers should start from.
func DefaultConfig() Config {
	return Config{MaxIterations: 1 << 20, Saturation: true, CacheEnabled: true}
}

// evaluator carries one evaluation call's mutable state: the symbolic
// context being consulted, the extended-context wildcard bindings, the
// sub-formula cache, and the config. Its lifetime is a single Evaluate
// call (spec.md §4.5: "Cache lifetime is the evaluation call.").
type evaluator struct {
	ctx     *symbolic.Context
	extCtx  map[string]symbolic.CSS
	cache   map[fingerprint.Digest]symbolic.CSS
	cfg     Config
}

// Evaluate computes the coloured state set denoted by tree (already
// validated and canonically renamed) against ctx, consulting extCtx for any
// WildCard placeholders the formula references.
func Evaluate(goCtx context.Context, tree *ast.Formula, symCtx *symbolic.Context, extCtx map[string]symbolic.CSS, cfg Config) (symbolic.CSS, error) {
	e := &evaluator{
		ctx:    symCtx,
		extCtx: extCtx,
		cache:  make(map[fingerprint.Digest]symbolic.CSS),
		cfg:    cfg,
	}
	if err := e.validateExtendedContext(); err != nil {
		return 0, errors.Wrap(err, "evaluate: extended context")
	}
	css, err := e.eval(goCtx, tree)
	if err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}
	return css, nil
}

// validateExtendedContext checks every supplied wildcard CSS is expressed
// only over this context's BDD variable layout (spec.md §9 / §7's
// IncompatibleContext); a CSS referencing a foreign variable cannot have
// been produced against this context's manager.
func (e *evaluator) validateExtendedContext() error {
	mgr := e.ctx.Manager()
	allowed := make(map[int]bool)
	for _, v := range e.ctx.CSSVars() {
		allowed[v] = true
	}
	for name, css := range e.extCtx {
		if !mgr.ValidRef(css) {
			return herr.IncompatibleContext{Name: name, Reason: "reference is not a valid node in this context's BDD manager"}
		}
		for v := 0; v < mgr.NumVars(); v++ {
			if !allowed[v] && mgr.Exists(css, v) != css {
				return herr.IncompatibleContext{Name: name, Reason: "depends on a BDD variable outside the state, parameter and hybrid groups"}
			}
		}
	}
	return nil
}

func (e *evaluator) eval(goCtx context.Context, f *ast.Formula) (symbolic.CSS, error) {
	if err := goCtx.Err(); err != nil {
		return 0, err
	}

	var key fingerprint.Digest
	if e.cfg.CacheEnabled {
		var err error
		key, err = fingerprint.Of(f)
		if err != nil {
			return 0, errors.Wrap(err, "fingerprint")
		}
		if css, ok := e.cache[key]; ok {
			logger.Debug("cache hit", "kind", f.Kind.String())
			return css, nil
		}
	}

	css, err := e.evalUncached(goCtx, f)
	if err != nil {
		return 0, err
	}

	if e.cfg.CacheEnabled {
		e.cache[key] = css
	}
	return css, nil
}

func (e *evaluator) evalUncached(goCtx context.Context, f *ast.Formula) (symbolic.CSS, error) {
	sc := e.ctx
	m := sc.Manager()

	switch f.Kind {
	case ast.KConst:
		if f.BoolValue {
			return sc.Unit(), nil
		}
		return m.False(), nil

	case ast.KProp:
		idx, err := propIndex(sc, f.Name)
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), sc.EncodeProposition(idx)), nil

	case ast.KVar:
		return m.And(sc.Unit(), sc.EncodeHybridVar(f.Index)), nil

	case ast.KWildCard:
		css, ok := e.extCtx[f.Name]
		if !ok {
			return 0, herr.WildCardMissing{Name: f.Name, KnownNames: e.knownWildcards()}
		}
		return sc.IntersectUnit(css), nil

	case ast.KNot:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(c)), nil

	case ast.KAnd:
		return e.binary(goCtx, f, m.And)
	case ast.KOr:
		return e.binary(goCtx, f, m.Or)
	case ast.KImp:
		return e.binary(goCtx, f, m.Imp)
	case ast.KIff:
		return e.binary(goCtx, f, m.Iff)
	case ast.KXor:
		return e.binary(goCtx, f, m.Xor)

	case ast.KEX:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return sc.TransitionPreimage(c), nil

	case ast.KAX:
		// AX φ ≡ ¬EX¬φ (spec.md §4.3).
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(sc.TransitionPreimage(m.And(sc.Unit(), m.Not(c))))), nil

	case ast.KEF:
		phi, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return e.lfpEU(goCtx, sc.Unit(), phi)

	case ast.KAF:
		// AF φ ≡ ¬EG¬φ.
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		eg, err := e.gfpEG(goCtx, m.And(sc.Unit(), m.Not(c)))
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(eg)), nil

	case ast.KEG:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return e.gfpEG(goCtx, c)

	case ast.KAG:
		// AG φ ≡ ¬EF¬φ.
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		ef, err := e.lfpEU(goCtx, sc.Unit(), m.And(sc.Unit(), m.Not(c)))
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(ef)), nil

	case ast.KEU:
		phi, psi, err := e.evalPair(goCtx, f)
		if err != nil {
			return 0, err
		}
		return e.lfpEU(goCtx, phi, psi)

	case ast.KAU:
		// A[φ U ψ] is derived through its standard fixpoint dual rather
		// than a direct E-rewrite: gfp/lfp combination
		// ¬(E[¬ψ U ¬(φ∨ψ)] ∨ EG¬ψ).
		phi, psi, err := e.evalPair(goCtx, f)
		if err != nil {
			return 0, err
		}
		notPsi := m.And(sc.Unit(), m.Not(psi))
		notPhiOrPsi := m.And(sc.Unit(), m.Not(m.Or(phi, psi)))
		eu, err := e.lfpEU(goCtx, notPsi, notPhiOrPsi)
		if err != nil {
			return 0, err
		}
		eg, err := e.gfpEG(goCtx, notPsi)
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(m.Or(eu, eg))), nil

	case ast.KEW:
		// E[φ W ψ] ≡ E[φ U ψ] ∨ EG φ.
		phi, psi, err := e.evalPair(goCtx, f)
		if err != nil {
			return 0, err
		}
		eu, err := e.lfpEU(goCtx, phi, psi)
		if err != nil {
			return 0, err
		}
		eg, err := e.gfpEG(goCtx, phi)
		if err != nil {
			return 0, err
		}
		return m.Or(eu, eg), nil

	case ast.KAW:
		// A[φ W ψ] ≡ ¬E[¬ψ U ¬(φ∨ψ)].
		phi, psi, err := e.evalPair(goCtx, f)
		if err != nil {
			return 0, err
		}
		notPsi := m.And(sc.Unit(), m.Not(psi))
		notPhiOrPsi := m.And(sc.Unit(), m.Not(m.Or(phi, psi)))
		eu, err := e.lfpEU(goCtx, notPsi, notPhiOrPsi)
		if err != nil {
			return 0, err
		}
		return m.And(sc.Unit(), m.Not(eu)), nil

	case ast.KBind:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return sc.Substitute(c, f.Index), nil

	case ast.KJump:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return sc.Jump(c, f.Index), nil

	case ast.KExists:
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		return sc.ProjectOut(c, f.Index), nil

	case ast.KForall:
		// ∀{x}: φ ≡ ¬∃{x}: ¬φ (spec.md §4.5).
		c, err := e.eval(goCtx, f.Child)
		if err != nil {
			return 0, err
		}
		notC := m.And(sc.Unit(), m.Not(c))
		proj := sc.ProjectOut(notC, f.Index)
		return m.And(sc.Unit(), m.Not(proj)), nil

	default:
		return 0, errors.Errorf("eval: unhandled node kind %s", f.Kind)
	}
}

func (e *evaluator) binary(goCtx context.Context, f *ast.Formula, combine func(bdd.Ref, bdd.Ref) bdd.Ref) (symbolic.CSS, error) {
	l, r, err := e.evalPair(goCtx, f)
	if err != nil {
		return 0, err
	}
	return e.ctx.IntersectUnit(combine(l, r)), nil
}

func (e *evaluator) evalPair(goCtx context.Context, f *ast.Formula) (symbolic.CSS, symbolic.CSS, error) {
	l, err := e.eval(goCtx, f.Left)
	if err != nil {
		return 0, 0, err
	}
	r, err := e.eval(goCtx, f.Right)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

// lfpEU computes lfp X. ψ ∪ (φ ∩ EX X), the least fixpoint semantics of
// E[φ U ψ] (spec.md §4.5).
func (e *evaluator) lfpEU(goCtx context.Context, phi, psi symbolic.CSS) (symbolic.CSS, error) {
	m := e.ctx.Manager()
	x := psi
	for i := 0; i < e.cfg.MaxIterations; i++ {
		if err := goCtx.Err(); err != nil {
			return 0, err
		}
		next := m.Or(psi, m.And(phi, e.stepEX(x)))
		if bdd.Equal(next, x) {
			logger.Debug("lfp EU converged", "iterations", i)
			return x, nil
		}
		x = next
	}
	return 0, errors.New("eval: EU fixpoint did not converge within MaxIterations")
}

// gfpEG computes gfp X. φ ∩ EX X, the greatest fixpoint semantics of EG(φ)
// (spec.md §4.5), starting from the full lattice top (φ itself, since the
// candidate set can never exceed φ).
func (e *evaluator) gfpEG(goCtx context.Context, phi symbolic.CSS) (symbolic.CSS, error) {
	m := e.ctx.Manager()
	x := phi
	for i := 0; i < e.cfg.MaxIterations; i++ {
		if err := goCtx.Err(); err != nil {
			return 0, err
		}
		next := m.And(phi, e.stepEX(x))
		if bdd.Equal(next, x) {
			logger.Debug("gfp EG converged", "iterations", i)
			return x, nil
		}
		x = next
	}
	return 0, errors.New("eval: EG fixpoint did not converge within MaxIterations")
}

// stepEX applies one EX step through symbolic.Context.TransitionPreimage,
// which uses the full union transition relation in one BDD operation. It
// does the same whatever Config.Saturation says: EX is not decomposed into
// per-variable transitions.
func (e *evaluator) stepEX(x symbolic.CSS) symbolic.CSS {
	return e.ctx.TransitionPreimage(x)
}

func (e *evaluator) knownWildcards() []string {
	names := make([]string, 0, len(e.extCtx))
	for name := range e.extCtx {
		names = append(names, name)
	}
	return names
}

// propIndex resolves a proposition's surface name to its network variable
// index via the symbolic context's backing PSBN. Validation (pkgs/validate)
// already guarantees the name is known when a vocabulary was supplied; a
// name the PSBN does not know is reported here as UnknownProposition.
func propIndex(sc *symbolic.Context, name string) (int, error) {
	net := sc.Network()
	if idx, found := net.VarIndex(name); found {
		return idx, nil
	}
	return 0, herr.UnknownProposition{Name: name, KnownNames: net.PropositionNames()}
}
