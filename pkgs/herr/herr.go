// Package herr implements the HCTL core's error taxonomy: LexicalError,
// ParseError, FreeVariable, UnknownProposition, WildCardMissing and
// IncompatibleContext, each a synchronous result value produced by the
// function that detected it. Formatting follows the teacher's
// pkgs/parser/errors.go Rust/Clang-style source snippet convention.
package herr

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Position mirrors token.Position without importing the token package, so
// herr has no dependency on the lexical layer.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// snippet renders a Rust/Clang-style caret pointer into formula text.
func snippet(formula string, pos Position) string {
	if formula == "" || pos.Line == 0 {
		return ""
	}
	lines := strings.Split(formula, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	line := lines[pos.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", pos.Line, pos.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", pos.Line, line)
	b.WriteString("   | ")
	if pos.Column > 0 && pos.Column <= len(line)+1 {
		b.WriteString(strings.Repeat(" ", pos.Column-1) + "^")
	}
	return b.String()
}

// LexicalError is raised when the tokeniser encounters a character that
// cannot begin any valid token.
type LexicalError struct {
	Pos    Position
	Char   rune
	Source string // full formula text, for snippet rendering; may be empty
}

func (e LexicalError) Error() string {
	msg := fmt.Sprintf("unexpected character %q at %s", e.Char, e.Pos)
	if s := snippet(e.Source, e.Pos); s != "" {
		return msg + "\n" + s
	}
	return msg
}

// ParseError is raised on a structural mismatch between the expected and
// found token during parsing.
type ParseError struct {
	Expected string
	Found    string
	Pos      Position
	Source   string
}

func (e ParseError) Error() string {
	msg := fmt.Sprintf("expected %s, got %s at %s", e.Expected, e.Found, e.Pos)
	if s := snippet(e.Source, e.Pos); s != "" {
		return msg + "\n" + s
	}
	return msg
}

// FreeVariable is raised by the validator when a hybrid variable reference
// {x} is not bound by any enclosing quantifier.
type FreeVariable struct {
	Name string
	Pos  Position
}

func (e FreeVariable) Error() string {
	return fmt.Sprintf("free variable {%s} at %s: not bound by an enclosing !{%s}, 3{%s} or V{%s}",
		e.Name, e.Pos, e.Name, e.Name, e.Name)
}

// UnknownProposition is raised when a proposition name does not belong to
// the PSBN's variable vocabulary. Raised at validation when the vocabulary
// is known then, otherwise deferred to evaluation.
type UnknownProposition struct {
	Name       string
	Pos        Position
	KnownNames []string
}

func (e UnknownProposition) Error() string {
	msg := fmt.Sprintf("unknown proposition %q at %s", e.Name, e.Pos)
	if s := Suggest(e.Name, e.KnownNames); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return msg
}

// WildCardMissing is raised when an extended-formula placeholder %name% has
// no corresponding entry in the supplied context.
type WildCardMissing struct {
	Name       string
	KnownNames []string
}

func (e WildCardMissing) Error() string {
	msg := fmt.Sprintf("wildcard %%%s%% has no supplied context", e.Name)
	if s := Suggest(e.Name, e.KnownNames); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return msg
}

// IncompatibleContext is raised when a user-supplied wild-card CSS is
// expressed over BDD variables outside the symbolic context's layout.
type IncompatibleContext struct {
	Name   string
	Reason string
}

func (e IncompatibleContext) Error() string {
	return fmt.Sprintf("wildcard %%%s%% context is incompatible with the symbolic layout: %s", e.Name, e.Reason)
}

// Suggest returns the closest match to name among candidates using
// fuzzy-search ranking, or "" if nothing is close enough to be useful.
// Grounded on the teacher's use of fuzzy.RankFindFold for decorator-name
// suggestions (runtime/planner/planner.go).
func Suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	return ranks[0].Target
}
