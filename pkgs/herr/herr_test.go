package herr

import (
	"strings"
	"testing"
)

func TestLexicalErrorSnippet(t *testing.T) {
	err := LexicalError{Pos: Position{Line: 1, Column: 6}, Char: '#', Source: "p0 & #"}
	msg := err.Error()
	if !strings.Contains(msg, "-->") {
		t.Errorf("Error() = %q, want a snippet with a --> pointer", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Errorf("Error() = %q, want a caret", msg)
	}
}

func TestParseErrorWithoutSource(t *testing.T) {
	err := ParseError{Expected: "')'", Found: "EOF"}
	msg := err.Error()
	if !strings.Contains(msg, "expected ')'") {
		t.Errorf("Error() = %q, want it to mention the expected token", msg)
	}
}

func TestUnknownPropositionSuggestion(t *testing.T) {
	// fuzzy.RankFindFold matches when Name's characters appear, in order,
	// as a subsequence of a candidate — so the typo must be shorter than
	// (or equal to) the real name it's meant to suggest.
	err := UnknownProposition{Name: "sgnaling_on", KnownNames: []string{"signaling_on", "signaling_off"}}
	msg := err.Error()
	if !strings.Contains(msg, `did you mean "signaling_on"`) {
		t.Errorf("Error() = %q, want a suggestion for signaling_on", msg)
	}
}

func TestSuggestNoCandidates(t *testing.T) {
	if got := Suggest("x", nil); got != "" {
		t.Errorf("Suggest with no candidates = %q, want empty", got)
	}
}

func TestWildCardMissing(t *testing.T) {
	err := WildCardMissing{Name: "ctx", KnownNames: []string{"context"}}
	if !strings.Contains(err.Error(), "ctx") {
		t.Errorf("Error() = %q, want it to mention the wildcard name", err.Error())
	}
}

func TestIncompatibleContext(t *testing.T) {
	err := IncompatibleContext{Name: "ctx", Reason: "foreign manager"}
	if !strings.Contains(err.Error(), "foreign manager") {
		t.Errorf("Error() = %q, want it to mention the reason", err.Error())
	}
}
