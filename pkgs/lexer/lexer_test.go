package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sybila/hctl-symbolic/pkgs/token"
)

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{
			name:  "constants",
			input: "true & False | 1 & 0",
			want:  []token.Type{token.True, token.And, token.False, token.Or, token.True, token.And, token.False, token.EOF},
		},
		{
			name:  "proposition and variable",
			input: "p0 & {x}",
			want:  []token.Type{token.Prop, token.And, token.VarRef, token.EOF},
		},
		{
			name:  "wildcard",
			input: "%ctx%",
			want:  []token.Type{token.Wild, token.EOF},
		},
		{
			name:  "temporal keywords don't swallow adjacent idents",
			input: "EX p0",
			want:  []token.Type{token.EX, token.Prop, token.EOF},
		},
		{
			name:  "binary temporal",
			input: "p0 EU p1",
			want:  []token.Type{token.Prop, token.EU, token.Prop, token.EOF},
		},
		{
			name:  "hybrid symbols",
			input: "!{x}: @{x}: 3{x}: V{x}:",
			want: []token.Type{
				token.Bind, token.VarRef, token.Colon,
				token.Jump, token.VarRef, token.Colon,
				token.Exists, token.VarRef, token.Colon,
				token.Forall, token.VarRef, token.Colon,
				token.EOF,
			},
		},
		{
			name:  "long hybrid forms",
			input: `\bind{x}: \exists{y}:`,
			want: []token.Type{
				token.Bind, token.VarRef, token.Colon,
				token.Exists, token.VarRef, token.Colon,
				token.EOF,
			},
		},
		{
			name:  "in keyword for domain restriction",
			input: "!{x} in %d%:",
			want:  []token.Type{token.Bind, token.VarRef, token.In, token.Wild, token.Colon, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			var got []token.Type
			for _, tok := range toks {
				got = append(got, tok.Type)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	toks, err := Tokenize("{foo} %bar% baz")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []string{"foo", "bar", "baz", ""}
	for i, w := range want {
		if toks[i].Value != w {
			t.Errorf("token[%d].Value = %q, want %q", i, toks[i].Value, w)
		}
	}
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	_, err := Tokenize("p0 & #")
	if err == nil {
		t.Fatal("expected a LexicalError, got nil")
	}
}

func TestTokenizePositions(t *testing.T) {
	toks, err := Tokenize("p0\n & p1")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	// "p1" starts on line 2.
	for _, tok := range toks {
		if tok.Value == "p1" && tok.Pos.Line != 2 {
			t.Errorf("p1 line = %d, want 2", tok.Pos.Line)
		}
	}
}
