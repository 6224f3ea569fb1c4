package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sybila/hctl-symbolic/pkgs/ast"
)

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ast.Formula
	}{
		{
			name:  "and binds tighter than or",
			input: "p0 & p1 | p2",
			want:  ast.Or(ast.And(ast.Prop("p0"), ast.Prop("p1")), ast.Prop("p2")),
		},
		{
			name:  "imp is right-associative",
			input: "p0 => p1 => p2",
			want:  ast.Imp(ast.Prop("p0"), ast.Imp(ast.Prop("p1"), ast.Prop("p2"))),
		},
		{
			name:  "unary temporal binds tighter than and",
			input: "EX p0 & p1",
			want:  ast.And(ast.EX(ast.Prop("p0")), ast.Prop("p1")),
		},
		{
			name:  "binary temporal binds tighter than and",
			input: "p0 EU p1 & p2",
			want:  ast.And(ast.EU(ast.Prop("p0"), ast.Prop("p1")), ast.Prop("p2")),
		},
		{
			name:  "not is tighter than and",
			input: "~p0 & p1",
			want:  ast.And(ast.Not(ast.Prop("p0")), ast.Prop("p1")),
		},
		{
			name:  "hybrid quantifier swallows the rest of the expression",
			input: "!{x}: p0 & p1",
			want:  ast.Bind("x", ast.And(ast.Prop("p0"), ast.Prop("p1"))),
		},
		{
			name:  "parentheses override precedence",
			input: "(p0 | p1) & p2",
			want:  ast.And(ast.Or(ast.Prop("p0"), ast.Prop("p1")), ast.Prop("p2")),
		},
		{
			name:  "domain-restricted bind conjoins the wildcard",
			input: "!{x} in %d%: p0",
			want:  ast.Bind("x", ast.And(ast.WildCard("d"), ast.Prop("p0"))),
		},
		{
			name:  "domain-restricted forall implies from the wildcard",
			input: "V{x} in %d%: p0",
			want:  ast.Forall("x", ast.Imp(ast.WildCard("d"), ast.Prop("p0"))),
		},
		{
			name:  "long hybrid form",
			input: `\exists{x}: p0`,
			want:  ast.Exists("x", ast.Prop("p0")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(ast.Formula{}, "Index")); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Invariant 8 (spec.md §8): parse(print(tree)) = tree up to
	// α-equivalence.
	formulas := []string{
		"p0 & p1",
		"!{x}: AX {x}",
		"!{x}: AG EF {x}",
		`\bind{x}: (\exists{y}: ((@{x}: ~{y} & AX {x}) & (@{y}: AX {y})))`,
		"p0 EU p1",
		"p0 EW p1",
	}
	for _, f := range formulas {
		t.Run(f, func(t *testing.T) {
			tree, err := Parse(f)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", f, err)
			}
			printed := ast.Print(tree)
			reparsed, err := Parse(printed)
			if err != nil {
				t.Fatalf("Parse(print(%q)) = Parse(%q) error: %v", f, printed, err)
			}
			if diff := cmp.Diff(tree, reparsed); diff != "" {
				t.Errorf("round-trip mismatch for %q (printed as %q) (-want +got):\n%s", f, printed, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"p0 &",
		"!{x} p0",
		"(p0 & p1",
		"p0 #",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) expected an error, got nil", input)
			}
		})
	}
}
