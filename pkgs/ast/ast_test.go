package ast

import "testing"

func TestSmartConstructorsSetKind(t *testing.T) {
	tests := []struct {
		name string
		f    *Formula
		want Kind
	}{
		{"const", Const(true), KConst},
		{"prop", Prop("p0"), KProp},
		{"var", Var("x"), KVar},
		{"not", Not(Const(true)), KNot},
		{"and", And(Const(true), Const(false)), KAnd},
		{"ex", EX(Prop("p0")), KEX},
		{"eu", EU(Const(true), Prop("p0")), KEU},
		{"bind", Bind("x", Prop("p0")), KBind},
		{"exists", Exists("x", Prop("p0")), KExists},
		{"wildcard", WildCard("ctx"), KWildCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.f.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", tt.f.Kind, tt.want)
			}
		})
	}
}

func TestIsHybrid(t *testing.T) {
	for _, k := range []Kind{KBind, KJump, KExists, KForall} {
		if !k.IsHybrid() {
			t.Errorf("%v.IsHybrid() = false, want true", k)
		}
	}
	for _, k := range []Kind{KConst, KProp, KVar, KAnd, KEX, KEU} {
		if k.IsHybrid() {
			t.Errorf("%v.IsHybrid() = true, want false", k)
		}
	}
}

func TestChildren(t *testing.T) {
	leaf := Prop("p0")
	if got := leaf.Children(); got != nil {
		t.Errorf("leaf.Children() = %v, want nil", got)
	}

	unary := Not(leaf)
	if got := unary.Children(); len(got) != 1 || got[0] != leaf {
		t.Errorf("Not(leaf).Children() = %v, want [leaf]", got)
	}

	binary := And(leaf, leaf)
	if got := binary.Children(); len(got) != 2 {
		t.Errorf("And(leaf,leaf).Children() = %v, want 2 elements", got)
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 999
	if got := k.String(); got != "Kind(999)" {
		t.Errorf("Kind(999).String() = %q, want %q", got, "Kind(999)")
	}
}
