package psbn

import "testing"

func TestNewNetworkVocabulary(t *testing.T) {
	net := NewNetwork([]string{"v0", "v1"}, []string{"p"})

	if net.NumVars() != 2 || net.NumParams() != 1 {
		t.Fatalf("NumVars/NumParams = %d/%d, want 2/1", net.NumVars(), net.NumParams())
	}
	if !net.HasProposition("v0") {
		t.Errorf("HasProposition(v0) = false, want true")
	}
	if net.HasProposition("v2") {
		t.Errorf("HasProposition(v2) = true, want false")
	}
}

func TestVarIndexParamIndex(t *testing.T) {
	net := NewNetwork([]string{"v0", "v1"}, []string{"p0"})

	idx, ok := net.VarIndex("v1")
	if !ok || idx != 1 {
		t.Errorf("VarIndex(v1) = (%d,%v), want (1,true)", idx, ok)
	}

	pidx, ok := net.ParamIndex("p0")
	if !ok || pidx != 0 {
		t.Errorf("ParamIndex(p0) = (%d,%v), want (0,true)", pidx, ok)
	}

	if _, ok := net.VarIndex("missing"); ok {
		t.Errorf("VarIndex(missing) found, want not found")
	}
}

func TestSetUpdateOutOfRange(t *testing.T) {
	net := NewNetwork([]string{"v0"}, nil)
	if err := net.SetUpdate(5, Const(true)); err == nil {
		t.Error("SetUpdate with an out-of-range index should error")
	}
}

func TestSetUpdateAndUnit(t *testing.T) {
	net := NewNetwork([]string{"v0", "v1"}, []string{"p"})
	if err := net.SetUpdate(1, And(Param(0), Var(0))); err != nil {
		t.Fatalf("SetUpdate error: %v", err)
	}
	net.SetUnit(Const(true))

	if net.Update(1) == nil {
		t.Error("Update(1) should not be nil after SetUpdate")
	}
	if net.Unit() == nil {
		t.Error("Unit() should not be nil after SetUnit")
	}
	if net.Update(0) != nil {
		t.Error("Update(0) should remain nil (unconstrained) when never set")
	}
}
