package terms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFreshNamesAreUnique(t *testing.T) {
	c := NewCounter()
	a := c.FreshNone()
	b := c.FreshNone()
	if a.Name == b.Name {
		t.Fatalf("expected distinct fresh names, got %s twice", a.Name)
	}
}

func TestInstantiatePreservesKind(t *testing.T) {
	c := NewCounter()
	s := &Scheme{
		Vars: []string{"A"},
		Term: &Function{
			Params: []Term{&Variable{Name: "A", Kind: KindAddable}, &Variable{Name: "A", Kind: KindAddable}},
			Return: &Variable{Name: "A", Kind: KindAddable},
		},
	}
	inst := Instantiate(c, s)
	fn, ok := inst.(*Function)
	if !ok {
		t.Fatalf("expected *Function, got %T", inst)
	}
	v, ok := fn.Params[0].(*Variable)
	if !ok {
		t.Fatalf("expected *Variable param, got %T", fn.Params[0])
	}
	if v.Kind != KindAddable {
		t.Errorf("expected instantiated variable to keep KindAddable, got %v", v.Kind)
	}
	if v.Name == "A" {
		t.Errorf("expected instantiation to mint a fresh name, still bound name %q", v.Name)
	}
}

func TestInstantiateMonotypeIsNoop(t *testing.T) {
	c := NewCounter()
	s := &Scheme{Term: TNumber}
	if got := Instantiate(c, s); got != TNumber {
		t.Errorf("expected instantiating an unquantified scheme to return the same term, got %v", got)
	}
}

func TestGeneralizeQuantifiesOnlyNonEnvFree(t *testing.T) {
	a := &Variable{Name: "A"}
	bnd := &Variable{Name: "B"}
	fn := &Function{Params: []Term{a}, Return: bnd}

	envFree := map[string]bool{"B": true}
	generalized := Generalize(fn, envFree)

	scheme, ok := generalized.(*Scheme)
	if !ok {
		t.Fatalf("expected *Scheme, got %T", generalized)
	}
	if len(scheme.Vars) != 1 || scheme.Vars[0] != "A" {
		t.Errorf("expected to quantify only A, got %v", scheme.Vars)
	}
}

func TestGeneralizeWithNoFreeVariablesIsMonotype(t *testing.T) {
	fn := &Function{Params: []Term{TNumber}, Return: TNumber}
	if got := Generalize(fn, map[string]bool{}); got != fn {
		t.Errorf("expected a fully-closed term to come back unchanged, got %v", got)
	}
}

func TestGeneralizeNeverWrapsPrimitive(t *testing.T) {
	if got := Generalize(TNumber, map[string]bool{}); got != TNumber {
		t.Errorf("expected a primitive to never be wrapped in a Scheme, got %T", got)
	}
}

func TestContainsOccursCheck(t *testing.T) {
	a := &Variable{Name: "A"}
	self := &List{Element: a}
	if !Contains(self, a) {
		t.Errorf("expected List(A) to contain A")
	}
	if Contains(TNumber, a) {
		t.Errorf("expected number to not contain A")
	}
}

func TestFreeVariablesOfNestedTerm(t *testing.T) {
	a := &Variable{Name: "A"}
	b := &Variable{Name: "B"}
	term := &Pair{Head: a, Tail: &List{Element: b}}
	free := FreeVariables(term)
	want := map[string]bool{"A": true, "B": true}
	if diff := cmp.Diff(want, free); diff != "" {
		t.Errorf("free variable set mismatch (-want +got):\n%s", diff)
	}
}

func TestTermStringRendering(t *testing.T) {
	cases := []struct {
		term Term
		want string
	}{
		{TNumber, "number"},
		{&Pair{Head: TNumber, Tail: TString}, "Pair(number, string)"},
		{&List{Element: TBoolean}, "List(boolean)"},
		{&Array{Element: TNumber}, "Array(number)"},
		{&Function{Params: []Term{TNumber, TNumber}, Return: TBoolean}, "(number, number) -> boolean"},
	}
	for _, c := range cases {
		if got := c.term.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
