package store

import (
	"testing"

	"github.com/sourcecheck/sourcecheck/internal/terms"
)

func TestUnifyIdenticalPrimitives(t *testing.T) {
	s := New()
	if err := s.AddConstraint(terms.TNumber, terms.TNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnifyMismatchedPrimitives(t *testing.T) {
	s := New()
	err := s.AddConstraint(terms.TNumber, terms.TString)
	if err == nil {
		t.Fatal("expected a UnifyError")
	}
	if _, ok := err.(*UnifyError); !ok {
		t.Fatalf("expected *UnifyError, got %T", err)
	}
}

func TestFailedConstraintLeavesStoreUnchanged(t *testing.T) {
	s := New()
	v := &terms.Variable{Name: "T1"}
	if err := s.AddConstraint(v, terms.TNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Len()

	// v is already bound to number; unifying it against string should
	// fail deep inside variableOnLeft's shortcut and roll back cleanly.
	if err := s.AddConstraint(v, terms.TString); err == nil {
		t.Fatal("expected an error")
	}
	if s.Len() != before {
		t.Errorf("expected store to be left unchanged on failure, had %d entries, now %d", before, s.Len())
	}
}

func TestUnifyFunctionArityMismatch(t *testing.T) {
	s := New()
	lhs := &terms.Function{Params: []terms.Term{terms.TNumber}, Return: terms.TNumber}
	rhs := &terms.Function{Params: []terms.Term{terms.TNumber, terms.TNumber}, Return: terms.TNumber}
	err := s.AddConstraint(lhs, rhs)
	ae, ok := err.(*ArityError)
	if !ok {
		t.Fatalf("expected *ArityError, got %T (%v)", err, err)
	}
	if ae.Expected != 1 || ae.Received != 2 {
		t.Errorf("expected {1, 2}, got {%d, %d}", ae.Expected, ae.Received)
	}
}

func TestUnifyPairVsList(t *testing.T) {
	s := New()
	pair := &terms.Pair{Head: terms.TNumber, Tail: &terms.List{Element: terms.TNumber}}
	list := &terms.List{Element: terms.TNumber}
	if err := s.AddConstraint(pair, list); err != nil {
		t.Fatalf("unexpected error unifying Pair(number, List(number)) with List(number): %v", err)
	}
}

func TestOccursCheckWithoutRescueIsCyclic(t *testing.T) {
	s := New()
	v := &terms.Variable{Name: "T1"}
	// T1 = (T1) -> number has no cyclic-list shape to rescue it.
	rhs := &terms.Function{Params: []terms.Term{v}, Return: terms.TNumber}
	err := s.AddConstraint(v, rhs)
	if _, ok := err.(*CyclicError); !ok {
		t.Fatalf("expected *CyclicError, got %T (%v)", err, err)
	}
}

func TestCyclicListRescue(t *testing.T) {
	s := New()
	v := &terms.Variable{Name: "T1"}
	// T1 = Pair(number, T1) is exactly the Pair(h, v) rescue shape and
	// should resolve to List(number) instead of erroring.
	rhs := &terms.Pair{Head: terms.TNumber, Tail: v}
	if err := s.AddConstraint(v, rhs); err != nil {
		t.Fatalf("expected the cyclic-list rescue to apply, got error: %v", err)
	}
	resolved, err := s.Apply(v)
	if err != nil {
		t.Fatalf("unexpected error applying rescued variable: %v", err)
	}
	if resolved.String() != "Pair(number, List(number))" {
		t.Errorf("expected the rescued List(number) to render in its canonical Pair(number, List(number)) form, got %s", resolved.String())
	}
}

func TestCyclicListRescueDoubleIndirection(t *testing.T) {
	s := New()
	v := &terms.Variable{Name: "T1"}
	inner := &terms.Pair{Head: terms.TString, Tail: v}
	outer := &terms.Pair{Head: terms.TNumber, Tail: inner}
	// Pair(h, Pair(_, v)) is also a rescue shape; the inner head is
	// intentionally ignored by the rescue itself (it only binds v to
	// List(outer head)).
	if err := s.AddConstraint(v, outer); err != nil {
		t.Fatalf("expected the double-indirection rescue to apply, got error: %v", err)
	}
	resolved, err := s.Apply(v)
	if err != nil {
		t.Fatalf("unexpected error applying rescued variable: %v", err)
	}
	if resolved.String() != "Pair(number, List(number))" {
		t.Errorf("expected the rescued List(number) to render in its canonical Pair(number, List(number)) form, got %s", resolved.String())
	}
}

func TestAddableKindRejectsBoolean(t *testing.T) {
	s := New()
	v := &terms.Variable{Name: "T1", Kind: terms.KindAddable}
	err := s.AddConstraint(v, terms.TBoolean)
	if _, ok := err.(*UnifyError); !ok {
		t.Fatalf("expected *UnifyError for addable vs boolean, got %T (%v)", err, err)
	}
}

func TestAddableKindAcceptsNumberAndString(t *testing.T) {
	s1 := New()
	v1 := &terms.Variable{Name: "T1", Kind: terms.KindAddable}
	if err := s1.AddConstraint(v1, terms.TNumber); err != nil {
		t.Errorf("expected addable to accept number: %v", err)
	}

	s2 := New()
	v2 := &terms.Variable{Name: "T2", Kind: terms.KindAddable}
	if err := s2.AddConstraint(v2, terms.TString); err != nil {
		t.Errorf("expected addable to accept string: %v", err)
	}
}

func TestApplyResolvesChainedVariables(t *testing.T) {
	s := New()
	a := &terms.Variable{Name: "A"}
	b := &terms.Variable{Name: "B"}
	if err := s.AddConstraint(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddConstraint(b, terms.TNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, err := s.Apply(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.String() != "number" {
		t.Errorf("expected a to resolve through b to number, got %s", resolved.String())
	}
}

func TestApplyNormalizesListToPairOfList(t *testing.T) {
	s := New()
	list := &terms.List{Element: terms.TNumber}
	resolved, err := s.Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.String() != "Pair(number, List(number))" {
		t.Errorf("expected List(number) to normalize to Pair(number, List(number)), got %s", resolved.String())
	}
}

func TestApplyTerminatesOnAlreadyCanonicalPair(t *testing.T) {
	s := New()
	// pair(1, pair(2, null)) unifies to Pair(number, List(number)) once
	// folded; re-applying Apply to that already-canonical shape must
	// terminate rather than loop forever re-expanding the fold.
	canonical := &terms.Pair{Head: terms.TNumber, Tail: &terms.List{Element: terms.TNumber}}
	resolved, err := s.Apply(canonical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.String() != canonical.String() {
		t.Errorf("expected an already-canonical term to be idempotent under Apply, got %s", resolved.String())
	}
}

func TestApplyFoldsPairOfPairOfList(t *testing.T) {
	s := New()
	h2 := &terms.Variable{Name: "H2"}
	inner := &terms.Pair{Head: h2, Tail: &terms.List{Element: terms.TNumber}}
	outer := &terms.Pair{Head: terms.TNumber, Tail: inner}

	resolved, err := s.Apply(outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.String() != "Pair(number, List(number))" {
		t.Errorf("expected Pair(h1, Pair(h2, List(h3))) with h1=h3=number to fold to Pair(number, List(number)), got %s", resolved.String())
	}
}
