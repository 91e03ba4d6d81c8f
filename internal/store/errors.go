package store

import (
	"fmt"

	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// UnifyError signals that two terms are structurally incompatible.
type UnifyError struct {
	Left, Right terms.Term
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Left.String(), e.Right.String())
}

// ArityError signals a Function/Function unification with mismatched
// parameter counts.
type ArityError struct {
	Expected, Received int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity mismatch: expected %d argument(s), got %d", e.Expected, e.Received)
}

// CyclicError signals that a variable would have to resolve to a term
// containing itself, and the shape did not match the legal cyclic-list
// rescue pattern.
type CyclicError struct {
	Variable *terms.Variable
	In       terms.Term
}

func (e *CyclicError) Error() string {
	return fmt.Sprintf("cyclic type: %s occurs in %s", e.Variable.Name, e.In.String())
}
