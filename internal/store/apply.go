package store

import "github.com/sourcecheck/sourcecheck/internal/terms"

// Apply is the canonical form operator (spec.md §4.3). It proceeds in
// two strictly separated passes so the rewrite is guaranteed to
// terminate:
//
//  1. expand follows every variable through the store, producing a raw
//     term with no remaining bound variables (an occurs-check guards
//     against a genuine cycle in the store itself).
//  2. normalizeOnce walks that raw term bottom-up exactly once, applying
//     the two post-order rewrites from spec.md §4.3 (List(e) ->
//     Pair(e, List(e)), and the pair-of-pair-of-list fold) at each node
//     a single time. The fold rule may append new equations to the
//     store; it resolves its own result through a second expand of just
//     the folded variable rather than re-entering normalizeOnce, which
//     is what keeps the whole operation terminating on an
//     already-canonical term such as Pair(number, List(number)).
func (s *Store) Apply(t terms.Term) (terms.Term, error) {
	expanded, err := s.expand(t, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return s.normalizeOnce(expanded)
}

// Resolve performs the plain variable-dereferencing half of Apply, with
// no shape normalisation. The unifier's rule 7 uses this (not the full
// Apply) to keep a newly appended entry in solved form up to traversal,
// without prematurely triggering the pair/list folding rewrites that
// belong to resolution, not unification.
func (s *Store) Resolve(t terms.Term) (terms.Term, error) {
	return s.expand(t, map[string]bool{})
}

func (s *Store) expand(t terms.Term, visiting map[string]bool) (terms.Term, error) {
	switch t := t.(type) {
	case *terms.Primitive:
		return t, nil

	case *terms.Variable:
		bound, ok := s.lookupFirst(t.Name)
		if !ok {
			return t, nil
		}
		if visiting[t.Name] {
			return nil, &CyclicError{Variable: t, In: bound}
		}
		visiting[t.Name] = true
		defer delete(visiting, t.Name)
		return s.expand(bound, visiting)

	case *terms.List:
		elem, err := s.expand(t.Element, visiting)
		if err != nil {
			return nil, err
		}
		return &terms.List{Element: elem}, nil

	case *terms.Array:
		elem, err := s.expand(t.Element, visiting)
		if err != nil {
			return nil, err
		}
		return &terms.Array{Element: elem}, nil

	case *terms.Pair:
		head, err := s.expand(t.Head, visiting)
		if err != nil {
			return nil, err
		}
		tail, err := s.expand(t.Tail, visiting)
		if err != nil {
			return nil, err
		}
		return &terms.Pair{Head: head, Tail: tail}, nil

	case *terms.Function:
		params := make([]terms.Term, len(t.Params))
		for i, p := range t.Params {
			applied, err := s.expand(p, visiting)
			if err != nil {
				return nil, err
			}
			params[i] = applied
		}
		ret, err := s.expand(t.Return, visiting)
		if err != nil {
			return nil, err
		}
		return &terms.Function{Params: params, Return: ret}, nil

	default:
		return t, nil
	}
}

// normalizeOnce performs a single bottom-up rewrite pass over an already
// variable-expanded term.
func (s *Store) normalizeOnce(t terms.Term) (terms.Term, error) {
	switch t := t.(type) {
	case *terms.Primitive, *terms.Variable:
		return t, nil

	case *terms.Array:
		elem, err := s.normalizeOnce(t.Element)
		if err != nil {
			return nil, err
		}
		return &terms.Array{Element: elem}, nil

	case *terms.Function:
		params := make([]terms.Term, len(t.Params))
		for i, p := range t.Params {
			normalized, err := s.normalizeOnce(p)
			if err != nil {
				return nil, err
			}
			params[i] = normalized
		}
		ret, err := s.normalizeOnce(t.Return)
		if err != nil {
			return nil, err
		}
		return &terms.Function{Params: params, Return: ret}, nil

	case *terms.List:
		elem, err := s.normalizeOnce(t.Element)
		if err != nil {
			return nil, err
		}
		// Rule: List(e) -> Pair(e, List(e)).
		return &terms.Pair{Head: elem, Tail: &terms.List{Element: elem}}, nil

	case *terms.Pair:
		head, err := s.normalizeOnce(t.Head)
		if err != nil {
			return nil, err
		}
		tail, err := s.normalizeOnce(t.Tail)
		if err != nil {
			return nil, err
		}
		// Rule: Pair(h1, Pair(h2, List(h3))) -> record h2=h3, h2=h1,
		// then return Pair(h2, List(h3)) (applied through the new
		// equations).
		if innerPair, ok := tail.(*terms.Pair); ok {
			if innerList, ok := innerPair.Tail.(*terms.List); ok {
				h1, h2, h3 := head, innerPair.Head, innerList.Element
				if err := s.AddConstraint(h2, h3); err != nil {
					return nil, err
				}
				if err := s.AddConstraint(h2, h1); err != nil {
					return nil, err
				}
				resolved, err := s.expand(h2, map[string]bool{})
				if err != nil {
					return nil, err
				}
				return &terms.Pair{Head: resolved, Tail: &terms.List{Element: resolved}}, nil
			}
		}
		return &terms.Pair{Head: head, Tail: tail}, nil

	default:
		return t, nil
	}
}
