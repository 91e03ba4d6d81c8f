package store

import "github.com/sourcecheck/sourcecheck/internal/terms"

// AddConstraint attempts to extend the store with the equation lhs = rhs,
// applying the ten unification rules of spec.md §4.2 in order. On
// success the store is mutated in place (entries are append-only). On
// failure the store is left exactly as it was — a UnifyError,
// *ArityError, or *CyclicError is returned and nothing is committed,
// even if the failure happened deep inside a recursive call.
func (s *Store) AddConstraint(lhs, rhs terms.Term) error {
	snapEntries, snapIndex := s.snapshot()
	if err := s.addConstraint(lhs, rhs); err != nil {
		s.restore(snapEntries, snapIndex)
		return err
	}
	return nil
}

func (s *Store) addConstraint(lhs, rhs terms.Term) error {
	// Rule 1: two identical primitives.
	if lp, ok := lhs.(*terms.Primitive); ok {
		if rp, ok := rhs.(*terms.Primitive); ok {
			if lp.Name == rp.Name {
				return nil
			}
			return &UnifyError{Left: lhs, Right: rhs}
		}
	}

	// Rule 2: two Arrays.
	if la, ok := lhs.(*terms.Array); ok {
		if ra, ok := rhs.(*terms.Array); ok {
			return s.addConstraint(la.Element, ra.Element)
		}
	}

	// Rule 3: two Lists.
	if ll, ok := lhs.(*terms.List); ok {
		if rl, ok := rhs.(*terms.List); ok {
			return s.addConstraint(ll.Element, rl.Element)
		}
	}

	// Rule 4: Pair vs List — rewrite as List = Pair and fall into rule 5.
	if _, ok := lhs.(*terms.Pair); ok {
		if rl, ok := rhs.(*terms.List); ok {
			return s.listVsPair(rl, lhs.(*terms.Pair))
		}
	}
	// Rule 5 (symmetric entry point): List vs Pair directly.
	if ll, ok := lhs.(*terms.List); ok {
		if rp, ok := rhs.(*terms.Pair); ok {
			return s.listVsPair(ll, rp)
		}
	}

	// Rule 6: two Pairs.
	if lp, ok := lhs.(*terms.Pair); ok {
		if rp, ok := rhs.(*terms.Pair); ok {
			if err := s.addConstraint(lp.Head, rp.Head); err != nil {
				return err
			}
			return s.addConstraint(lp.Tail, rp.Tail)
		}
	}

	// Rule 7: Variable on the left.
	if lv, ok := lhs.(*terms.Variable); ok {
		return s.variableOnLeft(lv, rhs)
	}

	// Rule 8: Variable on the right only — swap and retry.
	if rv, ok := rhs.(*terms.Variable); ok {
		return s.variableOnLeft(rv, lhs)
	}

	// Rule 9: two Functions.
	if lf, ok := lhs.(*terms.Function); ok {
		if rf, ok := rhs.(*terms.Function); ok {
			if len(lf.Params) != len(rf.Params) {
				return &ArityError{Expected: len(lf.Params), Received: len(rf.Params)}
			}
			for i := range lf.Params {
				if err := s.addConstraint(lf.Params[i], rf.Params[i]); err != nil {
					return err
				}
			}
			return s.addConstraint(lf.Return, rf.Return)
		}
	}

	// Rule 10: anything else.
	return &UnifyError{Left: lhs, Right: rhs}
}

// listVsPair implements rule 5: List L with element e vs Pair P adds the
// equation P = Pair(e, L).
func (s *Store) listVsPair(l *terms.List, p *terms.Pair) error {
	return s.addConstraint(p, &terms.Pair{Head: l.Element, Tail: l})
}

// variableOnLeft implements rule 7 in full, including the cyclic-list
// rescue and the kind/shortcut/tightening sub-cases.
func (s *Store) variableOnLeft(v *terms.Variable, rhs terms.Term) error {
	// rhs is the same variable: no-op.
	if rv, ok := rhs.(*terms.Variable); ok && rv.Name == v.Name {
		return nil
	}

	if terms.Contains(rhs, v) {
		if head, ok := cyclicListShape(rhs, v); ok {
			// Legal cyclic-list rescue: v = List(head).
			return s.addConstraint(v, &terms.List{Element: head})
		}
		return &CyclicError{Variable: v, In: rhs}
	}

	if v.Kind == terms.KindAddable {
		if p, ok := rhs.(*terms.Primitive); ok {
			if p.Name != terms.Number && p.Name != terms.String {
				return &UnifyError{Left: v, Right: rhs}
			}
		}
	}

	if existing, ok := s.lookupFirst(v.Name); ok {
		// Shortcut through the existing solution.
		return s.addConstraint(rhs, existing)
	}

	// If rhs is itself a variable with a weaker kind, tighten it —
	// widening transfer never loosens.
	if rv, ok := rhs.(*terms.Variable); ok {
		if v.Kind == terms.KindAddable && rv.Kind == terms.KindNone {
			rhs = &terms.Variable{Name: rv.Name, Kind: terms.KindAddable}
		}
	}

	// Substitute the current store through rhs before appending, so the
	// store stays in solved form up to traversal.
	resolved, err := s.Resolve(rhs)
	if err != nil {
		return err
	}
	s.add(v, resolved)
	return nil
}

// cyclicListShape recognises the two legal cyclic-list patterns:
// Pair(h, v) and Pair(h, Pair(_, v)). It returns the head term to use
// for the rescued List(head) and whether the shape matched.
func cyclicListShape(rhs terms.Term, v *terms.Variable) (terms.Term, bool) {
	p, ok := rhs.(*terms.Pair)
	if !ok {
		return nil, false
	}
	if tailVar, ok := p.Tail.(*terms.Variable); ok && tailVar.Name == v.Name {
		return p.Head, true
	}
	if innerPair, ok := p.Tail.(*terms.Pair); ok {
		if tailVar, ok := innerPair.Tail.(*terms.Variable); ok && tailVar.Name == v.Name {
			return p.Head, true
		}
	}
	return nil, false
}
