// Package store implements the constraint store and its unification and
// substitution operations — the hard core of the type checker (spec.md
// §4.2, §4.3). The store is an append-only ordered vector rather than a
// map: the list-folding rewrite in Apply exploits traversal order, and
// an unordered map would break the cyclic-list rescue (spec.md §9).
package store

import "github.com/sourcecheck/sourcecheck/internal/terms"

// entry is one solved-form equation: Left resolves to Right.
type entry struct {
	Left  *terms.Variable
	Right terms.Term
}

// Store is the ordered sequence of (Variable, Term) equations. A
// variable never appears on the left of two distinct entries —
// first-wins is enforced by add. The zero value is not usable; use New.
type Store struct {
	entries []entry
	index   map[string]int // variable name -> index of its first (only) entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// lookupFirst returns the entry binding name, and whether one exists.
// Only the first entry for a name is ever consulted or created, per the
// first-wins invariant.
func (s *Store) lookupFirst(name string) (terms.Term, bool) {
	if i, ok := s.index[name]; ok {
		return s.entries[i].Right, true
	}
	return nil, false
}

// add appends a new (v, t) equation. If v already has an entry, add
// does nothing and the first entry wins; rule 7's shortcut through
// lookupFirst keeps a second equation for a bound variable from reaching
// here.
func (s *Store) add(v *terms.Variable, t terms.Term) {
	if _, exists := s.index[v.Name]; exists {
		return
	}
	s.index[v.Name] = len(s.entries)
	s.entries = append(s.entries, entry{Left: v, Right: t})
}

// snapshot returns a shallow copy of the entry slice and index, used so
// a failed AddConstraint can be rolled back to without mutating the
// caller's store (spec.md §4.2: "a failed addConstraint leaves the store
// unchanged").
func (s *Store) snapshot() (entries []entry, index map[string]int) {
	entries = make([]entry, len(s.entries))
	copy(entries, s.entries)
	index = make(map[string]int, len(s.index))
	for k, v := range s.index {
		index[k] = v
	}
	return entries, index
}

func (s *Store) restore(entries []entry, index map[string]int) {
	s.entries = entries
	s.index = index
}

// Len reports how many equations the store currently holds (used by
// tests asserting append-only growth).
func (s *Store) Len() int { return len(s.entries) }
