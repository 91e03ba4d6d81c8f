// Package terms defines the algebraic type-term representation the
// checker reasons over: primitives, kinded variables, functions, pairs,
// lists, arrays, and universally quantified schemas. It is pure data —
// no unification or substitution logic lives here (that is
// internal/store's job).
package terms

import (
	"fmt"
	"sort"
	"strings"
)

// Kind constrains what a Variable is allowed to unify with.
type Kind int

const (
	// KindNone admits any term.
	KindNone Kind = iota
	// KindAddable admits only number, string, or another variable
	// (which is then tightened to KindAddable).
	KindAddable
)

func (k Kind) String() string {
	if k == KindAddable {
		return "addable"
	}
	return "none"
}

// PrimitiveName enumerates the four primitive type names.
type PrimitiveName string

const (
	Boolean   PrimitiveName = "boolean"
	Number    PrimitiveName = "number"
	String    PrimitiveName = "string"
	Undefined PrimitiveName = "undefined"
)

// Term is the tagged union of type-term shapes. All variants are
// pointers; variables are told apart by Name, and every other shape is
// compared structurally by walking it.
type Term interface {
	String() string
	isTerm()
}

// Primitive is one of boolean/number/string/undefined.
type Primitive struct {
	Name PrimitiveName
}

func (p *Primitive) isTerm()        {}
func (p *Primitive) String() string { return string(p.Name) }

// Variable is a type variable with a unique name and a kind constraint.
type Variable struct {
	Name string
	Kind Kind
}

func (v *Variable) isTerm()        {}
func (v *Variable) String() string { return v.Name }

// Function is an ordered parameter list plus a return term.
type Function struct {
	Params []Term
	Return Term
}

func (f *Function) isTerm() {}
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), f.Return.String())
}

// Pair is a cons cell: a head term and a tail term.
type Pair struct {
	Head Term
	Tail Term
}

func (p *Pair) isTerm()        {}
func (p *Pair) String() string { return fmt.Sprintf("Pair(%s, %s)", p.Head.String(), p.Tail.String()) }

// List is the recursive list-of-element shape.
type List struct {
	Element Term
}

func (l *List) isTerm()        {}
func (l *List) String() string { return fmt.Sprintf("List(%s)", l.Element.String()) }

// Array is a fixed-element-type mutable array.
type Array struct {
	Element Term
}

func (a *Array) isTerm()        {}
func (a *Array) String() string { return fmt.Sprintf("Array(%s)", a.Element.String()) }

// Scheme (ForAll) universally quantifies a term over a set of variable
// names. Schemes never nest, and primitives are never wrapped in one.
type Scheme struct {
	Vars []string
	Term Term
}

func (s *Scheme) isTerm() {}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Term.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(s.Vars, " "), s.Term.String())
}

// Predefined primitive terms. These are shared singletons; they are
// never mutated.
var (
	TBoolean   = &Primitive{Name: Boolean}
	TNumber    = &Primitive{Name: Number}
	TString    = &Primitive{Name: String}
	TUndefined = &Primitive{Name: Undefined}
)

// Counter mints globally unique variable names. One Counter is owned per
// top-level typeCheck invocation (see internal/infer.Context) and reset
// at the start of every call so variable names are deterministic across
// runs, per the concurrency contract in spec.md §5.
type Counter struct {
	next int
}

// NewCounter returns a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Fresh mints a fresh Variable with the given kind.
func (c *Counter) Fresh(kind Kind) *Variable {
	c.next++
	return &Variable{Name: fmt.Sprintf("T%d", c.next), Kind: kind}
}

// FreshNone is shorthand for Fresh(KindNone), the common case.
func (c *Counter) FreshNone() *Variable {
	return c.Fresh(KindNone)
}

// Instantiate replaces every free variable of a schema with a freshly
// minted variable of the same kind, returning the resulting monotype.
// It is the only sanctioned way to consume a Scheme — bare schemes must
// never flow into the unifier.
func Instantiate(c *Counter, s *Scheme) Term {
	if len(s.Vars) == 0 {
		return s.Term
	}
	subst := make(map[string]Term, len(s.Vars))
	for _, name := range s.Vars {
		subst[name] = c.FreshNone()
	}
	// Preserve each bound variable's original kind in its fresh copy.
	kindOf := make(map[string]Kind, len(s.Vars))
	collectKinds(s.Term, kindOf)
	for _, name := range s.Vars {
		if k, ok := kindOf[name]; ok && k == KindAddable {
			subst[name] = &Variable{Name: subst[name].(*Variable).Name, Kind: KindAddable}
		}
	}
	return substituteFree(s.Term, subst)
}

func collectKinds(t Term, out map[string]Kind) {
	switch t := t.(type) {
	case *Variable:
		if existing, ok := out[t.Name]; !ok || t.Kind == KindAddable {
			if !ok || existing != KindAddable {
				out[t.Name] = t.Kind
			}
		}
	case *Function:
		for _, p := range t.Params {
			collectKinds(p, out)
		}
		collectKinds(t.Return, out)
	case *Pair:
		collectKinds(t.Head, out)
		collectKinds(t.Tail, out)
	case *List:
		collectKinds(t.Element, out)
	case *Array:
		collectKinds(t.Element, out)
	}
}

// substituteFree performs a plain structural substitution of free
// variables by name. It is distinct from the store-aware internal/store
// Apply: instantiation never consults a constraint store, since a
// freshly-instantiated monotype by definition contains no bound terms.
func substituteFree(t Term, subst map[string]Term) Term {
	switch t := t.(type) {
	case *Primitive:
		return t
	case *Variable:
		if repl, ok := subst[t.Name]; ok {
			return repl
		}
		return t
	case *Function:
		params := make([]Term, len(t.Params))
		for i, p := range t.Params {
			params[i] = substituteFree(p, subst)
		}
		return &Function{Params: params, Return: substituteFree(t.Return, subst)}
	case *Pair:
		return &Pair{Head: substituteFree(t.Head, subst), Tail: substituteFree(t.Tail, subst)}
	case *List:
		return &List{Element: substituteFree(t.Element, subst)}
	case *Array:
		return &Array{Element: substituteFree(t.Element, subst)}
	default:
		return t
	}
}

// FreeVariables returns the set of variable names occurring anywhere
// inside term, as a set-union walk over its structure.
func FreeVariables(t Term) map[string]bool {
	free := make(map[string]bool)
	collectFreeVariables(t, free)
	return free
}

func collectFreeVariables(t Term, out map[string]bool) {
	switch t := t.(type) {
	case *Variable:
		out[t.Name] = true
	case *Function:
		for _, p := range t.Params {
			collectFreeVariables(p, out)
		}
		collectFreeVariables(t.Return, out)
	case *Pair:
		collectFreeVariables(t.Head, out)
		collectFreeVariables(t.Tail, out)
	case *List:
		collectFreeVariables(t.Element, out)
	case *Array:
		collectFreeVariables(t.Element, out)
	}
}

// Generalize wraps term in a Scheme quantified over every free variable
// that is not also free in env (the usual let-polymorphism side
// condition), returning a monotype (no Scheme) unchanged if there is
// nothing to quantify. Primitives are returned as-is, never wrapped.
func Generalize(term Term, envFree map[string]bool) Term {
	if _, ok := term.(*Primitive); ok {
		return term
	}
	free := FreeVariables(term)
	var vars []string
	for name := range free {
		if !envFree[name] {
			vars = append(vars, name)
		}
	}
	sort.Strings(vars)
	if len(vars) == 0 {
		return term
	}
	return &Scheme{Vars: vars, Term: term}
}

// Contains reports whether variable v occurs anywhere inside t — the
// raw occurs-check predicate consulted (and overridden by the cyclic-list
// rescue) in internal/store.
func Contains(t Term, v *Variable) bool {
	switch t := t.(type) {
	case *Variable:
		return t.Name == v.Name
	case *Function:
		for _, p := range t.Params {
			if Contains(p, v) {
				return true
			}
		}
		return Contains(t.Return, v)
	case *Pair:
		return Contains(t.Head, v) || Contains(t.Tail, v)
	case *List:
		return Contains(t.Element, v)
	case *Array:
		return Contains(t.Element, v)
	default:
		return false
	}
}
