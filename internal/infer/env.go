package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// binding pairs a name's type (a monotype or a Scheme) with the
// declaration kind used to reject reassignment of consts.
type binding struct {
	typeOrScheme terms.Term    // set by BindMonotype; nil when scheme is set
	scheme       *terms.Scheme // set by BindScheme
	kind         ast.DeclarationKind
}

// Env is the lexically scoped type environment (spec.md §3): a pair of
// mappings keyed by identifier name, one to a type-or-schema, one to a
// declaration kind. Environments are immutable by contract — Child
// creates a shallow clone so the parent is never mutated by a nested
// scope.
type Env struct {
	bindings map[string]binding
	parent   *Env
}

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]binding)}
}

// Child returns a new environment that shares the parent's bindings by
// reference but can add its own without mutating the parent — "entering
// a new lexical scope creates a shallow clone."
func (e *Env) Child() *Env {
	return &Env{bindings: make(map[string]binding), parent: e}
}

// BindMonotype binds name to a bare (non-generalised) term, used for the
// pre-binding step that lets recursive references resolve before
// generalisation runs.
func (e *Env) BindMonotype(name string, t terms.Term, kind ast.DeclarationKind) {
	e.bindings[name] = binding{typeOrScheme: t, kind: kind}
}

// BindScheme binds name to a quantified scheme, used once generalisation
// has run at the end of the declaring block.
func (e *Env) BindScheme(name string, s *terms.Scheme, kind ast.DeclarationKind) {
	e.bindings[name] = binding{scheme: s, kind: kind}
}

// lookup searches this environment and its ancestors.
func (e *Env) lookup(name string) (binding, bool) {
	if b, ok := e.bindings[name]; ok {
		return b, true
	}
	if e.parent != nil {
		return e.parent.lookup(name)
	}
	return binding{}, false
}

// Lookup returns the term this identifier resolves to — instantiating a
// fresh copy if the binding is a scheme — along with its declaration
// kind. ok is false if the name is unbound.
func (e *Env) Lookup(c *terms.Counter, name string) (terms.Term, ast.DeclarationKind, bool) {
	b, ok := e.lookup(name)
	if !ok {
		return nil, 0, false
	}
	if b.scheme != nil {
		return terms.Instantiate(c, b.scheme), b.kind, true
	}
	return b.typeOrScheme, b.kind, true
}

// FreeVariables returns the set of variable names free anywhere in the
// environment (schemes' quantified variables excluded), used by
// Generalize's side condition.
func (e *Env) FreeVariables() map[string]bool {
	free := make(map[string]bool)
	e.collectFree(free)
	return free
}

func (e *Env) collectFree(out map[string]bool) {
	for _, b := range e.bindings {
		if b.scheme != nil {
			bound := make(map[string]bool, len(b.scheme.Vars))
			for _, v := range b.scheme.Vars {
				bound[v] = true
			}
			for v := range terms.FreeVariables(b.scheme.Term) {
				if !bound[v] {
					out[v] = true
				}
			}
		} else if b.typeOrScheme != nil {
			for v := range terms.FreeVariables(b.typeOrScheme) {
				out[v] = true
			}
		}
	}
	if e.parent != nil {
		e.parent.collectFree(out)
	}
}
