// Package infer implements the inferencer (spec.md §4.4): the
// three-pass tree walk that decorates, constrains, and finally resolves
// an AST's type annotations. It is the top layer of the core; it is the
// only package that imports both internal/terms and internal/store and
// ties them to the AST.
package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
	"github.com/sourcecheck/sourcecheck/internal/store"
	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// Context is the per-invocation state threaded explicitly through every
// pass: the fresh-variable counter, the constraint store, the
// accumulated diagnostics, and the bookkeeping for cancelled function
// subtrees. It is never held in package-level globals (spec.md §5) —
// a new Context is created, used, and discarded by every call to Check.
type Context struct {
	Counter   *terms.Counter
	Store     *store.Store
	Diags     diag.List
	declVar       map[ast.Node]*terms.Variable // VariableDeclaration -> its pre-bound raw variable
	cancelled     map[*ast.FunctionDeclaration]bool
	allowMutation bool
}

// NewContext returns a fresh Context: a zeroed counter, an empty store,
// no diagnostics.
func NewContext(allowMutation bool) *Context {
	return &Context{
		Counter:       terms.NewCounter(),
		Store:         store.New(),
		declVar:       make(map[ast.Node]*terms.Variable),
		cancelled:     make(map[*ast.FunctionDeclaration]bool),
		allowMutation: allowMutation,
	}
}

// unify attempts to add lhs = rhs to the store. It never itself appends
// a diagnostic — every call site in Pass B decides which diagnostic
// kind best describes *this* constraint's failure, per spec.md §7.
func (ctx *Context) unify(lhs, rhs terms.Term) error {
	return ctx.Store.AddConstraint(lhs, rhs)
}

func (ctx *Context) addDiag(d *diag.Diagnostic) {
	ctx.Diags = append(ctx.Diags, d)
}

// nodeVar retrieves the fresh Variable Pass A decorated node with.
func nodeVar(node ast.Node) *terms.Variable {
	return node.Info().InferredType.(*terms.Variable)
}

// applied renders t through the current store for use inside a
// diagnostic message, falling back to the raw (unapplied) term's
// String() if resolution itself fails — diagnostics must never panic or
// propagate an internal error of their own.
func (ctx *Context) applied(t terms.Term) string {
	resolved, err := ctx.Store.Apply(t)
	if err != nil {
		return t.String()
	}
	return resolved.String()
}

func (ctx *Context) appliedAll(ts []terms.Term) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = ctx.applied(t)
	}
	return out
}
