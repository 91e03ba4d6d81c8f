package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
	"github.com/sourcecheck/sourcecheck/internal/store"
	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// resolve is Pass C (spec.md §4.4): re-walk the whole tree a final time,
// replacing every node's fresh variable with the canonical term the
// store settled on. A function declaration whose body was cancelled
// during Pass B (an unrescuable cyclic type) is not re-descended into —
// its subtree keeps its NotYetTyped nodes untouched, and the declaration
// itself is marked Typed with its pre-substitution variable. A declaration
// whose functionInferredType fails to resolve here is reported once and
// its body is likewise left unresolved.
func (ctx *Context) resolve(node ast.Node) {
	if node == nil {
		return
	}

	if fd, ok := node.(*ast.FunctionDeclaration); ok && ctx.cancelled[fd] {
		info := fd.Info()
		info.InferredType = fd.FunctionInferredType
		info.Typability = ast.Typed
		return
	}

	ctx.resolveNode(node)

	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Body {
			ctx.resolve(s)
		}
	case *ast.UnaryExpression:
		ctx.resolve(n.Argument)
	case *ast.BinaryExpression:
		ctx.resolve(n.Left)
		ctx.resolve(n.Right)
	case *ast.LogicalExpression:
		ctx.resolve(n.Left)
		ctx.resolve(n.Right)
	case *ast.CallExpression:
		ctx.resolve(n.Callee)
		for _, a := range n.Arguments {
			ctx.resolve(a)
		}
	case *ast.ConditionalExpression:
		ctx.resolve(n.Test)
		ctx.resolve(n.Consequent)
		ctx.resolve(n.Alternate)
	case *ast.ArrowFunctionExpression:
		ctx.resolve(n.Body)
	case *ast.AssignmentExpression:
		ctx.resolve(n.Target)
		ctx.resolve(n.Value)
	case *ast.MemberExpression:
		ctx.resolve(n.Object)
		ctx.resolve(n.Property)
	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			ctx.resolve(e)
		}
	case *ast.VariableDeclaration:
		ctx.resolve(n.Kind.Init)
	case *ast.FunctionDeclaration:
		if ctx.resolveFunctionInferredType(n) {
			ctx.resolve(n.Body)
		}
	case *ast.ReturnStatement:
		if n.Argument != nil {
			ctx.resolve(n.Argument)
		}
	case *ast.ExpressionStatement:
		ctx.resolve(n.Expression)
	case *ast.BlockStatement:
		for _, s := range n.Body {
			ctx.resolve(s)
		}
	case *ast.IfStatement:
		ctx.resolve(n.Test)
		ctx.resolve(n.Consequent)
		if n.Alternate != nil {
			ctx.resolve(n.Alternate)
		}
	case *ast.WhileStatement:
		ctx.resolve(n.Test)
		ctx.resolve(n.Body)
	case *ast.ForStatement:
		if n.Init != nil && n.Init.Init != nil {
			ctx.resolve(n.Init.Init)
		}
		if n.Test != nil {
			ctx.resolve(n.Test)
		}
		if n.Update != nil {
			ctx.resolve(n.Update)
		}
		ctx.resolve(n.Body)
	}
}

// resolveNode applies the store to a single node's own variable and
// writes the result back onto it. A CyclicError (a genuinely
// unrescuable self-referential type surfacing only at resolution time,
// not caught by Pass B's own unify calls) is reported once and the node
// keeps its pre-substitution variable rather than blocking the rest of
// the walk.
func (ctx *Context) resolveNode(node ast.Node) {
	info := node.Info()
	raw := nodeVar(node)
	resolved, err := ctx.Store.Apply(raw)
	if err != nil {
		ctx.addDiag(applyErrorDiag(node, err))
		info.InferredType = raw
		info.Typability = ast.Typed
		return
	}
	info.InferredType = resolved
	info.Typability = ast.Typed
}

// applyErrorDiag maps an error surfaced by Store.Apply to the diagnostic
// kind that best describes it. A CyclicError is a genuinely unrescuable
// self-referential type. A UnifyError raised here can only come from the
// pair-of-pair-of-list fold's own equations (spec.md §4.3) discovering a
// heterogeneous list after Pass B's call-site unifications already
// succeeded — the same ArrayAssignment kind array literals use for
// element-type mismatches, since the shape of the failure (an element
// type that does not match the rest of the list) is identical. An
// ArityError from that same fold (e.g. a list of functions whose arities
// disagree) gets the same DifferentNumberArguments kind every other
// arity mismatch in the checker uses. Anything else falls back to the
// InternalTypeError escape hatch.
func applyErrorDiag(node ast.Node, err error) *diag.Diagnostic {
	switch e := err.(type) {
	case *store.CyclicError:
		return diag.NewCyclicReference(node)
	case *store.UnifyError:
		return diag.NewArrayAssignment(node, e.Left.String(), e.Right.String())
	case *store.ArityError:
		return diag.NewDifferentNumberArguments(node, e.Expected, e.Received)
	default:
		return diag.NewInternalTypeError(node, err)
	}
}

// resolveFunctionInferredType resolves a declaration's
// functionInferredType. On failure the error is reported once against the
// declaration, the raw variable is kept, and false is returned so the
// caller does not resolve the declaration's body.
func (ctx *Context) resolveFunctionInferredType(n *ast.FunctionDeclaration) bool {
	raw := n.FunctionInferredType.(*terms.Variable)
	resolved, err := ctx.Store.Apply(raw)
	if err != nil {
		ctx.addDiag(applyErrorDiag(n, err))
		n.FunctionInferredType = raw
		return false
	}
	n.FunctionInferredType = resolved
	return true
}
