package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
)

// decorate is Pass A (spec.md §4.4): walk the whole tree once and give
// every node a fresh type variable before any constraint is emitted.
// Function declarations additionally get a second, independent fresh
// variable for functionInferredType.
func (ctx *Context) decorate(node ast.Node) {
	if node == nil {
		return
	}
	info := node.Info()
	info.InferredType = ctx.Counter.FreshNone()
	info.Typability = ast.NotYetTyped

	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Body {
			ctx.decorate(s)
		}

	case *ast.Literal:
		// leaf

	case *ast.Identifier:
		// leaf

	case *ast.UnaryExpression:
		ctx.decorate(n.Argument)

	case *ast.BinaryExpression:
		ctx.decorate(n.Left)
		ctx.decorate(n.Right)

	case *ast.LogicalExpression:
		ctx.decorate(n.Left)
		ctx.decorate(n.Right)

	case *ast.CallExpression:
		ctx.decorate(n.Callee)
		for _, a := range n.Arguments {
			ctx.decorate(a)
		}

	case *ast.ConditionalExpression:
		ctx.decorate(n.Test)
		ctx.decorate(n.Consequent)
		ctx.decorate(n.Alternate)

	case *ast.ArrowFunctionExpression:
		ctx.decorate(n.Body)

	case *ast.AssignmentExpression:
		ctx.decorate(n.Target)
		ctx.decorate(n.Value)

	case *ast.MemberExpression:
		ctx.decorate(n.Object)
		ctx.decorate(n.Property)

	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			ctx.decorate(e)
		}

	case *ast.VariableDeclaration:
		if n.Kind.Init != nil {
			ctx.decorate(n.Kind.Init)
		}

	case *ast.FunctionDeclaration:
		n.FunctionInferredType = ctx.Counter.FreshNone()
		ctx.decorate(n.Body)

	case *ast.ReturnStatement:
		if n.Argument != nil {
			ctx.decorate(n.Argument)
		}

	case *ast.ExpressionStatement:
		ctx.decorate(n.Expression)

	case *ast.BlockStatement:
		for _, s := range n.Body {
			ctx.decorate(s)
		}

	case *ast.IfStatement:
		ctx.decorate(n.Test)
		ctx.decorate(n.Consequent)
		if n.Alternate != nil {
			ctx.decorate(n.Alternate)
		}

	case *ast.WhileStatement:
		ctx.decorate(n.Test)
		ctx.decorate(n.Body)

	case *ast.ForStatement:
		if n.Init != nil && n.Init.Init != nil {
			ctx.decorate(n.Init.Init)
		}
		if n.Test != nil {
			ctx.decorate(n.Test)
		}
		if n.Update != nil {
			ctx.decorate(n.Update)
		}
		ctx.decorate(n.Body)
	}
}
