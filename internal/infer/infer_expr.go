package infer

import (
	"fmt"

	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
	"github.com/sourcecheck/sourcecheck/internal/store"
	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// inferExpr is Pass B's dispatcher over expression nodes (spec.md §4.4).
// env is the lexical environment in scope at this point. Expressions take
// no tail context: the one expression form that can contain a block, an
// arrow function, always infers that block in non-tail context.
func (ctx *Context) inferExpr(e ast.Expr, env *Env) {
	switch n := e.(type) {
	case *ast.Literal:
		ctx.inferLiteral(n)
	case *ast.Identifier:
		ctx.inferIdentifier(n, env)
	case *ast.UnaryExpression:
		ctx.inferUnary(n, env)
	case *ast.BinaryExpression:
		ctx.inferBinary(n, env)
	case *ast.LogicalExpression:
		ctx.inferLogical(n, env)
	case *ast.CallExpression:
		ctx.inferCall(n, env)
	case *ast.ConditionalExpression:
		ctx.inferConditional(n, env)
	case *ast.ArrowFunctionExpression:
		ctx.inferArrowFunction(n, env)
	case *ast.AssignmentExpression:
		ctx.inferAssignment(n, env)
	case *ast.MemberExpression:
		ctx.inferMember(n, env)
	case *ast.ArrayExpression:
		ctx.inferArray(n, env)
	case *ast.BlockStatement:
		// Only reachable as an arrow-function body; handled there.
	}
}

func (ctx *Context) inferLiteral(n *ast.Literal) {
	nv := nodeVar(n)
	var t terms.Term
	switch n.Kind {
	case ast.NumberLit:
		t = terms.TNumber
	case ast.StringLit:
		t = terms.TString
	case ast.BooleanLit:
		t = terms.TBoolean
	case ast.NullLit:
		t = &terms.List{Element: ctx.Counter.FreshNone()}
	}
	if err := ctx.unify(nv, t); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
	n.Typability = ast.Typed
}

func (ctx *Context) inferIdentifier(n *ast.Identifier, env *Env) {
	nv := nodeVar(n)
	t, _, ok := env.Lookup(ctx.Counter, n.Name)
	if !ok {
		ctx.addDiag(diag.NewUndefinedIdentifier(n, n.Name))
		return
	}
	if err := ctx.unify(nv, t); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

// applyOperator is the shared rule behind unary/binary/logical
// operators: look the operator up in env (instantiating its scheme),
// then unify Function(argTypes..., nodeVar) against it.
func (ctx *Context) applyOperator(node ast.Node, opName string, argNodes []ast.Expr, env *Env) {
	argTypes := make([]terms.Term, len(argNodes))
	for i, a := range argNodes {
		argTypes[i] = nodeVar(a)
	}
	opType, _, ok := env.Lookup(ctx.Counter, opName)
	if !ok {
		ctx.addDiag(diag.NewInternalTypeError(node, fmt.Errorf("operator %q has no builtin binding", opName)))
		return
	}
	nv := nodeVar(node)
	lhs := &terms.Function{Params: argTypes, Return: nv}
	if err := ctx.unify(lhs, opType); err != nil {
		if _, isArity := err.(*store.ArityError); isArity {
			ctx.addDiag(diag.NewInternalTypeError(node, err))
			return
		}
		expected := paramStrings(ctx, opType)
		received := ctx.appliedAll(argTypes)
		nodes := make([]ast.Node, len(argNodes))
		for i, a := range argNodes {
			nodes[i] = a
		}
		ctx.addDiag(diag.NewInvalidArgumentTypes(node, nodes, expected, received))
	}
}

func paramStrings(ctx *Context, t terms.Term) []string {
	if f, ok := t.(*terms.Function); ok {
		return ctx.appliedAll(f.Params)
	}
	return nil
}

func (ctx *Context) inferUnary(n *ast.UnaryExpression, env *Env) {
	ctx.inferExpr(n.Argument, env)
	opName := n.Operator
	if opName == "-" {
		opName = "-_1"
	}
	ctx.applyOperator(n, opName, []ast.Expr{n.Argument}, env)
}

func (ctx *Context) inferBinary(n *ast.BinaryExpression, env *Env) {
	ctx.inferExpr(n.Left, env)
	ctx.inferExpr(n.Right, env)
	ctx.applyOperator(n, n.Operator, []ast.Expr{n.Left, n.Right}, env)
}

func (ctx *Context) inferLogical(n *ast.LogicalExpression, env *Env) {
	ctx.inferExpr(n.Left, env)
	ctx.inferExpr(n.Right, env)
	ctx.applyOperator(n, n.Operator, []ast.Expr{n.Left, n.Right}, env)
}

func (ctx *Context) inferCall(n *ast.CallExpression, env *Env) {
	ctx.inferExpr(n.Callee, env)
	for _, a := range n.Arguments {
		ctx.inferExpr(a, env)
	}
	argTypes := make([]terms.Term, len(n.Arguments))
	for i, a := range n.Arguments {
		argTypes[i] = nodeVar(a)
	}
	nv := nodeVar(n)
	lhs := &terms.Function{Params: argTypes, Return: nv}
	calleeType := nodeVar(n.Callee)
	err := ctx.unify(lhs, calleeType)
	if err == nil {
		return
	}
	if ae, ok := err.(*store.ArityError); ok {
		// lhs (the call site's own built Function) was always the left
		// operand passed to AddConstraint above, so Expected/Received as
		// recorded by the unifier's generic rule are the call site's
		// count and the callee's actual arity respectively — swap them
		// back to the user-facing "expected N, got M" sense.
		ctx.addDiag(diag.NewDifferentNumberArguments(n, ae.Received, ae.Expected))
		return
	}
	expected := paramStrings(ctx, ctx.resolvedOrRaw(calleeType))
	received := ctx.appliedAll(argTypes)
	nodes := make([]ast.Node, len(n.Arguments))
	for i, a := range n.Arguments {
		nodes[i] = a
	}
	ctx.addDiag(diag.NewInvalidArgumentTypes(n, nodes, expected, received))
}

func (ctx *Context) resolvedOrRaw(t terms.Term) terms.Term {
	resolved, err := ctx.Store.Apply(t)
	if err != nil {
		return t
	}
	return resolved
}

func (ctx *Context) inferConditional(n *ast.ConditionalExpression, env *Env) {
	ctx.inferExpr(n.Test, env)
	testVar := nodeVar(n.Test)
	if err := ctx.unify(testVar, terms.TBoolean); err != nil {
		ctx.addDiag(diag.NewInvalidTestCondition(n.Test, ctx.applied(testVar)))
	}

	ctx.inferExpr(n.Consequent, env)
	ctx.inferExpr(n.Alternate, env)

	consequentVar := nodeVar(n.Consequent)
	alternateVar := nodeVar(n.Alternate)
	nv := nodeVar(n)
	if err := ctx.unify(nv, consequentVar); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
	if err := ctx.unify(consequentVar, alternateVar); err != nil {
		ctx.addDiag(diag.NewConsequentAlternateMismatch(n, ctx.applied(consequentVar), ctx.applied(alternateVar)))
	}
}

// inferArrowFunction handles both forms an arrow body can take: a single
// expression (the value of the function is that expression's type) or a
// block (typed via the non-tail Block-Value rule, since a function body
// is never reached through a tail position of the top level).
func (ctx *Context) inferArrowFunction(n *ast.ArrowFunctionExpression, env *Env) {
	fnEnv := env.Child()
	params := make([]terms.Term, len(n.Params))
	for i, p := range n.Params {
		pv := ctx.Counter.FreshNone()
		params[i] = pv
		fnEnv.BindMonotype(p, pv, ast.ConstDecl)
	}

	var bodyVar *terms.Variable
	switch body := n.Body.(type) {
	case *ast.BlockStatement:
		ctx.inferBlock(body.Body, body, fnEnv, false)
		bodyVar = nodeVar(body)
	default:
		expr := n.Body.(ast.Expr)
		ctx.inferExpr(expr, fnEnv)
		bodyVar = nodeVar(expr)
	}

	nv := nodeVar(n)
	if err := ctx.unify(nv, &terms.Function{Params: params, Return: bodyVar}); err != nil {
		ctx.addDiag(diag.NewCyclicReference(n))
	}
}

func (ctx *Context) inferAssignment(n *ast.AssignmentExpression, env *Env) {
	ctx.inferExpr(n.Value, env)
	valueVar := nodeVar(n.Value)
	nv := nodeVar(n)

	switch target := n.Target.(type) {
	case *ast.Identifier:
		declType, kind, ok := env.Lookup(ctx.Counter, target.Name)
		if !ok {
			ctx.addDiag(diag.NewUndefinedIdentifier(target, target.Name))
			return
		}
		if kind == ast.ConstDecl {
			ctx.addDiag(diag.NewReassignConst(n, target.Name))
			return
		}
		if err := ctx.unify(declType, valueVar); err != nil {
			ctx.addDiag(diag.NewDifferentAssignment(n, ctx.applied(declType), ctx.applied(valueVar)))
			return
		}
		if err := ctx.unify(nv, valueVar); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(n, err))
		}

	case *ast.MemberExpression:
		ctx.inferExpr(target, env)
		elemVar := nodeVar(target)
		if err := ctx.unify(elemVar, valueVar); err != nil {
			ctx.addDiag(diag.NewArrayAssignment(n, ctx.applied(elemVar), ctx.applied(valueVar)))
			return
		}
		if err := ctx.unify(nv, valueVar); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(n, err))
		}
	}
}

func (ctx *Context) inferMember(n *ast.MemberExpression, env *Env) {
	ctx.inferExpr(n.Object, env)
	ctx.inferExpr(n.Property, env)

	propVar := nodeVar(n.Property)
	if err := ctx.unify(propVar, terms.TNumber); err != nil {
		ctx.addDiag(diag.NewInvalidArrayIndexType(n.Property, ctx.applied(propVar)))
	}

	nv := nodeVar(n)
	objVar := nodeVar(n.Object)
	if err := ctx.unify(objVar, &terms.Array{Element: nv}); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

func (ctx *Context) inferArray(n *ast.ArrayExpression, env *Env) {
	nv := nodeVar(n)
	elem := ctx.Counter.FreshNone()
	for _, e := range n.Elements {
		ctx.inferExpr(e, env)
		ev := nodeVar(e)
		if err := ctx.unify(elem, ev); err != nil {
			ctx.addDiag(diag.NewArrayAssignment(e, ctx.applied(elem), ctx.applied(ev)))
		}
	}
	if err := ctx.unify(nv, &terms.Array{Element: elem}); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}
