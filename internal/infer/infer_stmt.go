package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
	"github.com/sourcecheck/sourcecheck/internal/terms"
)

// inferStmt is Pass B's dispatcher over statement nodes. tailCtx is true
// only along the single chain of "last statement of a block reached
// through the tail position of the program's top level" — see
// inferBlock for where that chain is threaded.
func (ctx *Context) inferStmt(s ast.Stmt, env *Env, tailCtx bool) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		ctx.inferExpr(n.Expression, env)
		if err := ctx.unify(nodeVar(n), terms.TUndefined); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(n, err))
		}
	case *ast.VariableDeclaration:
		// Handled by inferBlock's declaration pre-pass; statements of
		// this kind never reach the dispatcher directly.
	case *ast.FunctionDeclaration:
		// Likewise handled by inferBlock's declaration pre-pass.
	case *ast.ReturnStatement:
		ctx.inferReturn(n, env)
	case *ast.IfStatement:
		ctx.inferIf(n, env, tailCtx)
	case *ast.WhileStatement:
		ctx.inferWhile(n, env)
	case *ast.ForStatement:
		ctx.inferFor(n, env)
	case *ast.BlockStatement:
		ctx.inferBlock(n.Body, n, env, tailCtx)
	}
}

func (ctx *Context) inferReturn(n *ast.ReturnStatement, env *Env) {
	nv := nodeVar(n)
	if n.Argument == nil {
		if err := ctx.unify(nv, terms.TUndefined); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(n, err))
		}
		return
	}
	ctx.inferExpr(n.Argument, env)
	if err := ctx.unify(nv, nodeVar(n.Argument)); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

func (ctx *Context) inferIf(n *ast.IfStatement, env *Env, tailCtx bool) {
	ctx.inferExpr(n.Test, env)
	testVar := nodeVar(n.Test)
	if err := ctx.unify(testVar, terms.TBoolean); err != nil {
		ctx.addDiag(diag.NewInvalidTestCondition(n.Test, ctx.applied(testVar)))
	}

	ctx.inferBlock(n.Consequent.Body, n.Consequent, env, tailCtx)
	consequentVar := nodeVar(n.Consequent)
	nv := nodeVar(n)

	if n.Alternate == nil {
		if err := ctx.unify(nv, terms.TUndefined); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(n, err))
		}
		return
	}

	ctx.inferStmt(n.Alternate, env, tailCtx)
	alternateVar := nodeVar(n.Alternate)
	if err := ctx.unify(consequentVar, alternateVar); err != nil {
		ctx.addDiag(diag.NewConsequentAlternateMismatch(n, ctx.applied(consequentVar), ctx.applied(alternateVar)))
	}
	if err := ctx.unify(nv, consequentVar); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

func (ctx *Context) inferWhile(n *ast.WhileStatement, env *Env) {
	ctx.inferExpr(n.Test, env)
	testVar := nodeVar(n.Test)
	if err := ctx.unify(testVar, terms.TBoolean); err != nil {
		ctx.addDiag(diag.NewInvalidTestCondition(n.Test, ctx.applied(testVar)))
	}
	ctx.inferBlock(n.Body.Body, n.Body, env, false)
	if err := ctx.unify(nodeVar(n), nodeVar(n.Body)); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

func (ctx *Context) inferFor(n *ast.ForStatement, env *Env) {
	loopEnv := env.Child()
	if n.Init != nil {
		ctx.inferExpr(n.Init.Init, loopEnv)
		initVar := nodeVar(n.Init.Init)
		loopEnv.BindMonotype(n.Init.Name, initVar, n.Init.Kind)
	}
	if n.Test != nil {
		ctx.inferExpr(n.Test, loopEnv)
		testVar := nodeVar(n.Test)
		if err := ctx.unify(testVar, terms.TBoolean); err != nil {
			ctx.addDiag(diag.NewInvalidTestCondition(n.Test, ctx.applied(testVar)))
		}
	}
	if n.Update != nil {
		ctx.inferExpr(n.Update, loopEnv)
	}
	ctx.inferBlock(n.Body.Body, n.Body, loopEnv, false)

	if n.Init != nil && !n.VarInit {
		// Generalise the loop variable the same way a block generalises
		// its declarations and rebind it in the loop scope. This runs
		// after the test, update and body have been inferred, so those
		// all saw the raw, un-generalised variable.
		initVar := nodeVar(n.Init.Init)
		applied := ctx.resolvedOrRaw(initVar)
		generalized := terms.Generalize(applied, env.FreeVariables())
		bindGeneralized(loopEnv, n.Init.Name, n.Init.Kind, generalized)
	}

	if err := ctx.unify(nodeVar(n), nodeVar(n.Body)); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

func bindGeneralized(env *Env, name string, kind ast.DeclarationKind, generalized terms.Term) {
	if s, ok := generalized.(*terms.Scheme); ok {
		env.BindScheme(name, s, kind)
		return
	}
	env.BindMonotype(name, generalized, kind)
}

// inferBlock implements the declaration pre-pass, in-order inference,
// generalisation, and Block-Value rule shared by Program, BlockStatement,
// and every construct that carries one (spec.md §4.4).
func (ctx *Context) inferBlock(body []ast.Stmt, blockNode ast.Node, parentEnv *Env, tailCtx bool) {
	child := parentEnv.Child()
	outerFree := parentEnv.FreeVariables()

	var declIdx []int
	for i, s := range body {
		switch s.(type) {
		case *ast.VariableDeclaration, *ast.FunctionDeclaration:
			declIdx = append(declIdx, i)
		}
	}

	// Pre-bind every declared name to its raw variable so recursive
	// references within the block resolve before generalisation runs.
	for _, i := range declIdx {
		switch decl := body[i].(type) {
		case *ast.VariableDeclaration:
			raw := ctx.Counter.FreshNone()
			ctx.declVar[decl] = raw
			child.BindMonotype(decl.Kind.Name, raw, decl.Kind.Kind)
		case *ast.FunctionDeclaration:
			raw := decl.FunctionInferredType.(*terms.Variable)
			child.BindMonotype(decl.Name, raw, ast.ConstDecl)
		}
	}

	// Infer every declaration, in source order.
	for _, i := range declIdx {
		switch decl := body[i].(type) {
		case *ast.VariableDeclaration:
			ctx.inferVariableDeclaration(decl, child)
		case *ast.FunctionDeclaration:
			ctx.inferFunctionDeclaration(decl, child)
		}
	}

	// Generalise each declared name and rebind its schema.
	for _, i := range declIdx {
		switch decl := body[i].(type) {
		case *ast.VariableDeclaration:
			raw := ctx.declVar[decl]
			applied := ctx.resolvedOrRaw(raw)
			generalized := terms.Generalize(applied, outerFree)
			bindGeneralized(child, decl.Kind.Name, decl.Kind.Kind, generalized)
		case *ast.FunctionDeclaration:
			if ctx.cancelled[decl] {
				continue
			}
			raw := decl.FunctionInferredType.(*terms.Variable)
			applied := ctx.resolvedOrRaw(raw)
			generalized := terms.Generalize(applied, outerFree)
			bindGeneralized(child, decl.Name, ast.ConstDecl, generalized)
		}
	}

	// Infer the remaining, non-declaration statements in order.
	declSet := make(map[int]bool, len(declIdx))
	for _, i := range declIdx {
		declSet[i] = true
	}
	designated := designatedStatement(body, declSet, tailCtx)
	for i, s := range body {
		if declSet[i] {
			continue
		}
		childTail := tailCtx && i == designated && isPropagatingStmt(s)
		ctx.inferStmt(s, child, childTail)
	}

	nv := nodeVar(blockNode)
	if designated >= 0 {
		if err := ctx.unify(nv, nodeVar(body[designated])); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(blockNode, err))
		}
	} else {
		if err := ctx.unify(nv, terms.TUndefined); err != nil {
			ctx.addDiag(diag.NewInternalTypeError(blockNode, err))
		}
	}
}

func (ctx *Context) inferVariableDeclaration(n *ast.VariableDeclaration, env *Env) {
	ctx.inferExpr(n.Kind.Init, env)
	initVar := nodeVar(n.Kind.Init)
	raw := ctx.declVar[n]
	if err := ctx.unify(raw, initVar); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
	if err := ctx.unify(nodeVar(n), terms.TUndefined); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
	n.Typability = ast.Typed
}

func (ctx *Context) inferFunctionDeclaration(n *ast.FunctionDeclaration, env *Env) {
	fnEnv := env.Child()
	params := make([]terms.Term, len(n.Params))
	for i, p := range n.Params {
		pv := ctx.Counter.FreshNone()
		params[i] = pv
		fnEnv.BindMonotype(p, pv, ast.ConstDecl)
	}

	ctx.inferBlock(n.Body.Body, n.Body, fnEnv, false)
	bodyVar := nodeVar(n.Body)

	raw := n.FunctionInferredType.(*terms.Variable)
	if err := ctx.unify(raw, &terms.Function{Params: params, Return: bodyVar}); err != nil {
		ctx.addDiag(diag.NewCyclicReference(n))
		ctx.cancelled[n] = true
	}

	if err := ctx.unify(nodeVar(n), terms.TUndefined); err != nil {
		ctx.addDiag(diag.NewInternalTypeError(n, err))
	}
}

// designatedStatement picks the index of the statement whose type
// becomes the enclosing block's own type (spec.md §4.4's Block-Value
// rule), or -1 if the block has no typed value. declSet marks indices
// already consumed by the declaration pass, which never participate.
func designatedStatement(body []ast.Stmt, declSet map[int]bool, tailCtx bool) int {
	if tailCtx {
		for i := len(body) - 1; i >= 0; i-- {
			if declSet[i] {
				continue
			}
			if isValueProducing(body[i]) {
				return i
			}
		}
		return -1
	}

	for i, s := range body {
		if declSet[i] {
			continue
		}
		if containsReturn(s) {
			return i
		}
	}
	last := -1
	for i := range body {
		if !declSet[i] {
			last = i
		}
	}
	return last
}

func isValueProducing(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ExpressionStatement, *ast.BlockStatement, *ast.IfStatement:
		return true
	default:
		return false
	}
}

// isPropagatingStmt reports whether a statement's own nested blocks
// should inherit the enclosing block's tail context — only blocks and
// ifs carry a value through to their own designated sub-statement.
func isPropagatingStmt(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.BlockStatement, *ast.IfStatement:
		return true
	default:
		return false
	}
}

func containsReturn(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.BlockStatement:
		for _, inner := range n.Body {
			if containsReturn(inner) {
				return true
			}
		}
		return false
	case *ast.IfStatement:
		if containsReturn(n.Consequent) {
			return true
		}
		if n.Alternate != nil {
			return containsReturn(n.Alternate)
		}
		return false
	default:
		return false
	}
}
