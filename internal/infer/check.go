package infer

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
)

// Check runs all three passes over prog and returns every diagnostic
// collected along the way. It is the sole public entry point into the
// inferencer — cmd/sourcecheck and internal/repl never touch Context,
// internal/store, or internal/terms directly.
func Check(prog *ast.Program, allowMutation bool, variadicMathBuiltins bool) diag.List {
	ctx := NewContext(allowMutation)
	env := NewGlobalEnv(allowMutation, variadicMathBuiltins)

	ctx.decorate(prog)
	ctx.inferBlock(prog.Body, prog, env, true)
	ctx.resolve(prog)

	return ctx.Diags
}
