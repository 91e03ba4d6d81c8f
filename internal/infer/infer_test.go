package infer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/diag"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
	"github.com/sourcecheck/sourcecheck/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src, "test.src")
	p := parser.New(l, "test.src")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func exprType(t *testing.T, prog *ast.Program, idx int) string {
	t.Helper()
	stmt, ok := prog.Body[idx].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement %d is not an ExpressionStatement, got %T", idx, prog.Body[idx])
	}
	typ, ok := stmt.Expression.Info().InferredType.(interface{ String() string })
	if !ok {
		t.Fatalf("expression %d has no rendered inferred type: %#v", idx, stmt.Expression.Info().InferredType)
	}
	return typ.String()
}

func kinds(diags diag.List) []diag.Kind {
	out := make([]diag.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestCheckLiteralTypes(t *testing.T) {
	prog := mustParse(t, `5; "hi"; true; null;`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
	if got := exprType(t, prog, 1); got != "string" {
		t.Errorf("expected string, got %s", got)
	}
	if got := exprType(t, prog, 2); got != "boolean" {
		t.Errorf("expected boolean, got %s", got)
	}
}

func TestCheckAddableOperatorAcceptsNumberOrString(t *testing.T) {
	prog := mustParse(t, `1 + 2; "a" + "b";`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
	if got := exprType(t, prog, 1); got != "string" {
		t.Errorf("expected string, got %s", got)
	}
}

func TestCheckAddableOperatorRejectsBoolean(t *testing.T) {
	prog := mustParse(t, `1 + true;`)
	diags := Check(prog, true, false)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", kinds(diags))
	}
	if diags[0].Kind != diag.InvalidArgumentTypes {
		t.Errorf("expected InvalidArgumentTypes, got %s", diags[0].Kind)
	}
}

func TestCheckMultiplicationIsNumberOnly(t *testing.T) {
	prog := mustParse(t, `"a" * 2;`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.InvalidArgumentTypes {
		t.Fatalf("expected one InvalidArgumentTypes diagnostic, got %v", kinds(diags))
	}
}

func TestCheckLetPolymorphism(t *testing.T) {
	prog := mustParse(t, `
		function id(x) { return x; }
		id(5);
		id("hello");
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected the identity function to be usable at both number and string, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 1); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
	if got := exprType(t, prog, 2); got != "string" {
		t.Errorf("expected string, got %s", got)
	}
}

func TestCheckArrowFunctionLetPolymorphism(t *testing.T) {
	prog := mustParse(t, `
		const id = (x) => x;
		id(5);
		id("hello");
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
}

func TestCheckRecursiveFunction(t *testing.T) {
	prog := mustParse(t, `
		function countdown(n) {
			return n === 0 ? 0 : countdown(n - 1);
		}
		countdown(5);
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected a well-typed recursive function, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 1); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}

func TestCheckIfExpressionMismatch(t *testing.T) {
	prog := mustParse(t, `true ? 1 : "no";`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.ConsequentAlternateMismatch {
		t.Fatalf("expected one ConsequentAlternateMismatch, got %v", kinds(diags))
	}
}

func TestCheckIfStatementMismatch(t *testing.T) {
	prog := mustParse(t, `
		function f(x) {
			if (x) {
				return 1;
			} else {
				return "no";
			}
		}
	`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.ConsequentAlternateMismatch {
		t.Fatalf("expected one ConsequentAlternateMismatch, got %v", kinds(diags))
	}
}

func TestCheckNonBooleanTestCondition(t *testing.T) {
	prog := mustParse(t, `if (5) { 1; }`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.InvalidTestCondition {
		t.Fatalf("expected one InvalidTestCondition, got %v", kinds(diags))
	}
}

func TestCheckWhileNonBooleanTestCondition(t *testing.T) {
	prog := mustParse(t, `while ("x") { }`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.InvalidTestCondition {
		t.Fatalf("expected one InvalidTestCondition, got %v", kinds(diags))
	}
}

func TestCheckConstReassignment(t *testing.T) {
	prog := mustParse(t, `
		const x = 5;
		x = 6;
	`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.ReassignConst {
		t.Fatalf("expected one ReassignConst, got %v", kinds(diags))
	}
}

func TestCheckLetReassignmentOk(t *testing.T) {
	prog := mustParse(t, `
		let x = 5;
		x = 6;
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics reassigning a let binding, got %v", kinds(diags))
	}
}

func TestCheckAssignmentTypeMismatch(t *testing.T) {
	prog := mustParse(t, `
		let x = 5;
		x = "no";
	`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.DifferentAssignment {
		t.Fatalf("expected one DifferentAssignment, got %v", kinds(diags))
	}
}

func TestCheckArrayHomogeneity(t *testing.T) {
	prog := mustParse(t, `[1, 2, "three"];`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.ArrayAssignment {
		t.Fatalf("expected one ArrayAssignment, got %v", kinds(diags))
	}
}

func TestCheckArrayIndexMustBeNumber(t *testing.T) {
	prog := mustParse(t, `
		const a = [1, 2, 3];
		a["x"];
	`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.InvalidArrayIndexType {
		t.Fatalf("expected one InvalidArrayIndexType, got %v", kinds(diags))
	}
}

func TestCheckArrayIndexResultType(t *testing.T) {
	prog := mustParse(t, `
		const a = [1, 2, 3];
		a[0];
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 1); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}

func TestCheckCallArityMismatch(t *testing.T) {
	prog := mustParse(t, `
		function add(a, b) { return a + b; }
		add(1);
	`)
	diags := Check(prog, true, false)
	want := []diag.Kind{diag.DifferentNumberArguments}
	if diff := cmp.Diff(want, kinds(diags)); diff != "" {
		t.Errorf("diagnostic kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckUndefinedIdentifier(t *testing.T) {
	prog := mustParse(t, `undeclared + 1;`)
	diags := Check(prog, true, false)
	if len(diags) != 1 || diags[0].Kind != diag.UndefinedIdentifier {
		t.Fatalf("expected one UndefinedIdentifier, got %v", kinds(diags))
	}
}

func TestCheckCyclicFunctionIsCancelledNotFatal(t *testing.T) {
	prog := mustParse(t, `
		function f(x) {
			return f;
		}
		function g(y) { return y + 1; }
		g(5);
	`)
	diags := Check(prog, true, false)
	var sawCyclic bool
	for _, d := range diags {
		if d.Kind == diag.CyclicReference {
			sawCyclic = true
		}
	}
	if !sawCyclic {
		t.Fatalf("expected a CyclicReference diagnostic, got %v", kinds(diags))
	}
	// The sibling declaration g must still type-check normally despite f's
	// subtree being cancelled.
	if got := exprType(t, prog, 2); got != "number" {
		t.Errorf("expected g(5) to still resolve to number, got %s", got)
	}
}

func TestCheckPairAndListBuiltins(t *testing.T) {
	prog := mustParse(t, `pair(1, pair(2, null));`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "Pair(number, List(number))" {
		t.Errorf("expected Pair(number, List(number)), got %s", got)
	}
}

func TestCheckHeterogeneousPairListIsArrayAssignment(t *testing.T) {
	prog := mustParse(t, `pair(1, pair("x", null));`)
	diags := Check(prog, true, false)
	want := []diag.Kind{diag.ArrayAssignment}
	if diff := cmp.Diff(want, kinds(diags)); diff != "" {
		t.Errorf("diagnostic kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckHeadTailBuiltins(t *testing.T) {
	prog := mustParse(t, `
		const p = pair(1, 2);
		head(p);
		tail(p);
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 1); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}

func TestCheckMutationBuiltinsGatedByAllowMutation(t *testing.T) {
	prog := mustParse(t, `
		const p = pair(1, 2);
		set_head(p, 3);
	`)
	diags := Check(prog, false, false)
	var sawUndefined bool
	for _, d := range diags {
		if d.Kind == diag.UndefinedIdentifier {
			sawUndefined = true
		}
	}
	if !sawUndefined {
		t.Fatalf("expected set_head to be undefined when allowMutation is false, got %v", kinds(diags))
	}
}

func TestCheckMutationBuiltinsAvailableWhenAllowed(t *testing.T) {
	prog := mustParse(t, `
		const p = pair(1, 2);
		set_head(p, 3);
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics with allowMutation true, got %v", kinds(diags))
	}
}

func TestCheckArrayLengthBuiltin(t *testing.T) {
	prog := mustParse(t, `
		const a = [1, 2, 3];
		array_length(a);
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 1); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}

func TestCheckComparisonOperatorsReturnBoolean(t *testing.T) {
	prog := mustParse(t, `1 < 2; "a" === "b";`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "boolean" {
		t.Errorf("expected boolean, got %s", got)
	}
}

func TestCheckLogicalOperatorPolymorphicResult(t *testing.T) {
	prog := mustParse(t, `true && 5; true || "x";`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
	if got := exprType(t, prog, 1); got != "string" {
		t.Errorf("expected string, got %s", got)
	}
}

func TestCheckForLoopGeneralizesDeclaredVariable(t *testing.T) {
	prog := mustParse(t, `
		for (let i = 0; i < 3; i = i + 1) {
			i;
		}
	`)
	diags := Check(prog, true, false)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", kinds(diags))
	}
}

func TestCheckVariadicMathBuiltinsFlag(t *testing.T) {
	prog := mustParse(t, `math_max(1, 2);`)
	diags := Check(prog, true, true)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics with variadicMathBuiltins true, got %v", kinds(diags))
	}
	if got := exprType(t, prog, 0); got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}
