package infer

import "github.com/sourcecheck/sourcecheck/internal/terms"

// scheme is a tiny builder used only by this file to keep the table
// below legible: it wraps a term built with named placeholder variables
// into a *terms.Scheme quantified over every name that appears in it.
func scheme(vars []string, t terms.Term) *terms.Scheme {
	return &terms.Scheme{Vars: vars, Term: t}
}

func v(name string, kind terms.Kind) *terms.Variable {
	return &terms.Variable{Name: name, Kind: kind}
}

func fn(params []terms.Term, ret terms.Term) *terms.Function {
	return &terms.Function{Params: params, Return: ret}
}

// NewGlobalEnv builds the predeclared environment (spec.md §6): operators,
// math_* functions, and, when allowMutation is set, the mutable pair
// builtins. Operators and the pair/list/array builtins are bound as
// schemes so each use site gets its own fresh instantiation — this is
// what lets "+" be applied once to two numbers and once to two strings in
// the same program. The math constants and fixed-signature math_*
// functions are bound as monotypes.
func NewGlobalEnv(allowMutation bool, variadicMathBuiltins bool) *Env {
	env := NewEnv()

	bindOp := func(name string, s *terms.Scheme) {
		env.BindScheme(name, s, 0)
	}

	// Arithmetic: "+" is polymorphic over addable (number or string);
	// "-", "*", "/", "%" are number-only. Unary minus is renamed "-_1" so
	// it doesn't collide with the binary "-" entry.
	a := v("A", terms.KindAddable)
	bindOp("+", scheme([]string{"A"}, fn([]terms.Term{a, a}, a)))
	bindOp("-", scheme(nil, fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber)))
	bindOp("*", scheme(nil, fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber)))
	bindOp("/", scheme(nil, fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber)))
	bindOp("%", scheme(nil, fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber)))
	bindOp("-_1", scheme(nil, fn([]terms.Term{terms.TNumber}, terms.TNumber)))

	// Comparisons: addable on both sides, boolean result.
	cmpA := v("A", terms.KindAddable)
	for _, op := range []string{"===", "!==", "<", "<=", ">", ">="} {
		bindOp(op, scheme([]string{"A"}, fn([]terms.Term{cmpA, cmpA}, terms.TBoolean)))
	}

	// Logical connectives short-circuit on their own second operand's
	// type: ∀T. boolean -> T -> T.
	t := v("T", terms.KindNone)
	bindOp("&&", scheme([]string{"T"}, fn([]terms.Term{terms.TBoolean, t}, t)))
	bindOp("||", scheme([]string{"T"}, fn([]terms.Term{terms.TBoolean, t}, t)))
	bindOp("!", scheme(nil, fn([]terms.Term{terms.TBoolean}, terms.TBoolean)))

	// math_* constants and unary functions.
	env.BindMonotype("math_PI", terms.TNumber, 0)
	env.BindMonotype("math_E", terms.TNumber, 0)
	for _, name := range []string{"math_abs", "math_sqrt", "math_sin", "math_cos", "math_log", "math_floor", "math_round"} {
		env.BindMonotype(name, fn([]terms.Term{terms.TNumber}, terms.TNumber), 0)
	}
	env.BindMonotype("math_pow", fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber), 0)

	// math_hypot/max/min: the distilled spec leaves their arity open
	// (Open Question). We resolve it as a config flag (SPEC_FULL.md §9):
	// variadicMathBuiltins=false (default) types them as the spec's
	// literal fallback reading, ∀T. T — each use instantiates a fresh bare
	// variable, which unifies with a function type of any arity, so calls
	// with any number and type of arguments type-check and the call's
	// result type is left unconstrained; variadicMathBuiltins=true instead gives them
	// a fixed two-argument number signature, matching how a JS runtime
	// would actually implement Math.hypot/max/min for this language's
	// builtin call sites.
	for _, name := range []string{"math_hypot", "math_max", "math_min"} {
		if variadicMathBuiltins {
			env.BindMonotype(name, fn([]terms.Term{terms.TNumber, terms.TNumber}, terms.TNumber), 0)
		} else {
			poly := v("T", terms.KindNone)
			bindOp(name, scheme([]string{"T"}, poly))
		}
	}

	// Pair/list builtins.
	pHead := v("H", terms.KindNone)
	pTail := v("L", terms.KindNone)
	bindOp("pair", scheme([]string{"H", "L"}, fn([]terms.Term{pHead, pTail}, &terms.Pair{Head: pHead, Tail: pTail})))
	bindHead := v("H2", terms.KindNone)
	bindTail := v("L2", terms.KindNone)
	bindOp("head", scheme([]string{"H2", "L2"},
		fn([]terms.Term{&terms.Pair{Head: bindHead, Tail: bindTail}}, bindHead)))
	bindOp("tail", scheme([]string{"H2", "L2"},
		fn([]terms.Term{&terms.Pair{Head: bindHead, Tail: bindTail}}, bindTail)))
	isPairArg := v("P", terms.KindNone)
	bindOp("is_pair", scheme([]string{"P"}, fn([]terms.Term{isPairArg}, terms.TBoolean)))
	bindOp("is_null", scheme([]string{"P"}, fn([]terms.Term{isPairArg}, terms.TBoolean)))
	bindOp("is_list", scheme([]string{"P"}, fn([]terms.Term{isPairArg}, terms.TBoolean)))
	listElem := v("E", terms.KindNone)
	bindOp("list", scheme([]string{"E"}, fn([]terms.Term{listElem}, &terms.List{Element: listElem})))

	if allowMutation {
		sH := v("SH", terms.KindNone)
		sT := v("ST", terms.KindNone)
		bindOp("set_head", scheme([]string{"SH", "ST"},
			fn([]terms.Term{&terms.Pair{Head: sH, Tail: sT}, sH}, terms.TUndefined)))
		bindOp("set_tail", scheme([]string{"SH", "ST"},
			fn([]terms.Term{&terms.Pair{Head: sH, Tail: sT}, sT}, terms.TUndefined)))
	}

	// Array builtins.
	arrElem := v("AE", terms.KindNone)
	bindOp("array_length", scheme([]string{"AE"},
		fn([]terms.Term{&terms.Array{Element: arrElem}}, terms.TNumber)))
	arrAny := v("AA", terms.KindNone)
	bindOp("is_array", scheme([]string{"AA"}, fn([]terms.Term{arrAny}, terms.TBoolean)))

	return env
}
