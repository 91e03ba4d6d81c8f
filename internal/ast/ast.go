// Package ast defines the typed abstract syntax tree that the type
// checker core consumes. The parser (internal/parser) is the sole
// producer of these nodes; the checker (internal/infer) mutates only the
// two type-annotation fields embedded in TypeInfo.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a source position, carried by every node so diagnostics can
// point back at the offending construct.
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Typability is the per-node lifecycle state the checker advances
// through during its three passes.
type Typability int

const (
	Untypable Typability = iota
	NotYetTyped
	Typed
)

func (t Typability) String() string {
	switch t {
	case Untypable:
		return "Untypable"
	case NotYetTyped:
		return "NotYetTyped"
	case Typed:
		return "Typed"
	default:
		return "unknown"
	}
}

// TypeInfo holds the type-annotation fields every node carries. It is
// embedded, never referenced directly by callers outside internal/infer.
type TypeInfo struct {
	InferredType interface{} // holds *terms.Term; kept as interface{} to avoid an import cycle with internal/terms
	Typability   Typability
}

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() Pos
	Info() *TypeInfo
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node of a parsed source file.
type Program struct {
	Body []Stmt
	Pos  Pos
	TypeInfo
}

func (p *Program) Position() Pos    { return p.Pos }
func (p *Program) Info() *TypeInfo  { return &p.TypeInfo }
func (p *Program) stmtNode()        {}
func (p *Program) String() string {
	parts := make([]string, len(p.Body))
	for i, s := range p.Body {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// LiteralKind distinguishes the primitive literal forms.
type LiteralKind int

const (
	NumberLit LiteralKind = iota
	StringLit
	BooleanLit
	NullLit
)

// Literal is a literal value: a number, string, boolean, or null.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
	TypeInfo
}

func (l *Literal) Position() Pos   { return l.Pos }
func (l *Literal) Info() *TypeInfo { return &l.TypeInfo }
func (l *Literal) exprNode()       {}
func (l *Literal) String() string {
	if l.Kind == NullLit {
		return "null"
	}
	return fmt.Sprintf("%v", l.Value)
}

// Identifier is a variable or function reference.
type Identifier struct {
	Name string
	Pos  Pos
	TypeInfo
}

func (i *Identifier) Position() Pos   { return i.Pos }
func (i *Identifier) Info() *TypeInfo { return &i.TypeInfo }
func (i *Identifier) exprNode()       {}
func (i *Identifier) String() string  { return i.Name }

// UnaryExpression applies a prefix operator to a single operand.
type UnaryExpression struct {
	Operator string // "-" or "!"
	Argument Expr
	Pos      Pos
	TypeInfo
}

func (u *UnaryExpression) Position() Pos   { return u.Pos }
func (u *UnaryExpression) Info() *TypeInfo { return &u.TypeInfo }
func (u *UnaryExpression) exprNode()       {}
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Argument.String())
}

// BinaryExpression applies an arithmetic/comparison operator.
type BinaryExpression struct {
	Operator string
	Left     Expr
	Right    Expr
	Pos      Pos
	TypeInfo
}

func (b *BinaryExpression) Position() Pos   { return b.Pos }
func (b *BinaryExpression) Info() *TypeInfo { return &b.TypeInfo }
func (b *BinaryExpression) exprNode()       {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// LogicalExpression applies && or ||.
type LogicalExpression struct {
	Operator string
	Left     Expr
	Right    Expr
	Pos      Pos
	TypeInfo
}

func (l *LogicalExpression) Position() Pos   { return l.Pos }
func (l *LogicalExpression) Info() *TypeInfo { return &l.TypeInfo }
func (l *LogicalExpression) exprNode()       {}
func (l *LogicalExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left.String(), l.Operator, l.Right.String())
}

// CallExpression applies a callee to a list of argument expressions.
type CallExpression struct {
	Callee    Expr
	Arguments []Expr
	Pos       Pos
	TypeInfo
}

func (c *CallExpression) Position() Pos   { return c.Pos }
func (c *CallExpression) Info() *TypeInfo { return &c.TypeInfo }
func (c *CallExpression) exprNode()       {}
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(args, ", "))
}

// ConditionalExpression is the ternary `test ? consequent : alternate`.
type ConditionalExpression struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
	Pos        Pos
	TypeInfo
}

func (c *ConditionalExpression) Position() Pos   { return c.Pos }
func (c *ConditionalExpression) Info() *TypeInfo { return &c.TypeInfo }
func (c *ConditionalExpression) exprNode()       {}
func (c *ConditionalExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Test.String(), c.Consequent.String(), c.Alternate.String())
}

// ArrowFunctionExpression is an anonymous function value.
type ArrowFunctionExpression struct {
	Params []string
	Body   Node // Expr for a single-expression body, *BlockStatement otherwise
	Pos    Pos
	TypeInfo
}

func (a *ArrowFunctionExpression) Position() Pos   { return a.Pos }
func (a *ArrowFunctionExpression) Info() *TypeInfo { return &a.TypeInfo }
func (a *ArrowFunctionExpression) exprNode()       {}
func (a *ArrowFunctionExpression) String() string {
	return fmt.Sprintf("(%s) => %s", strings.Join(a.Params, ", "), a.Body.String())
}

// AssignmentExpression assigns to an identifier or an array element.
type AssignmentExpression struct {
	Target Expr // *Identifier or *MemberExpression
	Value  Expr
	Pos    Pos
	TypeInfo
}

func (a *AssignmentExpression) Position() Pos   { return a.Pos }
func (a *AssignmentExpression) Info() *TypeInfo { return &a.TypeInfo }
func (a *AssignmentExpression) exprNode()       {}
func (a *AssignmentExpression) String() string {
	return fmt.Sprintf("%s = %s", a.Target.String(), a.Value.String())
}

// MemberExpression indexes into an array: object[property].
type MemberExpression struct {
	Object   Expr
	Property Expr
	Pos      Pos
	TypeInfo
}

func (m *MemberExpression) Position() Pos   { return m.Pos }
func (m *MemberExpression) Info() *TypeInfo { return &m.TypeInfo }
func (m *MemberExpression) exprNode()       {}
func (m *MemberExpression) String() string {
	return fmt.Sprintf("%s[%s]", m.Object.String(), m.Property.String())
}

// ArrayExpression is an array literal `[e1, e2, ...]`.
type ArrayExpression struct {
	Elements []Expr
	Pos      Pos
	TypeInfo
}

func (a *ArrayExpression) Position() Pos   { return a.Pos }
func (a *ArrayExpression) Info() *TypeInfo { return &a.TypeInfo }
func (a *ArrayExpression) exprNode()       {}
func (a *ArrayExpression) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// DeclarationKind distinguishes const from let bindings.
type DeclarationKind int

const (
	ConstDecl DeclarationKind = iota
	LetDecl
)

func (d DeclarationKind) String() string {
	if d == ConstDecl {
		return "const"
	}
	return "let"
}

// VariableDeclaration introduces a const/let binding.
type VariableDeclaration struct {
	Kind Declaration
	Pos  Pos
	TypeInfo
}

// Declaration pairs a declared name with its kind and initializer; it is
// split out from VariableDeclaration so For-loop init clauses (which are
// not full statements) can reuse it.
type Declaration struct {
	Name string
	Kind DeclarationKind
	Init Expr
}

func (v *VariableDeclaration) Position() Pos   { return v.Pos }
func (v *VariableDeclaration) Info() *TypeInfo { return &v.TypeInfo }
func (v *VariableDeclaration) stmtNode()       {}
func (v *VariableDeclaration) String() string {
	return fmt.Sprintf("%s %s = %s;", v.Kind.Kind, v.Kind.Name, v.Kind.Init.String())
}

// FunctionDeclaration binds a name to a function, statement-style.
type FunctionDeclaration struct {
	Name   string
	Params []string
	Body   *BlockStatement
	Pos    Pos
	TypeInfo
	FunctionInferredType interface{} // *terms.Term, distinct from TypeInfo.InferredType (always undefined)
}

func (f *FunctionDeclaration) Position() Pos   { return f.Pos }
func (f *FunctionDeclaration) Info() *TypeInfo { return &f.TypeInfo }
func (f *FunctionDeclaration) stmtNode()       {}
func (f *FunctionDeclaration) String() string {
	return fmt.Sprintf("function %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

// ReturnStatement returns a value from the enclosing function.
type ReturnStatement struct {
	Argument Expr // nil for a bare `return;`
	Pos      Pos
	TypeInfo
}

func (r *ReturnStatement) Position() Pos   { return r.Pos }
func (r *ReturnStatement) Info() *TypeInfo { return &r.TypeInfo }
func (r *ReturnStatement) stmtNode()       {}
func (r *ReturnStatement) String() string {
	if r.Argument == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Argument.String())
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Expression Expr
	Pos        Pos
	TypeInfo
}

func (e *ExpressionStatement) Position() Pos   { return e.Pos }
func (e *ExpressionStatement) Info() *TypeInfo { return &e.TypeInfo }
func (e *ExpressionStatement) stmtNode()       {}
func (e *ExpressionStatement) String() string  { return e.Expression.String() + ";" }

// BlockStatement is a brace-delimited sequence of statements introducing
// a new lexical scope.
type BlockStatement struct {
	Body []Stmt
	Pos  Pos
	TypeInfo
}

func (b *BlockStatement) Position() Pos   { return b.Pos }
func (b *BlockStatement) Info() *TypeInfo { return &b.TypeInfo }
func (b *BlockStatement) stmtNode()       {}
func (b *BlockStatement) exprNode()       {} // a block is also usable as an arrow-function body
func (b *BlockStatement) String() string {
	parts := make([]string, len(b.Body))
	for i, s := range b.Body {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// IfStatement is the statement form of a conditional.
type IfStatement struct {
	Test       Expr
	Consequent *BlockStatement
	Alternate  Stmt // *BlockStatement or *IfStatement (else-if chain), nil if absent
	Pos        Pos
	TypeInfo
}

func (i *IfStatement) Position() Pos   { return i.Pos }
func (i *IfStatement) Info() *TypeInfo { return &i.TypeInfo }
func (i *IfStatement) stmtNode()       {}
func (i *IfStatement) String() string {
	if i.Alternate != nil {
		return fmt.Sprintf("if (%s) %s else %s", i.Test.String(), i.Consequent.String(), i.Alternate.String())
	}
	return fmt.Sprintf("if (%s) %s", i.Test.String(), i.Consequent.String())
}

// WhileStatement is a pretest loop.
type WhileStatement struct {
	Test Expr
	Body *BlockStatement
	Pos  Pos
	TypeInfo
}

func (w *WhileStatement) Position() Pos   { return w.Pos }
func (w *WhileStatement) Info() *TypeInfo { return &w.TypeInfo }
func (w *WhileStatement) stmtNode()       {}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) %s", w.Test.String(), w.Body.String())
}

// ForStatement is a C-style counted loop.
type ForStatement struct {
	Init   *Declaration // nil if absent
	VarInit bool        // true if Init is a bare assignment (`i = 0`) rather than let/const; it is not generalised
	Test   Expr
	Update Expr
	Body   *BlockStatement
	Pos    Pos
	TypeInfo
}

func (f *ForStatement) Position() Pos   { return f.Pos }
func (f *ForStatement) Info() *TypeInfo { return &f.TypeInfo }
func (f *ForStatement) stmtNode()       {}
func (f *ForStatement) String() string {
	return fmt.Sprintf("for (...; %s; %s) %s", f.Test.String(), f.Update.String(), f.Body.String())
}
