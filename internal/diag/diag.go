// Package diag is the downstream diagnostic reporter (spec.md §6): the
// closed set of structured diagnostics the checker emits, plus
// text/JSON rendering. It mirrors the teacher's errors.Report/codes
// taxonomy for the checker's diagnostics; the parser reports its own
// errors through internal/parser's ParserError.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sourcecheck/sourcecheck/internal/ast"
)

// Kind is the closed set of diagnostic kinds spec.md §6 names.
type Kind string

const (
	InvalidArgumentTypes        Kind = "InvalidArgumentTypes"
	DifferentNumberArguments    Kind = "DifferentNumberArguments"
	InvalidTestCondition        Kind = "InvalidTestCondition"
	ConsequentAlternateMismatch Kind = "ConsequentAlternateMismatch"
	CyclicReference             Kind = "CyclicReference"
	ReassignConst               Kind = "ReassignConst"
	DifferentAssignment         Kind = "DifferentAssignment"
	ArrayAssignment             Kind = "ArrayAssignment"
	InvalidArrayIndexType       Kind = "InvalidArrayIndexType"
	UndefinedIdentifier         Kind = "UndefinedIdentifier"
	InternalTypeError           Kind = "InternalTypeError"
)

// code returns the TC### code namespacing this diagnostic kind, in the
// style of the teacher's codes.go taxonomy.
func (k Kind) code() string {
	codes := map[Kind]string{
		InvalidArgumentTypes:        "TC001",
		DifferentNumberArguments:    "TC002",
		InvalidTestCondition:        "TC003",
		ConsequentAlternateMismatch: "TC004",
		CyclicReference:             "TC005",
		ReassignConst:               "TC006",
		DifferentAssignment:         "TC007",
		ArrayAssignment:             "TC008",
		InvalidArrayIndexType:       "TC009",
		UndefinedIdentifier:         "TC010",
		InternalTypeError:           "TC999",
	}
	return codes[k]
}

// Severity mirrors the teacher's report severity field; the core always
// emits "warning" per spec.md §6 (the checker never aborts the program,
// it only flags it).
type Severity string

const (
	SeverityWarning Severity = "warning"
)

// Diagnostic is the structured record every diagnostic kind shares.
// Payload carries the kind-specific data named in spec.md §6's table.
type Diagnostic struct {
	Kind     Kind
	Code     string
	Phase    string // "type" for every diagnostic this package's checker constructors produce
	Severity Severity
	Node     ast.Node
	Message  string
	Data     map[string]interface{}
}

// Error implements the error interface so a Diagnostic can be returned
// or wrapped like any other Go error (e.g. by test helpers).
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Node.Position().String(), d.Code, d.Kind, d.Message)
}

func newDiag(kind Kind, node ast.Node, message string, data map[string]interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Code:     kind.code(),
		Phase:    "type",
		Severity: SeverityWarning,
		Node:     node,
		Message:  message,
		Data:     data,
	}
}

// NewInvalidArgumentTypes reports an operator/call whose argument types
// do not unify with the callee's parameter types.
func NewInvalidArgumentTypes(node ast.Node, args []ast.Node, expected, received []string) *Diagnostic {
	return newDiag(InvalidArgumentTypes, node,
		fmt.Sprintf("invalid argument types: expected (%s), got (%s)", strings.Join(expected, ", "), strings.Join(received, ", ")),
		map[string]interface{}{"expected": expected, "received": received, "argCount": len(args)})
}

// NewDifferentNumberArguments reports a CallExpression whose argument
// count does not match the callee's arity.
func NewDifferentNumberArguments(node ast.Node, expected, received int) *Diagnostic {
	return newDiag(DifferentNumberArguments, node,
		fmt.Sprintf("expected %d argument(s), got %d", expected, received),
		map[string]interface{}{"expected": expected, "received": received})
}

// NewInvalidTestCondition reports an if/while/for test whose type is not boolean.
func NewInvalidTestCondition(node ast.Node, received string) *Diagnostic {
	return newDiag(InvalidTestCondition, node,
		fmt.Sprintf("test condition must be boolean, got %s", received),
		map[string]interface{}{"received": received})
}

// NewConsequentAlternateMismatch reports an if/conditional whose two
// branches produced incompatible types.
func NewConsequentAlternateMismatch(node ast.Node, consequent, alternate string) *Diagnostic {
	return newDiag(ConsequentAlternateMismatch, node,
		fmt.Sprintf("branches have incompatible types: %s vs %s", consequent, alternate),
		map[string]interface{}{"consequent": consequent, "alternate": alternate})
}

// NewCyclicReference reports a function declaration whose body produced
// an unrescuable cyclic type; only that declaration's subtree is
// abandoned.
func NewCyclicReference(node ast.Node) *Diagnostic {
	return newDiag(CyclicReference, node, "function declaration has a cyclic (infinite) type", nil)
}

// NewReassignConst reports an assignment to a const-declared identifier.
func NewReassignConst(node ast.Node, name string) *Diagnostic {
	return newDiag(ReassignConst, node, fmt.Sprintf("cannot assign to const '%s'", name),
		map[string]interface{}{"name": name})
}

// NewDifferentAssignment reports an identifier assignment whose rhs type
// does not match the identifier's declared type.
func NewDifferentAssignment(node ast.Node, expected, received string) *Diagnostic {
	return newDiag(DifferentAssignment, node,
		fmt.Sprintf("cannot assign %s to variable of type %s", received, expected),
		map[string]interface{}{"expected": expected, "received": received})
}

// NewArrayAssignment reports an array-element assignment (or array
// literal element) whose type does not match the array's element type.
func NewArrayAssignment(node ast.Node, arrayType, received string) *Diagnostic {
	return newDiag(ArrayAssignment, node,
		fmt.Sprintf("cannot use %s as element of %s", received, arrayType),
		map[string]interface{}{"arrayType": arrayType, "received": received})
}

// NewInvalidArrayIndexType reports a MemberExpression whose property
// expression did not unify with number.
func NewInvalidArrayIndexType(node ast.Node, received string) *Diagnostic {
	return newDiag(InvalidArrayIndexType, node,
		fmt.Sprintf("array index must be number, got %s", received),
		map[string]interface{}{"received": received})
}

// NewUndefinedIdentifier reports a reference to a name with no binding
// in the current environment.
func NewUndefinedIdentifier(node ast.Node, name string) *Diagnostic {
	return newDiag(UndefinedIdentifier, node, fmt.Sprintf("undefined identifier: %s", name),
		map[string]interface{}{"name": name})
}

// NewInternalTypeError is the escape hatch wrapping any unification
// failure that none of the above, more specific, constructors apply to.
func NewInternalTypeError(node ast.Node, wrapped error) *Diagnostic {
	return newDiag(InternalTypeError, node, wrapped.Error(),
		map[string]interface{}{"wrapped": wrapped.Error()})
}

// List is an ordered collection of diagnostics: first those raised in
// Pass B, in the order their offending constructs were visited (spec.md
// §5: source order, ties broken by subtree pre-order), then those raised
// while resolving types in Pass C.
type List []*Diagnostic

// Render formats the list as either "text" (plain, colour applied by the
// caller — see internal/repl for the coloured variant) or "json"
// (one indented JSON array, deterministic field order).
func (l List) Render(format string) (string, error) {
	switch format {
	case "json":
		return l.renderJSON()
	default:
		return l.renderText(), nil
	}
}

func (l List) renderText() string {
	var b strings.Builder
	for _, d := range l {
		fmt.Fprintf(&b, "%s: %s [%s]\n", d.Node.Position().String(), d.Message, d.Code)
	}
	return b.String()
}

type jsonDiagnostic struct {
	Code     string                 `json:"code"`
	Kind     string                 `json:"kind"`
	Phase    string                 `json:"phase"`
	Severity string                 `json:"severity"`
	Position string                 `json:"position"`
	Message  string                 `json:"message"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func (l List) renderJSON() (string, error) {
	out := make([]jsonDiagnostic, len(l))
	for i, d := range l {
		out[i] = jsonDiagnostic{
			Code:     d.Code,
			Kind:     string(d.Kind),
			Phase:    d.Phase,
			Severity: string(d.Severity),
			Position: d.Node.Position().String(),
			Message:  d.Message,
			Data:     d.Data,
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
