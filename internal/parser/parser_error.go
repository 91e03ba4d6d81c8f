package parser

import (
	"fmt"

	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
)

// ParserError is a structured parse error, in the teacher's PAR###
// taxonomy — every syntax error carries a stable code alongside its
// human-readable message so tooling (and golden tests) can key off it.
type ParserError struct {
	Code     string
	Message  string
	Pos      ast.Pos
	Near     lexer.Token
	Expected []lexer.TokenType
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}

func newParserError(code string, pos ast.Pos, near lexer.Token, message string, expected ...lexer.TokenType) *ParserError {
	return &ParserError{Code: code, Message: message, Pos: pos, Near: near, Expected: expected}
}
