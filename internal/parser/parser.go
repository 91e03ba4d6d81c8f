// Package parser implements a hand-written Pratt parser over
// internal/lexer's token stream, grounded on the teacher's own
// prefix/infix parse-function table design.
package parser

import (
	"strconv"

	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
)

const (
	LOWEST int = iota
	ASSIGNMENT
	TERNARY
	LogicalOr
	LogicalAnd
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   ASSIGNMENT,
	lexer.QUESTION: TERNARY,
	lexer.OR:       LogicalOr,
	lexer.AND:      LogicalAnd,
	lexer.EQ:       EQUALS,
	lexer.NEQ:      EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LE:       LESSGREATER,
	lexer.GE:       LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser turns a token stream into a *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over l.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.NUMBER:   p.parseNumber,
		lexer.STRING:   p.parseString,
		lexer.TRUE:     p.parseBool,
		lexer.FALSE:    p.parseBool,
		lexer.NULL:     p.parseNull,
		lexer.IDENT:    p.parseIdentifier,
		lexer.BANG:     p.parseUnary,
		lexer.MINUS:    p.parseUnary,
		lexer.LPAREN:   p.parseParenOrArrow,
		lexer.LBRACKET: p.parseArrayLiteral,
	}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinary,
		lexer.MINUS:    p.parseBinary,
		lexer.STAR:     p.parseBinary,
		lexer.SLASH:    p.parseBinary,
		lexer.PERCENT:  p.parseBinary,
		lexer.EQ:       p.parseBinary,
		lexer.NEQ:      p.parseBinary,
		lexer.LT:       p.parseBinary,
		lexer.GT:       p.parseBinary,
		lexer.LE:       p.parseBinary,
		lexer.GE:       p.parseBinary,
		lexer.AND:      p.parseLogical,
		lexer.OR:       p.parseLogical,
		lexer.LPAREN:   p.parseCall,
		lexer.LBRACKET: p.parseIndex,
		lexer.QUESTION: p.parseConditional,
		lexer.ASSIGN:   p.parseAssignment,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error collected while parsing.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos(tok lexer.Token) ast.Pos {
	return ast.Pos{Line: tok.Line, Column: tok.Column, File: p.file}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType, code, message string) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, newParserError(code, p.pos(p.peekToken), p.peekToken, message, t))
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a *ast.Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.pos(p.curToken)}
	for !p.curIs(lexer.EOF) {
		s := p.parseStatement()
		if s != nil {
			prog.Body = append(prog.Body, s)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errors = append(p.errors, newParserError("PAR001", p.pos(p.curToken), p.curToken,
			"expected an expression"))
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMI) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumber() ast.Expr {
	tok := p.curToken
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, newParserError("PAR002", p.pos(tok), tok, "invalid number literal"))
		return nil
	}
	return &ast.Literal{Kind: ast.NumberLit, Value: val, Pos: p.pos(tok)}
}

func (p *Parser) parseString() ast.Expr {
	tok := p.curToken
	return &ast.Literal{Kind: ast.StringLit, Value: tok.Literal, Pos: p.pos(tok)}
}

func (p *Parser) parseBool() ast.Expr {
	tok := p.curToken
	return &ast.Literal{Kind: ast.BooleanLit, Value: tok.Type == lexer.TRUE, Pos: p.pos(tok)}
}

func (p *Parser) parseNull() ast.Expr {
	tok := p.curToken
	return &ast.Literal{Kind: ast.NullLit, Pos: p.pos(tok)}
}

func (p *Parser) parseIdentifier() ast.Expr {
	tok := p.curToken
	return &ast.Identifier{Name: tok.Literal, Pos: p.pos(tok)}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.curToken
	p.nextToken()
	arg := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Operator: tok.Literal, Argument: arg, Pos: p.pos(tok)}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Operator: tok.Literal, Left: left, Right: right, Pos: p.pos(tok)}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpression{Operator: tok.Literal, Left: left, Right: right, Pos: p.pos(tok)}
}

func (p *Parser) parseConditional(test ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	consequent := p.parseExpression(TERNARY)
	if !p.expectPeek(lexer.COLON, "PAR003", "expected ':' in conditional expression") {
		return nil
	}
	p.nextToken()
	alternate := p.parseExpression(LOWEST)
	return &ast.ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate, Pos: p.pos(tok)}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	tok := p.curToken
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.CallExpression{Callee: callee, Arguments: args, Pos: p.pos(tok)}
}

func (p *Parser) parseIndex(object ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	property := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET, "PAR004", "expected ']' after array index") {
		return nil
	}
	return &ast.MemberExpression{Object: object, Property: property, Pos: p.pos(tok)}
}

func (p *Parser) parseAssignment(target ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.AssignmentExpression{Target: target, Value: value, Pos: p.pos(tok)}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	tok := p.curToken
	elems := p.parseExpressionList(lexer.RBRACKET)
	return &ast.ArrayExpression{Elements: elems, Pos: p.pos(tok)}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expr {
	var list []ast.Expr
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end, "PAR005", "expected closing delimiter in expression list") {
		return list
	}
	return list
}

// parseParenOrArrow disambiguates a parenthesised expression from an
// arrow-function parameter list by attempting the arrow-function parse
// first and falling back to a grouped expression when what follows the
// matching ')' is not '=>'.
func (p *Parser) parseParenOrArrow() ast.Expr {
	startLexer := *p.l
	startCur, startPeek := p.curToken, p.peekToken
	startErrs := len(p.errors)

	if params, ok := p.tryParseArrowParams(); ok {
		return p.finishArrowFunction(params, p.pos(p.curToken))
	}

	*p.l = startLexer
	p.curToken, p.peekToken = startCur, startPeek
	p.errors = p.errors[:startErrs]

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN, "PAR006", "expected ')' to close grouped expression") {
		return expr
	}
	return expr
}

func (p *Parser) tryParseArrowParams() ([]string, bool) {
	var params []string
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
	} else {
		if !p.peekIs(lexer.IDENT) {
			return nil, false
		}
		p.nextToken()
		params = append(params, p.curToken.Literal)
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			if !p.peekIs(lexer.IDENT) {
				return nil, false
			}
			p.nextToken()
			params = append(params, p.curToken.Literal)
		}
		if !p.peekIs(lexer.RPAREN) {
			return nil, false
		}
		p.nextToken()
	}
	if !p.peekIs(lexer.FARROW) {
		return nil, false
	}
	p.nextToken()
	return params, true
}

func (p *Parser) finishArrowFunction(params []string, pos ast.Pos) ast.Expr {
	p.nextToken()
	var body ast.Node
	if p.curIs(lexer.LBRACE) {
		body = p.parseBlockStatement()
	} else {
		body = p.parseExpression(LOWEST)
	}
	return &ast.ArrowFunctionExpression{Params: params, Body: body, Pos: pos}
}
