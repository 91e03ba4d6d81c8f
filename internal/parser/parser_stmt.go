package parser

import (
	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
)

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.CONST, lexer.LET:
		return p.parseVariableDeclaration()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMI:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	tok := p.curToken
	kind := ast.ConstDecl
	if tok.Type == lexer.LET {
		kind = ast.LetDecl
	}
	if !p.expectPeek(lexer.IDENT, "PAR010", "expected identifier after const/let") {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.ASSIGN, "PAR011", "expected '=' in variable declaration") {
		return nil
	}
	p.nextToken()
	init := p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.VariableDeclaration{
		Kind: ast.Declaration{Name: name, Kind: kind, Init: init},
		Pos:  p.pos(tok),
	}
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT, "PAR012", "expected function name") {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN, "PAR013", "expected '(' after function name") {
		return nil
	}
	params := p.parseParamList()
	if !p.expectPeek(lexer.LBRACE, "PAR014", "expected '{' to start function body") {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.FunctionDeclaration{Name: name, Params: params, Body: body, Pos: p.pos(tok)}
}

func (p *Parser) parseParamList() []string {
	var params []string
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.curToken.Literal)
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.curToken.Literal)
	}
	p.expectPeek(lexer.RPAREN, "PAR015", "expected ')' to close parameter list")
	return params
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.curToken
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
		return &ast.ReturnStatement{Pos: p.pos(tok)}
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.ReturnStatement{Argument: arg, Pos: p.pos(tok)}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.ExpressionStatement{Expression: expr, Pos: p.pos(tok)}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.curToken
	block := &ast.BlockStatement{Pos: p.pos(tok)}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		s := p.parseStatement()
		if s != nil {
			block.Body = append(block.Body, s)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN, "PAR020", "expected '(' after if") {
		return nil
	}
	p.nextToken()
	test := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN, "PAR021", "expected ')' after if condition") {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE, "PAR022", "expected '{' to start if body") {
		return nil
	}
	consequent := p.parseBlockStatement()

	stmt := &ast.IfStatement{Test: test, Consequent: consequent, Pos: p.pos(tok)}
	if p.peekIs(lexer.ELSE) {
		p.nextToken()
		if p.peekIs(lexer.IF) {
			p.nextToken()
			stmt.Alternate = p.parseIfStatement()
		} else if p.expectPeek(lexer.LBRACE, "PAR023", "expected '{' to start else body") {
			stmt.Alternate = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN, "PAR024", "expected '(' after while") {
		return nil
	}
	p.nextToken()
	test := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN, "PAR025", "expected ')' after while condition") {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE, "PAR026", "expected '{' to start while body") {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Test: test, Body: body, Pos: p.pos(tok)}
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN, "PAR027", "expected '(' after for") {
		return nil
	}

	var init *ast.Declaration
	varInit := false
	p.nextToken()
	if p.curIs(lexer.CONST) || p.curIs(lexer.LET) {
		kind := ast.ConstDecl
		if p.curIs(lexer.LET) {
			kind = ast.LetDecl
		}
		if !p.expectPeek(lexer.IDENT, "PAR028", "expected identifier in for-loop init") {
			return nil
		}
		name := p.curToken.Literal
		if !p.expectPeek(lexer.ASSIGN, "PAR029", "expected '=' in for-loop init") {
			return nil
		}
		p.nextToken()
		initExpr := p.parseExpression(LOWEST)
		init = &ast.Declaration{Name: name, Kind: kind, Init: initExpr}
	} else if p.curIs(lexer.IDENT) && p.peekIs(lexer.ASSIGN) {
		name := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		initExpr := p.parseExpression(LOWEST)
		init = &ast.Declaration{Name: name, Kind: ast.LetDecl, Init: initExpr}
		varInit = true
	}
	if !p.expectPeek(lexer.SEMI, "PAR030", "expected ';' after for-loop init") {
		return nil
	}

	p.nextToken()
	var test ast.Expr
	if !p.curIs(lexer.SEMI) {
		test = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.SEMI, "PAR031", "expected ';' after for-loop test") {
			return nil
		}
	}

	p.nextToken()
	var update ast.Expr
	if !p.curIs(lexer.RPAREN) {
		update = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RPAREN, "PAR032", "expected ')' after for-loop update") {
			return nil
		}
	}

	if !p.expectPeek(lexer.LBRACE, "PAR033", "expected '{' to start for body") {
		return nil
	}
	body := p.parseBlockStatement()

	return &ast.ForStatement{Init: init, VarInit: varInit, Test: test, Update: update, Body: body, Pos: p.pos(tok)}
}
