package lexer

import "testing"

func TestNextTokenBasicProgram(t *testing.T) {
	input := `const x = 5 + "hi" * !y;
function f(a, b) { return a => b; }`

	tests := []struct {
		wantType TokenType
		wantLit  string
	}{
		{CONST, "const"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "5"},
		{PLUS, "+"},
		{STRING, "hi"},
		{STAR, "*"},
		{BANG, "!"},
		{IDENT, "y"},
		{SEMI, ";"},
		{FUNCTION, "function"},
		{IDENT, "f"},
		{LPAREN, "("},
		{IDENT, "a"},
		{COMMA, ","},
		{IDENT, "b"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "a"},
		{FARROW, "=>"},
		{IDENT, "b"},
		{SEMI, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input, "test.src")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("test[%d]: wrong token type, want %v got %v (literal %q)", i, tt.wantType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.wantLit {
			t.Fatalf("test[%d]: wrong literal, want %q got %q", i, tt.wantLit, tok.Literal)
		}
	}
}

func TestNextTokenThreeCharOperators(t *testing.T) {
	l := New(`x === y !== z`, "test.src")
	want := []TokenType{IDENT, EQ, IDENT, NEQ, IDENT, EOF}
	for i, wt := range want {
		if tok := l.NextToken(); tok.Type != wt {
			t.Fatalf("test[%d]: want %v got %v", i, wt, tok.Type)
		}
	}
}

func TestNextTokenLogicalAndComparisonOperators(t *testing.T) {
	l := New(`a && b || c <= d >= e`, "test.src")
	want := []TokenType{IDENT, AND, IDENT, OR, IDENT, LE, IDENT, GE, IDENT, EOF}
	for i, wt := range want {
		if tok := l.NextToken(); tok.Type != wt {
			t.Fatalf("test[%d]: want %v got %v", i, wt, tok.Type)
		}
	}
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	l := New("1 // this is ignored\n2", "test.src")
	first := l.NextToken()
	if first.Type != NUMBER || first.Literal != "1" {
		t.Fatalf("expected NUMBER(1), got %v(%q)", first.Type, first.Literal)
	}
	second := l.NextToken()
	if second.Type != NUMBER || second.Literal != "2" {
		t.Fatalf("expected NUMBER(2), got %v(%q)", second.Type, second.Literal)
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"line\nbreak\ttab\"quote\\slash"`, "test.src")
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %v", tok.Type)
	}
	want := "line\nbreak\ttab\"quote\\slash"
	if tok.Literal != want {
		t.Fatalf("want %q, got %q", want, tok.Literal)
	}
}

func TestNextTokenUnterminatedStringIsIllegal(t *testing.T) {
	l := New(`"never closed`, "test.src")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for an unterminated string, got %v", tok.Type)
	}
}

func TestNextTokenDecimalNumber(t *testing.T) {
	l := New(`3.14`, "test.src")
	tok := l.NextToken()
	if tok.Type != NUMBER || tok.Literal != "3.14" {
		t.Fatalf("expected NUMBER(3.14), got %v(%q)", tok.Type, tok.Literal)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("a\nb", "test.src")
	first := l.NextToken()
	if first.Line != 1 {
		t.Errorf("expected first token on line 1, got %d", first.Line)
	}
	second := l.NextToken()
	if second.Line != 2 {
		t.Errorf("expected second token on line 2, got %d", second.Line)
	}
}

func TestKeywordsAreRecognized(t *testing.T) {
	input := "const let function if else while for return true false null"
	want := []TokenType{CONST, LET, FUNCTION, IF, ELSE, WHILE, FOR, RETURN, TRUE, FALSE, NULL}
	l := New(input, "test.src")
	for i, wt := range want {
		if tok := l.NextToken(); tok.Type != wt {
			t.Fatalf("test[%d]: want %v got %v", i, wt, tok.Type)
		}
	}
}
