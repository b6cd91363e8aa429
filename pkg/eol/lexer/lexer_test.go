package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var x : Integer := 5;
x += 1; x -= 2; x *= 3; x /= 4;
a ::= b;
if (x <> 10 and x <= 3 or x >= 2) {
	return x == 10;
}
s->select(e | e.name = "foo");
c->collect(e => e.size()) ++;
Sequence{1..3}[0];
M::T!Model#Lit $ --
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{VAR, "var"},
		{NAME, "x"},
		{COLON, ":"},
		{NAME, "Integer"},
		{ASSIGN, ":="},
		{INT, "5"},
		{SEMICOLON, ";"},
		{NAME, "x"},
		{PLUS_ASSIGN, "+="},
		{INT, "1"},
		{SEMICOLON, ";"},
		{NAME, "x"},
		{MINUS_ASSIGN, "-="},
		{INT, "2"},
		{SEMICOLON, ";"},
		{NAME, "x"},
		{TIMES_ASSIGN, "*="},
		{INT, "3"},
		{SEMICOLON, ";"},
		{NAME, "x"},
		{DIV_ASSIGN, "/="},
		{INT, "4"},
		{SEMICOLON, ";"},
		{NAME, "a"},
		{SPECIAL_ASSIGN, "::="},
		{NAME, "b"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{LPAREN, "("},
		{NAME, "x"},
		{NOT_EQ, "<>"},
		{INT, "10"},
		{AND, "and"},
		{NAME, "x"},
		{LTE, "<="},
		{INT, "3"},
		{OR, "or"},
		{NAME, "x"},
		{GTE, ">="},
		{INT, "2"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{NAME, "x"},
		{EQ, "=="},
		{INT, "10"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{NAME, "s"},
		{ARROW, "->"},
		{NAME, "select"},
		{LPAREN, "("},
		{NAME, "e"},
		{PIPE, "|"},
		{NAME, "e"},
		{DOT, "."},
		{NAME, "name"},
		{EQUALS, "="},
		{STRING, "foo"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{NAME, "c"},
		{ARROW, "->"},
		{NAME, "collect"},
		{LPAREN, "("},
		{NAME, "e"},
		{FAT_ARROW, "=>"},
		{NAME, "e"},
		{DOT, "."},
		{NAME, "size"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{PLUSPLUS, "++"},
		{SEMICOLON, ";"},
		{SEQUENCE, "Sequence"},
		{LBRACE, "{"},
		{INT, "1"},
		{RANGE, ".."},
		{INT, "3"},
		{RBRACE, "}"},
		{LBRACKET, "["},
		{INT, "0"},
		{RBRACKET, "]"},
		{SEMICOLON, ";"},
		{NAME, "M"},
		{COLONCOLON, "::"},
		{NAME, "T"},
		{BANG, "!"},
		{NAME, "Model"},
		{HASH, "#"},
		{NAME, "Lit"},
		{DOLLAR, "$"},
		{MINUSMINUS, "--"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"model", MODEL},
		{"breakAll", BREAKALL},
		{"breakall", NAME},
		{"implies", IMPLIES},
		{"OrderedSet", ORDEREDSET},
		{"Map", MAP},
		{"map", NAME},
		{"Native", NATIVE},
		{"self", NAME},
	}

	for _, tt := range tests {
		if got := LookupIdent(tt.input); got != tt.expected {
			t.Errorf("LookupIdent(%q) wrong. expected=%q, got=%q",
				tt.input, tt.expected, got)
		}
	}
}

func TestNumberTokens(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    TokenType
		expectedLiteral string
	}{
		{"42", INT, "42"},
		{"3.14", FLOAT, "3.14"},
		{"1e10", FLOAT, "1e10"},
		{"2.5E-3", FLOAT, "2.5E-3"},
		{"7e", INT, "7"},
	}

	for i, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestRangeIsNotFloat(t *testing.T) {
	toks := Tokenize("1..3")
	want := []TokenType{INT, RANGE, INT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token %d: expected %s, got %s", i, typ, toks[i].Type)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'single'`, "single"},
		{`"it's"`, "it's"},
		{`'say \'hi\''`, "say 'hi'"},
		{`"a\nb\tc"`, "a\nb\tc"},
		{`"back\\slash"`, `back\slash`},
		{`"\q"`, `\q`},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != STRING {
			t.Fatalf("%s: expected STRING, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestUnterminated(t *testing.T) {
	tests := []string{
		`"never closed`,
		`'never closed`,
		`x /* never closed`,
	}

	for _, input := range tests {
		var tok Token
		l := New(input)
		for tok = l.NextToken(); tok.Type == NAME; tok = l.NextToken() {
		}
		if tok.Type != UNTERMINATED {
			t.Errorf("%q: expected UNTERMINATED, got %s", input, tok.Type)
		}
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
a /* inline */ b // trailing
/* multi
   line */ c`

	toks := Tokenize(input)
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(toks), toks)
	}
	for i, name := range []string{"a", "b", "c"} {
		if toks[i].Type != NAME || toks[i].Literal != name {
			t.Errorf("token %d: expected NAME %q, got %s", i, name, toks[i])
		}
	}
	if toks[2].Start.Line != 4 {
		t.Errorf("expected c on line 4, got %d", toks[2].Start.Line)
	}
}

func TestAnnotation(t *testing.T) {
	toks := Tokenize("@cached  \n@doc some text\noperation")
	if toks[0].Type != ANNOTATION || toks[0].Literal != "@cached" {
		t.Errorf("expected @cached annotation, got %s", toks[0])
	}
	if toks[1].Type != ANNOTATION || toks[1].Literal != "@doc some text" {
		t.Errorf("expected @doc annotation, got %s", toks[1])
	}
	if toks[2].Type != OPERATION {
		t.Errorf("expected operation keyword, got %s", toks[2])
	}
	if toks[0].End.Column != 8 {
		t.Errorf("annotation should end before trailing blanks, got column %d", toks[0].End.Column)
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("a :=\n  b;")
	tests := []struct {
		line, col, endCol, offset int
	}{
		{1, 1, 2, 0},
		{1, 3, 5, 2},
		{2, 3, 4, 7},
		{2, 4, 5, 8},
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Start.Line != tt.line || tok.Start.Column != tt.col {
			t.Errorf("token %d (%q): expected %d:%d, got %s", i, tok.Literal, tt.line, tt.col, tok.Start)
		}
		if tok.End.Column != tt.endCol {
			t.Errorf("token %d (%q): expected end column %d, got %d", i, tok.Literal, tt.endCol, tok.End.Column)
		}
		if tok.Start.Offset != tt.offset {
			t.Errorf("token %d (%q): expected offset %d, got %d", i, tok.Literal, tt.offset, tok.Start.Offset)
		}
	}
}

func TestIllegal(t *testing.T) {
	toks := Tokenize("a ? b")
	if toks[1].Type != ILLEGAL || toks[1].Literal != "?" {
		t.Errorf("expected ILLEGAL '?', got %s", toks[1])
	}
	if toks[2].Type != NAME {
		t.Errorf("lexing should continue after an illegal character, got %s", toks[2])
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		typ      TokenType
		expected string
	}{
		{SEMICOLON, "';'"},
		{SPECIAL_ASSIGN, "'::='"},
		{WHILE, "'while'"},
		{NAME, "identifier"},
		{EOF, "end of input"},
	}
	for _, tt := range tests {
		if got := tt.typ.Describe(); got != tt.expected {
			t.Errorf("%s.Describe() = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"π", "π"},
		{"日本語", "日本語"},
		{"caf\u00e9", "caf\u00e9"},
		// decomposed e + combining acute folds to the composed form
		{"cafe\u0301", "caf\u00e9"},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != NAME {
			t.Fatalf("%q: expected NAME, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}
