package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sambeau/eol/pkg/eol/lexer"
)

func tokAt(typ lexer.TokenType, lit string, line, col int) lexer.Token {
	return lexer.Token{
		Type:    typ,
		Literal: lit,
		Start:   lexer.Position{Line: line, Column: col},
		End:     lexer.Position{Line: line, Column: col + len(lit)},
	}
}

func TestParseError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "message only",
			err:      &ParseError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name:     "with line and column",
			err:      &ParseError{Message: "unexpected token", Line: 5, Column: 10},
			expected: "line 5, column 10: unexpected token",
		},
		{
			name:     "with file",
			err:      &ParseError{Message: "bad", File: "model.eol", Line: 3, Column: 1},
			expected: "model.eol: line 3, column 1: bad",
		},
		{
			name:     "with hints",
			err:      &ParseError{Message: "bad", Hints: []string{"one", "two"}},
			expected: "bad\n  one\n  two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewMismatched(t *testing.T) {
	err := NewMismatched(tokAt(lexer.RBRACE, "}", 2, 7), lexer.SEMICOLON)

	if err.Code != "PARSE-0001" {
		t.Errorf("Code = %q, want PARSE-0001", err.Code)
	}
	if err.Class != ClassMismatched {
		t.Errorf("Class = %q, want %q", err.Class, ClassMismatched)
	}
	if err.Message != "expected ';', got '}'" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Line != 2 || err.Column != 7 {
		t.Errorf("position = %d:%d, want 2:7", err.Line, err.Column)
	}
	if len(err.Expected) != 1 || err.Expected[0] != "';'" {
		t.Errorf("Expected = %v", err.Expected)
	}
}

func TestNewMismatched_KeywordHint(t *testing.T) {
	err := NewMismatched(tokAt(lexer.NAME, "whlie", 1, 1), lexer.WHILE, lexer.FOR)
	if len(err.Hints) != 1 || err.Hints[0] != "did you mean 'while'?" {
		t.Errorf("Hints = %v", err.Hints)
	}
	if !strings.Contains(err.Message, "'while' or 'for'") {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewNoViable(t *testing.T) {
	err := NewNoViable("statement", tokAt(lexer.RPAREN, ")", 1, 4))
	if err.Class != ClassNoViable {
		t.Errorf("Class = %q", err.Class)
	}
	if err.Message != "no viable alternative at ')' while parsing statement" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewLexical(t *testing.T) {
	tests := []struct {
		tok     lexer.Token
		code    string
		message string
	}{
		{tokAt(lexer.UNTERMINATED, `"abc`, 1, 1), "PARSE-0003", "unterminated string"},
		{tokAt(lexer.UNTERMINATED, "/* abc", 1, 1), "PARSE-0003", "unterminated comment"},
		{tokAt(lexer.ILLEGAL, "?", 1, 1), "PARSE-0004", "illegal character '?'"},
	}
	for _, tt := range tests {
		err := NewLexical(tt.tok)
		if err.Code != tt.code || err.Message != tt.message {
			t.Errorf("NewLexical(%q) = %s %q, want %s %q", tt.tok.Literal, err.Code, err.Message, tt.code, tt.message)
		}
		if err.Class != ClassLexical {
			t.Errorf("Class = %q", err.Class)
		}
	}
}

func TestNewTooDeep(t *testing.T) {
	err := NewTooDeep(tokAt(lexer.LPAREN, "(", 1, 300), 256)
	if err.Message != "expression nested too deeply (limit 256)" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Class != ClassDepth {
		t.Errorf("Class = %q", err.Class)
	}
}

func TestNewMixedCollection(t *testing.T) {
	err := NewMixedCollection(tokAt(lexer.COMMA, ",", 1, 15), "Sequence")
	if err.Code != "PARSE-0006" {
		t.Errorf("Code = %q", err.Code)
	}
	if len(err.Hints) != 1 || err.Hints[0] != "Sequence{a..b} or Sequence{a, b, c}" {
		t.Errorf("Hints = %v", err.Hints)
	}
}

func TestPrettyString(t *testing.T) {
	source := "var x := 1;\nx := (1 + ;\n"
	err := NewNoViable("primary expression", tokAt(lexer.SEMICOLON, ";", 2, 11)).WithFile("a.eol")

	got := err.PrettyString(source)
	for _, want := range []string{
		"Syntax error:",
		"in: a.eol",
		"at: line 2, column 11",
		"    x := (1 + ;\n              ^",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PrettyString() missing %q in:\n%s", want, got)
		}
	}
}

func TestToJSON(t *testing.T) {
	err := NewMismatched(tokAt(lexer.EOF, "", 4, 1), lexer.RPAREN)
	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON() error = %v", jerr)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("invalid JSON: %v", jerr)
	}
	if decoded["code"] != "PARSE-0001" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["found"] != "end of input" {
		t.Errorf("found = %v", decoded["found"])
	}
	if _, ok := decoded["Token"]; ok {
		t.Error("token should not be serialised")
	}
}

func TestWithFile_DoesNotMutate(t *testing.T) {
	orig := &ParseError{Message: "m"}
	withFile := orig.WithFile("x.eol")
	if orig.File != "" {
		t.Error("WithFile modified the receiver")
	}
	if withFile.File != "x.eol" {
		t.Errorf("File = %q", withFile.File)
	}
}

func TestJoinExpected(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "something else"},
		{[]string{"';'"}, "';'"},
		{[]string{"')'", "','"}, "')' or ','"},
		{[]string{"a", "b", "c"}, "one of a, b, c"},
	}
	for _, tt := range tests {
		if got := JoinExpected(tt.in); got != tt.want {
			t.Errorf("JoinExpected(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"while", "whlie", 2},
		{"select", "select", 0},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindClosestMatch(t *testing.T) {
	keywords := lexer.Keywords()
	tests := []struct {
		input string
		want  string
	}{
		{"retrun", "return"},
		{"swtich", "switch"},
		{"transacton", "transaction"},
		{"return", ""}, // exact match gives no suggestion
		{"zzzzzz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FindClosestMatch(tt.input, keywords); got != tt.want {
			t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindTopMatches(t *testing.T) {
	got := FindTopMatches("Sequnce", []string{"Sequence", "Set", "Bag", "Sequences"}, 2)
	if len(got) != 2 || got[0] != "Sequence" || got[1] != "Sequences" {
		t.Errorf("FindTopMatches = %v", got)
	}
}
