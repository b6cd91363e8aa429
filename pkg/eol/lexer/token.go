package lexer

import (
	"fmt"
	"sort"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL      TokenType = iota
	UNTERMINATED           // string or block comment missing its terminator
	EOF

	// Identifiers and literals
	NAME       // foo, Bar, π
	INT        // 1343456
	FLOAT      // 3.14159
	STRING     // "foobar" or 'foobar'
	ANNOTATION // @cached, @doc some text

	// Assignment operators
	ASSIGN         // :=
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	TIMES_ASSIGN   // *=
	DIV_ASSIGN     // /=
	SPECIAL_ASSIGN // ::=

	// Relational operators
	EQUALS // =
	EQ     // ==
	NOT_EQ // <>
	LT     // <
	GT     // >
	LTE    // <=
	GTE    // >=

	// Arithmetic operators
	PLUS       // +
	MINUS      // -
	ASTERISK   // *
	SLASH      // /
	PLUSPLUS   // ++
	MINUSMINUS // --

	// Navigation and punctuation
	DOT        // .
	ARROW      // ->
	RANGE      // ..
	COLONCOLON // ::
	BANG       // !
	HASH       // #
	PIPE       // |
	FAT_ARROW  // =>
	DOLLAR     // $
	COMMA      // ,
	SEMICOLON  // ;
	COLON      // :
	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE     // {
	RBRACE     // }

	// Keywords
	MODEL
	ALIAS
	DRIVER
	OPERATION
	FUNCTION
	IMPORT
	FOR
	IN
	IF
	ELSE
	WHILE
	SWITCH
	CASE
	DEFAULT
	RETURN
	THROW
	DELETE
	BREAK
	BREAKALL
	CONTINUE
	ABORT
	TRANSACTION
	VAR
	EXT
	NEW
	NOT
	AND
	OR
	XOR
	IMPLIES
	TRUE
	FALSE
	NATIVE
	COLLECTION
	SEQUENCE
	LIST
	BAG
	SET
	ORDEREDSET
	MAP

	tokenTypeCount
)

var tokenNames = [tokenTypeCount]string{
	ILLEGAL:        "ILLEGAL",
	UNTERMINATED:   "UNTERMINATED",
	EOF:            "EOF",
	NAME:           "NAME",
	INT:            "INT",
	FLOAT:          "FLOAT",
	STRING:         "STRING",
	ANNOTATION:     "ANNOTATION",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	TIMES_ASSIGN:   "TIMES_ASSIGN",
	DIV_ASSIGN:     "DIV_ASSIGN",
	SPECIAL_ASSIGN: "SPECIAL_ASSIGN",
	EQUALS:         "EQUALS",
	EQ:             "EQ",
	NOT_EQ:         "NOT_EQ",
	LT:             "LT",
	GT:             "GT",
	LTE:            "LTE",
	GTE:            "GTE",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	ASTERISK:       "ASTERISK",
	SLASH:          "SLASH",
	PLUSPLUS:       "PLUSPLUS",
	MINUSMINUS:     "MINUSMINUS",
	DOT:            "DOT",
	ARROW:          "ARROW",
	RANGE:          "RANGE",
	COLONCOLON:     "COLONCOLON",
	BANG:           "BANG",
	HASH:           "HASH",
	PIPE:           "PIPE",
	FAT_ARROW:      "FAT_ARROW",
	DOLLAR:         "DOLLAR",
	COMMA:          "COMMA",
	SEMICOLON:      "SEMICOLON",
	COLON:          "COLON",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	MODEL:          "MODEL",
	ALIAS:          "ALIAS",
	DRIVER:         "DRIVER",
	OPERATION:      "OPERATION",
	FUNCTION:       "FUNCTION",
	IMPORT:         "IMPORT",
	FOR:            "FOR",
	IN:             "IN",
	IF:             "IF",
	ELSE:           "ELSE",
	WHILE:          "WHILE",
	SWITCH:         "SWITCH",
	CASE:           "CASE",
	DEFAULT:        "DEFAULT",
	RETURN:         "RETURN",
	THROW:          "THROW",
	DELETE:         "DELETE",
	BREAK:          "BREAK",
	BREAKALL:       "BREAKALL",
	CONTINUE:       "CONTINUE",
	ABORT:          "ABORT",
	TRANSACTION:    "TRANSACTION",
	VAR:            "VAR",
	EXT:            "EXT",
	NEW:            "NEW",
	NOT:            "NOT",
	AND:            "AND",
	OR:             "OR",
	XOR:            "XOR",
	IMPLIES:        "IMPLIES",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NATIVE:         "NATIVE",
	COLLECTION:     "COLLECTION",
	SEQUENCE:       "SEQUENCE",
	LIST:           "LIST",
	BAG:            "BAG",
	SET:            "SET",
	ORDEREDSET:     "ORDEREDSET",
	MAP:            "MAP",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if tt < 0 || tt >= tokenTypeCount {
		return "UNKNOWN"
	}
	return tokenNames[tt]
}

// symbols maps fixed-spelling token types to their source spelling.
var symbols = map[TokenType]string{
	ASSIGN:         ":=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	TIMES_ASSIGN:   "*=",
	DIV_ASSIGN:     "/=",
	SPECIAL_ASSIGN: "::=",
	EQUALS:         "=",
	EQ:             "==",
	NOT_EQ:         "<>",
	LT:             "<",
	GT:             ">",
	LTE:            "<=",
	GTE:            ">=",
	PLUS:           "+",
	MINUS:          "-",
	ASTERISK:       "*",
	SLASH:          "/",
	PLUSPLUS:       "++",
	MINUSMINUS:     "--",
	DOT:            ".",
	ARROW:          "->",
	RANGE:          "..",
	COLONCOLON:     "::",
	BANG:           "!",
	HASH:           "#",
	PIPE:           "|",
	FAT_ARROW:      "=>",
	DOLLAR:         "$",
	COMMA:          ",",
	SEMICOLON:      ";",
	COLON:          ":",
	LPAREN:         "(",
	RPAREN:         ")",
	LBRACKET:       "[",
	RBRACKET:       "]",
	LBRACE:         "{",
	RBRACE:         "}",
}

// Describe returns a human-readable description of the token type for
// error messages: the quoted spelling for keywords and punctuation, a
// class name for everything else.
func (tt TokenType) Describe() string {
	if s, ok := symbols[tt]; ok {
		return "'" + s + "'"
	}
	for word, kw := range keywords {
		if kw == tt {
			return "'" + word + "'"
		}
	}
	switch tt {
	case NAME:
		return "identifier"
	case INT:
		return "integer literal"
	case FLOAT:
		return "float literal"
	case STRING:
		return "string literal"
	case ANNOTATION:
		return "annotation"
	case EOF:
		return "end of input"
	}
	return tt.String()
}

// Symbol returns the source spelling of a punctuation or operator token type.
func (tt TokenType) Symbol() (string, bool) {
	s, ok := symbols[tt]
	return s, ok
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= MODEL && tt < tokenTypeCount
}

// IsCollectionKeyword reports whether tt names one of the six sequential
// collection types.
func (tt TokenType) IsCollectionKeyword() bool {
	switch tt {
	case COLLECTION, SEQUENCE, LIST, BAG, SET, ORDEREDSET:
		return true
	}
	return false
}

// Position is a location in the source text. Offset is a byte offset,
// Line and Column are 1-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Token represents a single token
type Token struct {
	Type    TokenType `json:"type"`
	Literal string    `json:"literal"`
	Start   Position  `json:"start"`
	End     Position  `json:"end"` // just past the last byte of the token
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Start.Line, t.Start.Column)
}

// Keywords map for identifying language keywords
var keywords = map[string]TokenType{
	"model":       MODEL,
	"alias":       ALIAS,
	"driver":      DRIVER,
	"operation":   OPERATION,
	"function":    FUNCTION,
	"import":      IMPORT,
	"for":         FOR,
	"in":          IN,
	"if":          IF,
	"else":        ELSE,
	"while":       WHILE,
	"switch":      SWITCH,
	"case":        CASE,
	"default":     DEFAULT,
	"return":      RETURN,
	"throw":       THROW,
	"delete":      DELETE,
	"break":       BREAK,
	"breakAll":    BREAKALL,
	"continue":    CONTINUE,
	"abort":       ABORT,
	"transaction": TRANSACTION,
	"var":         VAR,
	"ext":         EXT,
	"new":         NEW,
	"not":         NOT,
	"and":         AND,
	"or":          OR,
	"xor":         XOR,
	"implies":     IMPLIES,
	"true":        TRUE,
	"false":       FALSE,
	"Native":      NATIVE,
	"Collection":  COLLECTION,
	"Sequence":    SEQUENCE,
	"List":        LIST,
	"Bag":         BAG,
	"Set":         SET,
	"OrderedSet":  ORDEREDSET,
	"Map":         MAP,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return NAME
}

// Keywords returns every reserved word, for completion and typo hints.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
