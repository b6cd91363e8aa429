package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current character, 0 at end of input
	line         int  // line of the current character
	column       int  // column of the current character
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string {
	return l.filename
}

// Tokenize lexes the whole input. The returned slice always ends with an
// EOF token.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, size := rune(l.input[l.readPosition]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRuneInString(l.input[l.readPosition:])
	}
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the character after the current one without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Column: l.column}
}

// NextToken returns the next token, skipping whitespace and comments.
func (l *Lexer) NextToken() Token {
	if tok, ok := l.skipTrivia(); !ok {
		return tok
	}

	start := l.pos()
	if l.position >= len(l.input) {
		return Token{Type: EOF, Literal: "", Start: start, End: start}
	}

	switch l.ch {
	case ':':
		switch {
		case l.peekChar() == ':':
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				return l.emit(SPECIAL_ASSIGN, start)
			}
			return l.emit(COLONCOLON, start)
		case l.peekChar() == '=':
			l.readChar()
			return l.emit(ASSIGN, start)
		}
		return l.emit(COLON, start)
	case '+':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.emit(PLUS_ASSIGN, start)
		case '+':
			l.readChar()
			return l.emit(PLUSPLUS, start)
		}
		return l.emit(PLUS, start)
	case '-':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.emit(MINUS_ASSIGN, start)
		case '-':
			l.readChar()
			return l.emit(MINUSMINUS, start)
		case '>':
			l.readChar()
			return l.emit(ARROW, start)
		}
		return l.emit(MINUS, start)
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(TIMES_ASSIGN, start)
		}
		return l.emit(ASTERISK, start)
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(DIV_ASSIGN, start)
		}
		return l.emit(SLASH, start)
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.emit(EQ, start)
		case '>':
			l.readChar()
			return l.emit(FAT_ARROW, start)
		}
		return l.emit(EQUALS, start)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.emit(LTE, start)
		case '>':
			l.readChar()
			return l.emit(NOT_EQ, start)
		}
		return l.emit(LT, start)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emit(GTE, start)
		}
		return l.emit(GT, start)
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			return l.emit(RANGE, start)
		}
		return l.emit(DOT, start)
	case '!':
		return l.emit(BANG, start)
	case '#':
		return l.emit(HASH, start)
	case '|':
		return l.emit(PIPE, start)
	case '$':
		return l.emit(DOLLAR, start)
	case ',':
		return l.emit(COMMA, start)
	case ';':
		return l.emit(SEMICOLON, start)
	case '(':
		return l.emit(LPAREN, start)
	case ')':
		return l.emit(RPAREN, start)
	case '[':
		return l.emit(LBRACKET, start)
	case ']':
		return l.emit(RBRACKET, start)
	case '{':
		return l.emit(LBRACE, start)
	case '}':
		return l.emit(RBRACE, start)
	case '"', '\'':
		return l.readString(start)
	case '@':
		return l.readAnnotation(start)
	}

	if isLetterRune(l.ch) {
		ident := l.readIdentifier()
		if !isASCII(ident) {
			ident = norm.NFC.String(ident)
		}
		return Token{Type: LookupIdent(ident), Literal: ident, Start: start, End: l.pos()}
	}
	if isDigit(l.ch) {
		lit, isFloat := l.readNumber()
		typ := INT
		if isFloat {
			typ = FLOAT
		}
		return Token{Type: typ, Literal: lit, Start: start, End: l.pos()}
	}

	ch := l.ch
	l.readChar()
	return Token{Type: ILLEGAL, Literal: string(ch), Start: start, End: l.pos()}
}

// emit consumes the current character and returns a fixed-spelling token
// that started at start.
func (l *Lexer) emit(typ TokenType, start Position) Token {
	l.readChar()
	return Token{Type: typ, Literal: l.input[start.Offset:l.position], Start: start, End: l.pos()}
}

// skipTrivia skips whitespace, line comments and block comments. It
// returns ok=false with an UNTERMINATED token when a block comment runs
// off the end of the input.
func (l *Lexer) skipTrivia() (Token, bool) {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.position < len(l.input) {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.pos()
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.position >= len(l.input) {
					return Token{Type: UNTERMINATED, Literal: l.input[start.Offset:], Start: start, End: l.pos()}, false
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return Token{}, true
		}
	}
}

// readIdentifier reads an identifier or keyword.
// Supports Unicode identifiers (e.g., π, α, 日本語) via isLetterRune.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetterRune(l.ch) || isDigit(l.ch) || unicode.IsMark(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a number (integer or float). A '.' only belongs to the
// number when a digit follows it, so "1..3" lexes as INT RANGE INT.
func (l *Lexer) readNumber() (string, bool) {
	position := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume the '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharN(2))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[position:l.position], isFloat
}

// peekCharN returns the byte n positions after the current character.
func (l *Lexer) peekCharN(n int) rune {
	idx := l.position + n
	if idx >= len(l.input) {
		return 0
	}
	return rune(l.input[idx])
}

// readString reads a single- or double-quoted string literal. The token
// literal is the unescaped value.
func (l *Lexer) readString(start Position) Token {
	quote := l.ch
	var sb strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote {
		if l.position >= len(l.input) {
			return Token{Type: UNTERMINATED, Literal: l.input[start.Offset:], Start: start, End: l.pos()}
		}
		if l.ch == '\\' {
			l.readChar() // consume backslash
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteRune(l.ch)
			default:
				// Unknown escape, keep as-is
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	l.readChar() // closing quote

	return Token{Type: STRING, Literal: sb.String(), Start: start, End: l.pos()}
}

// readAnnotation reads "@name" and the rest of its line.
func (l *Lexer) readAnnotation(start Position) Token {
	for l.ch != '\n' && l.ch != '\r' && l.position < len(l.input) {
		l.readChar()
	}
	lit := strings.TrimRight(l.input[start.Offset:l.position], " \t")
	end := start
	end.Offset += len(lit)
	end.Column += utf8.RuneCountInString(lit)
	return Token{Type: ANNOTATION, Literal: lit, Start: start, End: end}
}

// isLetterRune checks if a rune is a valid identifier start character.
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit checks if the character is a digit
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
