package parser

import (
	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// cur returns the current token without consuming it.
func (p *Parser) cur() lexer.Token {
	return p.peek(0)
}

// peek returns the token k positions ahead of the cursor. Reading past the
// end yields the final EOF token.
func (p *Parser) peek(k int) lexer.Token {
	i := p.pos + k
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) curTokenIs(types ...lexer.TokenType) bool {
	t := p.cur().Type
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

func (p *Parser) peekTokenIs(k int, t lexer.TokenType) bool {
	return p.peek(k).Type == t
}

// nextToken consumes and returns the current token. The cursor never moves
// past EOF.
func (p *Parser) nextToken() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it has one of the given types and
// reports a mismatched-token error otherwise.
func (p *Parser) expect(types ...lexer.TokenType) (lexer.Token, error) {
	if p.curTokenIs(types...) {
		return p.nextToken(), nil
	}
	return lexer.Token{}, p.mismatched(types...)
}

func (p *Parser) mismatched(types ...lexer.TokenType) error {
	tok := p.cur()
	if isLexicalError(tok) {
		return perrors.NewLexical(tok)
	}
	return perrors.NewMismatched(tok, types...)
}

// noViable reports that the current token starts no alternative of rule.
func (p *Parser) noViable(rule string, expected ...string) error {
	tok := p.cur()
	if isLexicalError(tok) {
		return perrors.NewLexical(tok)
	}
	return perrors.NewNoViable(rule, tok, expected...)
}

func isLexicalError(tok lexer.Token) bool {
	return tok.Type == lexer.ILLEGAL || tok.Type == lexer.UNTERMINATED
}

// mark returns the cursor position for a later rewind.
func (p *Parser) mark() int {
	return p.pos
}

func (p *Parser) rewind(m int) {
	p.pos = m
}

// enter guards recursion depth. Every call must be paired with a deferred
// leave, whether or not it returns an error.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return perrors.NewTooDeep(p.cur(), p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
