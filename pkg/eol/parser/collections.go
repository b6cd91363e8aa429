package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// parseLiteralCollection parses Sequence{...} and its siblings. The body
// is empty, a range "lo .. hi" or a list; range and list cannot be mixed.
func (p *Parser) parseLiteralCollection() (*ast.Node, error) {
	kw := p.nextToken()
	lb, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Collection, kw).Extra(lb)

	if !p.curTokenIs(lexer.RBRACE) {
		body, err := p.tryNode(p.parseExpressionRangeBody)
		if err != nil {
			return nil, err
		}
		if body == nil {
			if body, err = p.parseExpressionList(); err != nil {
				return nil, err
			}
			if p.curTokenIs(lexer.RANGE) {
				return nil, perrors.NewMixedCollection(p.cur(), kw.Literal)
			}
		}
		b.Add(body)
	}

	rb, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return b.Extra(rb).Build(), nil
}

// parseExpressionRangeBody parses "lo .. hi" and only succeeds when the
// closing brace follows, leaving it unconsumed.
func (p *Parser) parseExpressionRangeBody() (*ast.Node, error) {
	lo, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	dots, err := p.expect(lexer.RANGE)
	if err != nil {
		return nil, err
	}
	hi, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.RBRACE) {
		return nil, p.mismatched(lexer.RBRACE)
	}
	return ast.Start(ast.ExpressionRange, dots).Add(lo, hi).Build(), nil
}

func (p *Parser) parseExpressionList() (*ast.Node, error) {
	b := ast.StartImaginary(ast.ExpressionList)
	for {
		item, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		b.Add(item)
		if !p.curTokenIs(lexer.COMMA) {
			return b.Build(), nil
		}
		b.Extra(p.nextToken())
	}
}

// parseLiteralMap parses Map{key = value, ...}. Keys are additive
// expressions so that "=" separates rather than compares.
func (p *Parser) parseLiteralMap() (*ast.Node, error) {
	kw := p.nextToken()
	lb, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Map, kw).Extra(lb)

	if !p.curTokenIs(lexer.RBRACE) {
		pairs := ast.StartImaginary(ast.KeyValList)
		for {
			key, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			eq, err := p.expect(lexer.EQUALS)
			if err != nil {
				return nil, err
			}
			value, err := p.parseLogical()
			if err != nil {
				return nil, err
			}
			pairs.Add(ast.Start(ast.KeyVal, eq).Add(key, value).Build())
			if !p.curTokenIs(lexer.COMMA) {
				break
			}
			pairs.Extra(p.nextToken())
		}
		b.Add(pairs.Build())
	}

	rb, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return b.Extra(rb).Build(), nil
}
