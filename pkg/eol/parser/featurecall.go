package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// parseFeatureCall parses NAME with optional arguments. When the name is
// followed by "(" the lambda-carrying form is tried first; it needs to see
// past an arbitrary number of plain arguments before it can tell.
func (p *Parser) parseFeatureCall() (*ast.Node, error) {
	if p.curTokenIs(lexer.NAME) && p.peekTokenIs(1, lexer.LPAREN) {
		call, err := p.tryNode(p.parseComplexFeatureCall)
		if err != nil {
			return nil, err
		}
		if call != nil {
			return call, nil
		}
	}
	return p.parseSimpleFeatureCall()
}

func (p *Parser) parseSimpleFeatureCall() (*ast.Node, error) {
	name, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.FeatureCall, name)
	if p.curTokenIs(lexer.LPAREN) {
		args, err := p.parseParameters()
		if err != nil {
			return nil, err
		}
		b.Add(args)
	}
	return b.Build(), nil
}

// parseComplexFeatureCall parses
//
//	NAME ( lambda | (arg ,)+ [lambda] ) (, arg | , [lambda])* )
//
// where [lambda] is a lambda in square brackets or parentheses.
func (p *Parser) parseComplexFeatureCall() (*ast.Node, error) {
	name := p.nextToken()
	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	args := ast.StartImaginary(ast.Parameters).Extra(lp)

	lambda, err := p.tryNode(func() (*ast.Node, error) { return p.parseLambda(false) })
	if err != nil {
		return nil, err
	}
	if lambda != nil {
		args.Add(lambda)
	} else {
		// at least one plain argument comes before a bracketed lambda
		for {
			arg, err := p.parseLogical()
			if err != nil {
				return nil, err
			}
			comma, err := p.expect(lexer.COMMA)
			if err != nil {
				return nil, err
			}
			args.Add(arg).Extra(comma)

			lambda, err := p.tryNode(p.parseLambdaInBrackets)
			if err != nil {
				return nil, err
			}
			if lambda != nil {
				args.Add(lambda)
				break
			}
		}
	}

	for p.curTokenIs(lexer.COMMA) {
		args.Extra(p.nextToken())
		arg, err := p.tryNode(p.parseLambdaInBrackets)
		if err != nil {
			return nil, err
		}
		if arg == nil {
			if arg, err = p.parseLogical(); err != nil {
				return nil, err
			}
		}
		args.Add(arg)
	}

	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	args.Extra(rp)
	return ast.Start(ast.FeatureCall, name).Add(args.Build()).Build(), nil
}

// parseParameters parses a parenthesised, comma separated argument list.
// The node is present even when the list is empty so that "f()" and "f"
// stay distinct.
func (p *Parser) parseParameters() (*ast.Node, error) {
	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	b := ast.StartImaginary(ast.Parameters).Extra(lp)
	if !p.curTokenIs(lexer.RPAREN) {
		for {
			arg, err := p.parseLogical()
			if err != nil {
				return nil, err
			}
			b.Add(arg)
			if !p.curTokenIs(lexer.COMMA) {
				break
			}
			b.Extra(p.nextToken())
		}
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return b.Extra(rp).Build(), nil
}

func (p *Parser) parseLambdaInBrackets() (*ast.Node, error) {
	if !p.curTokenIs(lexer.LBRACKET, lexer.LPAREN) {
		return nil, p.noViable("lambda expression", "'['", "'('")
	}
	return p.parseLambda(true)
}

// parseLambda parses "formals? (| or =>) body". When bracketed, the
// opening "[" or "(" is the current token and the matching closer is
// required after the body.
func (p *Parser) parseLambda(bracketed bool) (*ast.Node, error) {
	var open lexer.Token
	if bracketed {
		open = p.nextToken()
	}

	var params *ast.Node
	if p.curTokenIs(lexer.NAME) {
		list, err := p.parseFormalList()
		if err != nil {
			return nil, err
		}
		params = list.Build()
	}

	op, err := p.expect(lexer.PIPE, lexer.FAT_ARROW)
	if err != nil {
		return nil, err
	}
	body, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Lambda, op).Add(params, body)

	if bracketed {
		closer := lexer.RBRACKET
		if open.Type == lexer.LPAREN {
			closer = lexer.RPAREN
		}
		end, err := p.expect(closer)
		if err != nil {
			return nil, err
		}
		b.Extra(open, end)
	}
	return b.Build(), nil
}

// parseFormalList parses "formal (, formal)*" into an unfinished
// ParamList so callers can add their own delimiters.
func (p *Parser) parseFormalList() (*ast.Builder, error) {
	b := ast.StartImaginary(ast.ParamList)
	for {
		f, err := p.parseFormal()
		if err != nil {
			return nil, err
		}
		b.Add(f)
		if !p.curTokenIs(lexer.COMMA) {
			return b, nil
		}
		b.Extra(p.nextToken())
	}
}

// parseFormal parses "NAME (: Type)?".
func (p *Parser) parseFormal() (*ast.Node, error) {
	name, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Formal, name)
	if p.curTokenIs(lexer.COLON) {
		b.Extra(p.nextToken())
		typ, err := p.parseTypeName(true)
		if err != nil {
			return nil, err
		}
		b.Add(typ)
	}
	return b.Build(), nil
}
