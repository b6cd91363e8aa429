package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// Expression levels, lowest precedence first:
//
//	logical        or and xor implies   flat left chain
//	relational     == =                 right operand is another relational
//	               < > <= >= <>         left chain
//	additive       + -                  left chain
//	multiplicative * /                  left chain
//	unary          not -                at most one prefix
//	shortcut       ++ --                at most one suffix
//	postfix        . ->  feature call, then [index]*
//	item selector  primitive [index]*
//	primitive

// parseLogical is the entry to the expression grammar. Results are
// memoised by start token so that speculative alternatives which re-parse
// the same argument do not multiply work.
func (p *Parser) parseLogical() (*ast.Node, error) {
	start := p.pos
	if m, ok := p.memo[start]; ok {
		p.pos = m.end
		return m.node, m.err
	}

	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	node, err := p.parseLogicalChain()
	if !isFatal(err) {
		p.memo[start] = memoEntry{node: node, end: p.pos, err: err}
	}
	return node, err
}

// The four logical operators share one level: "a or b and c" is
// ((a or b) and c).
func (p *Parser) parseLogicalChain() (*ast.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.OR, lexer.AND, lexer.XOR, lexer.IMPLIES) {
		op := p.nextToken()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseRelational() (*ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var right *ast.Node
		switch {
		case p.curTokenIs(lexer.EQ, lexer.EQUALS):
			op := p.nextToken()
			if right, err = p.parseNestedRelational(); err != nil {
				return nil, err
			}
			left = binary(op, left, right)
		case p.curTokenIs(lexer.LT, lexer.GT, lexer.LTE, lexer.GTE, lexer.NOT_EQ):
			op := p.nextToken()
			if right, err = p.parseAdditive(); err != nil {
				return nil, err
			}
			left = binary(op, left, right)
		default:
			return left, nil
		}
	}
}

// parseNestedRelational is the right operand of "=" and "==". Each
// equality nests one level, so long chains count against the depth limit.
func (p *Parser) parseNestedRelational() (*ast.Node, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}
	return p.parseRelational()
}

func (p *Parser) parseAdditive() (*ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.PLUS, lexer.MINUS) {
		op := p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.ASTERISK, lexer.SLASH) {
		op := p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	if !p.curTokenIs(lexer.NOT, lexer.MINUS) {
		return p.parseShortcut()
	}
	op := p.nextToken()
	operand, err := p.parseShortcut()
	if err != nil {
		return nil, err
	}
	return ast.Start(ast.UnaryOperator, op).Add(operand).Build(), nil
}

func (p *Parser) parseShortcut() (*ast.Node, error) {
	operand, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.PLUSPLUS, lexer.MINUSMINUS) {
		return operand, nil
	}
	op := p.nextToken()
	return ast.Start(ast.ShortcutOperator, op).Add(operand).Build(), nil
}

// parsePostfix applies navigation: each "." or "->" becomes the root over
// the expression so far and the feature call on its right.
func (p *Parser) parsePostfix() (*ast.Node, error) {
	expr, err := p.parseItemSelector()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.DOT, lexer.ARROW) {
		op := p.nextToken()
		kind := ast.Point
		if op.Type == lexer.ARROW {
			kind = ast.Arrow
		}
		call, err := p.parseFeatureCall()
		if err != nil {
			return nil, err
		}
		expr = ast.Start(kind, op).Add(expr, call).Build()
		if expr, err = p.parseIndexes(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) parseItemSelector() (*ast.Node, error) {
	expr, err := p.parsePrimitive()
	if err != nil {
		return nil, err
	}
	return p.parseIndexes(expr)
}

// parseIndexes applies zero or more "[index]" selectors to target.
func (p *Parser) parseIndexes(target *ast.Node) (*ast.Node, error) {
	for p.curTokenIs(lexer.LBRACKET) {
		lb := p.nextToken()
		index, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		rb, err := p.expect(lexer.RBRACKET)
		if err != nil {
			return nil, err
		}
		target = ast.Start(ast.ItemSelector, lb).Add(target, index).Extra(rb).Build()
	}
	return target, nil
}

func binary(op lexer.Token, left, right *ast.Node) *ast.Node {
	return ast.Start(ast.Operator, op).Add(left, right).Build()
}

var primitiveExpected = []string{
	"literal", "identifier", "'('", "'new'", "'var'", "'ext'", "'Native'", "collection type",
}

func (p *Parser) parsePrimitive() (*ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.STRING:
		return ast.Leaf(ast.String, p.nextToken()), nil
	case lexer.INT:
		return ast.Leaf(ast.Int, p.nextToken()), nil
	case lexer.FLOAT:
		return ast.Leaf(ast.Float, p.nextToken()), nil
	case lexer.TRUE, lexer.FALSE:
		return ast.Leaf(ast.Boolean, p.nextToken()), nil
	case lexer.COLLECTION, lexer.SEQUENCE, lexer.LIST, lexer.BAG, lexer.SET, lexer.ORDEREDSET:
		if p.peekTokenIs(1, lexer.LBRACE) {
			return p.parseLiteralCollection()
		}
		return p.parseCollectionType(false)
	case lexer.MAP:
		if p.peekTokenIs(1, lexer.LBRACE) {
			return p.parseLiteralMap()
		}
		return p.parseCollectionType(false)
	case lexer.NATIVE:
		return p.parseNativeType()
	case lexer.LPAREN:
		return p.parseExpressionInBrackets()
	case lexer.NEW:
		return p.parseNewExpression()
	case lexer.VAR, lexer.EXT:
		return p.parseVariableDeclaration()
	case lexer.NAME:
		switch p.peek(1).Type {
		case lexer.BANG, lexer.COLONCOLON, lexer.HASH:
			return p.parsePathName(false)
		}
		return p.parseFeatureCall()
	}
	return nil, p.noViable("primary expression", primitiveExpected...)
}

func (p *Parser) parseExpressionInBrackets() (*ast.Node, error) {
	lp := p.nextToken()
	expr, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return ast.StartImaginary(ast.ExpressionInBrackets).Add(expr).Extra(lp, rp).Build(), nil
}

// parseNewExpression parses "new Type" with optional constructor
// arguments.
func (p *Parser) parseNewExpression() (*ast.Node, error) {
	b := ast.Start(ast.New, p.nextToken())
	typ, err := p.parseTypeName(false)
	if err != nil {
		return nil, err
	}
	b.Add(typ)
	if p.curTokenIs(lexer.LPAREN) {
		args, err := p.parseParameters()
		if err != nil {
			return nil, err
		}
		b.Add(args)
	}
	return b.Build(), nil
}

// parseVariableDeclaration parses "var NAME" or "ext NAME" with an
// optional ": [new] Type (args)" suffix. The suffix is attempted
// speculatively; if it does not parse the bare declaration stands.
func (p *Parser) parseVariableDeclaration() (*ast.Node, error) {
	kw := p.nextToken()
	kind := ast.Var
	if kw.Type == lexer.EXT {
		kind = ast.Ext
	}
	name, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b := ast.Start(kind, kw).Add(ast.Leaf(ast.Name, name))
	if !p.curTokenIs(lexer.COLON) {
		return b.Build(), nil
	}

	var colon lexer.Token
	var typed []*ast.Node
	ok, err := p.try(func() error {
		colon = p.nextToken()
		typed = typed[:0]
		if p.curTokenIs(lexer.NEW) {
			n, err := p.parseNewExpression()
			if err != nil {
				return err
			}
			typed = append(typed, n)
			return nil
		}
		typ, err := p.parseTypeName(true)
		if err != nil {
			return err
		}
		typed = append(typed, typ)
		if p.curTokenIs(lexer.LPAREN) {
			args, err := p.parseParameters()
			if err != nil {
				return err
			}
			typed = append(typed, args)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ok {
		b.Extra(colon).Add(typed...)
	}
	return b.Build(), nil
}
