package parser

import (
	"strings"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// parseTypeName parses a path name, a native type or a collection type.
// allowDots enables "." as a package separator; it is only set where a
// type is the whole construct (declarations, formals), because inside
// expressions "." is navigation.
func (p *Parser) parseTypeName(allowDots bool) (*ast.Node, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	switch {
	case p.curTokenIs(lexer.NATIVE):
		return p.parseNativeType()
	case p.cur().Type.IsCollectionKeyword(), p.curTokenIs(lexer.MAP):
		return p.parseCollectionType(allowDots)
	case p.curTokenIs(lexer.NAME):
		return p.parsePathName(allowDots)
	}
	return nil, p.noViable("type name", "identifier", "'Native'", "collection type")
}

// parsePathName parses
//
//	(Metamodel !)? NAME ((:: | .) NAME)* (# Literal)?
//
// into a single leaf whose Text is the whole path. A trailing "#Literal"
// makes it an enumeration value rather than a type.
func (p *Parser) parsePathName(allowDots bool) (*ast.Node, error) {
	first, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Type, first)
	var path strings.Builder
	path.WriteString(first.Literal)

	segment := func(sep lexer.Token) error {
		name, err := p.expect(lexer.NAME)
		if err != nil {
			return err
		}
		b.Extra(sep, name)
		path.WriteString(sep.Literal)
		path.WriteString(name.Literal)
		return nil
	}

	if p.curTokenIs(lexer.BANG) {
		if err := segment(p.nextToken()); err != nil {
			return nil, err
		}
	}
	for p.curTokenIs(lexer.COLONCOLON) || (allowDots && p.curTokenIs(lexer.DOT)) {
		if err := segment(p.nextToken()); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.HASH) {
		if err := segment(p.nextToken()); err != nil {
			return nil, err
		}
		b.Retag(ast.EnumerationValue)
	}
	return b.SetText(path.String()).Build(), nil
}

// parseNativeType parses Native("host.type").
func (p *Parser) parseNativeType() (*ast.Node, error) {
	native, err := p.expect(lexer.NATIVE)
	if err != nil {
		return nil, err
	}
	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return ast.Start(ast.NativeType, native).
		Add(ast.Leaf(ast.String, name)).
		Extra(lp, rp).
		Build(), nil
}

// parseCollectionType parses a collection keyword with optional type
// arguments in either "(T, ...)" or "<T, ...>" form. The angle form is
// speculative because "<" may equally be a comparison.
func (p *Parser) parseCollectionType(allowDots bool) (*ast.Node, error) {
	b := ast.Start(ast.CollectionType, p.nextToken())

	switch {
	case p.curTokenIs(lexer.LPAREN):
		args, extras, err := p.parseTypeArguments(lexer.RPAREN, allowDots)
		if err != nil {
			return nil, err
		}
		b.Add(args...).Extra(extras...)
	case p.curTokenIs(lexer.LT):
		var args []*ast.Node
		var extras []lexer.Token
		ok, err := p.try(func() error {
			var err error
			args, extras, err = p.parseTypeArguments(lexer.GT, allowDots)
			return err
		})
		if err != nil {
			return nil, err
		}
		if ok {
			b.Add(args...).Extra(extras...)
		}
	}
	return b.Build(), nil
}

// parseTypeArguments parses an opener, one or more comma separated type
// names and the closer. It returns the types and the delimiter tokens.
func (p *Parser) parseTypeArguments(closer lexer.TokenType, allowDots bool) ([]*ast.Node, []lexer.Token, error) {
	extras := []lexer.Token{p.nextToken()}
	var args []*ast.Node
	for {
		typ, err := p.parseTypeName(allowDots)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, typ)
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		extras = append(extras, p.nextToken())
	}
	end, err := p.expect(closer)
	if err != nil {
		return nil, nil, err
	}
	return args, append(extras, end), nil
}
