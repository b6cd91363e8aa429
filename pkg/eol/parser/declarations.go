package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// parseModule parses imports followed by model declarations, operations
// and statements in any order. The EOF token is kept on the module so
// that an empty file still has a span.
func (p *Parser) parseModule() (*ast.Node, error) {
	b := ast.StartImaginary(ast.Module)
	for p.curTokenIs(lexer.IMPORT) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		b.Add(imp)
	}
	for !p.curTokenIs(lexer.EOF) {
		var (
			node *ast.Node
			err  error
		)
		switch p.cur().Type {
		case lexer.MODEL:
			node, err = p.parseModelDeclaration()
		case lexer.ANNOTATION, lexer.DOLLAR, lexer.OPERATION, lexer.FUNCTION:
			node, err = p.parseAnnotatedOperation()
		default:
			node, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		b.Add(node)
	}
	return b.Extra(p.cur()).Build(), nil
}

// import "path";
func (p *Parser) parseImport() (*ast.Node, error) {
	kw, err := p.expect(lexer.IMPORT)
	if err != nil {
		return nil, err
	}
	path, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return ast.Start(ast.Import, kw).Add(ast.Leaf(ast.String, path)).Extra(semi).Build(), nil
}

// parseModelDeclaration parses
//
//	model NAME (alias NAME (, NAME)*)? (driver NAME)? ({ NAME = "v" (, ...)* })? ;
func (p *Parser) parseModelDeclaration() (*ast.Node, error) {
	kw, err := p.expect(lexer.MODEL)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Model, kw).Add(ast.Leaf(ast.Name, name))

	if p.curTokenIs(lexer.ALIAS) {
		alias, err := p.parseModelAlias()
		if err != nil {
			return nil, err
		}
		b.Add(alias)
	}
	if p.curTokenIs(lexer.DRIVER) {
		drv := ast.Start(ast.Driver, p.nextToken())
		driverName, err := p.expect(lexer.NAME)
		if err != nil {
			return nil, err
		}
		b.Add(drv.Add(ast.Leaf(ast.Name, driverName)).Build())
	}
	if p.curTokenIs(lexer.LBRACE) {
		params, err := p.parseModelParameters()
		if err != nil {
			return nil, err
		}
		b.Add(params)
	}

	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return b.Extra(semi).Build(), nil
}

// parseModelAlias parses "alias a, b". The node is started under a
// provisional kind and only becomes an Alias once the whole name list has
// been read.
func (p *Parser) parseModelAlias() (*ast.Node, error) {
	b := ast.Start(ast.Name, p.nextToken())
	for {
		name, err := p.expect(lexer.NAME)
		if err != nil {
			return nil, err
		}
		b.Add(ast.Leaf(ast.Name, name))
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		b.Extra(p.nextToken())
	}
	return b.Retag(ast.Alias).Build(), nil
}

func (p *Parser) parseModelParameters() (*ast.Node, error) {
	b := ast.StartImaginary(ast.ModelParams).Extra(p.nextToken())
	if !p.curTokenIs(lexer.RBRACE) {
		for {
			key, err := p.expect(lexer.NAME)
			if err != nil {
				return nil, err
			}
			eq, err := p.expect(lexer.EQUALS)
			if err != nil {
				return nil, err
			}
			value, err := p.expect(lexer.STRING)
			if err != nil {
				return nil, err
			}
			b.Add(ast.Start(ast.ModelParam, eq).
				Add(ast.Leaf(ast.Name, key), ast.Leaf(ast.String, value)).
				Build())
			if !p.curTokenIs(lexer.COMMA) {
				break
			}
			b.Extra(p.nextToken())
		}
	}
	rb, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return b.Extra(rb).Build(), nil
}

// parseAnnotatedOperation parses annotations followed by an operation.
func (p *Parser) parseAnnotatedOperation() (*ast.Node, error) {
	var annotations *ast.Node
	if p.curTokenIs(lexer.ANNOTATION, lexer.DOLLAR) {
		block, err := p.parseAnnotationBlock()
		if err != nil {
			return nil, err
		}
		annotations = block
	}
	return p.parseOperationDeclaration(annotations)
}

// parseAnnotationBlock parses "@name text" lines and "$name expression"
// executable annotations.
func (p *Parser) parseAnnotationBlock() (*ast.Node, error) {
	b := ast.StartImaginary(ast.AnnotationBlock)
	for p.curTokenIs(lexer.ANNOTATION, lexer.DOLLAR) {
		if p.curTokenIs(lexer.ANNOTATION) {
			b.Add(ast.Leaf(ast.Annotation, p.nextToken()))
			continue
		}
		dollar := p.nextToken()
		name, err := p.expect(lexer.NAME)
		if err != nil {
			return nil, err
		}
		value, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		b.Add(ast.Start(ast.ExecutableAnnotation, dollar).
			Add(ast.Leaf(ast.Name, name), value).
			Build())
	}
	return b.Build(), nil
}

// parseOperationDeclaration parses
//
//	(operation | function) Context? NAME ( formals? ) (: Type)? { ... }
//
// The context type is present unless the keyword is directly followed by
// "NAME (".
func (p *Parser) parseOperationDeclaration(annotations *ast.Node) (*ast.Node, error) {
	kw, err := p.expect(lexer.OPERATION, lexer.FUNCTION)
	if err != nil {
		return nil, err
	}
	b := ast.Start(ast.Operation, kw).Add(annotations)

	if !(p.curTokenIs(lexer.NAME) && p.peekTokenIs(1, lexer.LPAREN)) {
		context, err := p.parseTypeName(true)
		if err != nil {
			return nil, err
		}
		b.Add(context)
	}

	name, err := p.expect(lexer.NAME)
	if err != nil {
		return nil, err
	}
	b.Add(ast.Leaf(ast.Name, name))

	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	params := ast.StartImaginary(ast.ParamList)
	if p.curTokenIs(lexer.NAME) {
		if params, err = p.parseFormalList(); err != nil {
			return nil, err
		}
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	b.Add(params.Extra(lp, rp).Build())

	if p.curTokenIs(lexer.COLON) {
		b.Extra(p.nextToken())
		ret, err := p.parseTypeName(true)
		if err != nil {
			return nil, err
		}
		b.Add(ret)
	}

	body, err := p.parseStatementBlock()
	if err != nil {
		return nil, err
	}
	return b.Add(body).Build(), nil
}
