package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

var assignOps = []lexer.TokenType{
	lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN,
	lexer.TIMES_ASSIGN, lexer.DIV_ASSIGN, lexer.SPECIAL_ASSIGN,
}

// parseStatement dispatches on the leading keyword. Statements without
// one are, in order of preference: an assignment, the feature-set form
// "postfix = value;", and a bare expression statement.
func (p *Parser) parseStatement() (*ast.Node, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.RETURN:
		return p.parseOptionalValueStatement(ast.Return)
	case lexer.THROW:
		return p.parseOptionalValueStatement(ast.Throw)
	case lexer.DELETE:
		return p.parseOptionalValueStatement(ast.Delete)
	case lexer.BREAK:
		return p.parseKeywordStatement(ast.Break)
	case lexer.BREAKALL:
		return p.parseKeywordStatement(ast.BreakAll)
	case lexer.CONTINUE:
		return p.parseKeywordStatement(ast.Continue)
	case lexer.ABORT:
		return p.parseKeywordStatement(ast.Abort)
	case lexer.TRANSACTION:
		return p.parseTransactionStatement()
	}

	stmt, err := p.tryNode(p.parseAssignmentStatement)
	if err != nil || stmt != nil {
		return stmt, err
	}
	stmt, err = p.tryNode(p.parseFeatureSetStatement)
	if err != nil || stmt != nil {
		return stmt, err
	}
	return p.parseExpressionStatement()
}

// parseAssignmentStatement parses "target op value;" for := += -= *= /=
// and ::=. The last is kept apart as a special assignment.
func (p *Parser) parseAssignmentStatement() (*ast.Node, error) {
	target, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	op, err := p.expect(assignOps...)
	if err != nil {
		return nil, err
	}
	kind := ast.Assignment
	if op.Type == lexer.SPECIAL_ASSIGN {
		kind = ast.SpecialAssignment
	}
	value, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return ast.Start(kind, op).Add(target, value).Extra(semi).Build(), nil
}

// parseFeatureSetStatement parses "x.y = value;". Without it the line
// would parse as an equality test used as a statement.
func (p *Parser) parseFeatureSetStatement() (*ast.Node, error) {
	target, err := p.parsePostfix()
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
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return ast.Start(ast.Assignment, eq).Add(target, value).Extra(semi).Build(), nil
}

func (p *Parser) parseExpressionStatement() (*ast.Node, error) {
	expr, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return ast.StartImaginary(ast.ExpressionStatement).Add(expr).Extra(semi).Build(), nil
}

// parseStatementBlock parses "{ statement* }". Tokens in lead belong to
// the enclosing syntax but are recorded on the block.
func (p *Parser) parseStatementBlock(lead ...lexer.Token) (*ast.Node, error) {
	lb, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	b := ast.StartImaginary(ast.Block).Extra(lead...).Extra(lb)
	for !p.curTokenIs(lexer.RBRACE, lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		b.Add(stmt)
	}
	rb, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return b.Extra(rb).Build(), nil
}

// parseStatementOrStatementBlock parses a body. A single statement is
// wrapped in a Block so that every body has the same shape.
func (p *Parser) parseStatementOrStatementBlock() (*ast.Node, error) {
	if p.curTokenIs(lexer.LBRACE) {
		return p.parseStatementBlock()
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.StartImaginary(ast.Block).Add(stmt).Build(), nil
}

// parseCondition parses "( expression )" and returns the expression and
// both parentheses.
func (p *Parser) parseCondition() (*ast.Node, []lexer.Token, error) {
	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, nil, err
	}
	cond, err := p.parseLogical()
	if err != nil {
		return nil, nil, err
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, nil, err
	}
	return cond, []lexer.Token{lp, rp}, nil
}

// for (formal in expression) body
func (p *Parser) parseForStatement() (*ast.Node, error) {
	b := ast.Start(ast.For, p.nextToken())
	lp, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	formal, err := p.parseFormal()
	if err != nil {
		return nil, err
	}
	in, err := p.expect(lexer.IN)
	if err != nil {
		return nil, err
	}
	iterated, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	rp, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatementOrStatementBlock()
	if err != nil {
		return nil, err
	}
	return b.Add(formal, iterated, body).Extra(lp, in, rp).Build(), nil
}

// if (condition) body (else body)?
func (p *Parser) parseIfStatement() (*ast.Node, error) {
	b := ast.Start(ast.If, p.nextToken())
	cond, parens, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatementOrStatementBlock()
	if err != nil {
		return nil, err
	}
	b.Add(cond, body).Extra(parens...)
	if p.curTokenIs(lexer.ELSE) {
		b.Extra(p.nextToken())
		alt, err := p.parseStatementOrStatementBlock()
		if err != nil {
			return nil, err
		}
		b.Add(alt)
	}
	return b.Build(), nil
}

// while (condition) body
func (p *Parser) parseWhileStatement() (*ast.Node, error) {
	b := ast.Start(ast.While, p.nextToken())
	cond, parens, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatementOrStatementBlock()
	if err != nil {
		return nil, err
	}
	return b.Add(cond, body).Extra(parens...).Build(), nil
}

// switch (expression) { (case expression: body)* (default: body)? }
func (p *Parser) parseSwitchStatement() (*ast.Node, error) {
	b := ast.Start(ast.Switch, p.nextToken())
	subject, parens, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	lb, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	b.Add(subject).Extra(parens...).Extra(lb)

	for p.curTokenIs(lexer.CASE) {
		c := ast.Start(ast.Case, p.nextToken())
		value, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		body, err := p.parseCaseBody()
		if err != nil {
			return nil, err
		}
		b.Add(c.Add(value, body).Build())
	}
	if p.curTokenIs(lexer.DEFAULT) {
		d := ast.Start(ast.Default, p.nextToken())
		body, err := p.parseCaseBody()
		if err != nil {
			return nil, err
		}
		b.Add(d.Add(body).Build())
	}

	rb, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return b.Extra(rb).Build(), nil
}

// parseCaseBody parses ": { ... }" or ": statement*" up to the next case,
// default or closing brace. The colon is kept on the Block.
func (p *Parser) parseCaseBody() (*ast.Node, error) {
	colon, err := p.expect(lexer.COLON)
	if err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.LBRACE) {
		return p.parseStatementBlock(colon)
	}
	b := ast.StartImaginary(ast.Block).Extra(colon)
	for !p.curTokenIs(lexer.CASE, lexer.DEFAULT, lexer.RBRACE, lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		b.Add(stmt)
	}
	return b.Build(), nil
}

// return/throw/delete with an optional value.
func (p *Parser) parseOptionalValueStatement(kind ast.Kind) (*ast.Node, error) {
	b := ast.Start(kind, p.nextToken())
	if !p.curTokenIs(lexer.SEMICOLON) {
		value, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		b.Add(value)
	}
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return b.Extra(semi).Build(), nil
}

// break, breakAll, continue and abort.
func (p *Parser) parseKeywordStatement(kind ast.Kind) (*ast.Node, error) {
	b := ast.Start(kind, p.nextToken())
	semi, err := p.expect(lexer.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return b.Extra(semi).Build(), nil
}

// transaction (NAME (, NAME)*)? body
func (p *Parser) parseTransactionStatement() (*ast.Node, error) {
	b := ast.Start(ast.Transaction, p.nextToken())
	if p.curTokenIs(lexer.NAME) {
		for {
			b.Add(ast.Leaf(ast.Name, p.nextToken()))
			if !p.curTokenIs(lexer.COMMA) {
				break
			}
			b.Extra(p.nextToken())
			if !p.curTokenIs(lexer.NAME) {
				return nil, p.mismatched(lexer.NAME)
			}
		}
	}
	body, err := p.parseStatementOrStatementBlock()
	if err != nil {
		return nil, err
	}
	return b.Add(body).Build(), nil
}
