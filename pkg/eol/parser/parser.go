// Package parser turns eol tokens into syntax trees.
//
// The grammar is recursive descent with a fixed precedence chain for
// expressions. Where two alternatives share a prefix that fixed lookahead
// cannot see past, the parser tries one alternative speculatively and
// rewinds if it fails. Speculative failures are never reported; only the
// first error of the alternative that is finally committed to is.
package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// DefaultMaxDepth bounds expression and statement nesting.
const DefaultMaxDepth = 512

// TokenSource supplies tokens in order. It must eventually return an EOF
// token; nothing after the first EOF is read.
type TokenSource interface {
	NextToken() lexer.Token
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithFilename sets the file name recorded on parse errors.
func WithFilename(name string) Option {
	return func(p *Parser) {
		p.filename = name
	}
}

// memoEntry is a cached logical-expression parse starting at some token.
type memoEntry struct {
	node *ast.Node
	end  int
	err  error
}

// Parser holds the buffered token stream and the cursor into it. A Parser
// is not safe for concurrent use, but each entry point starts from a fresh
// cursor so the same Parser can parse its tokens again.
type Parser struct {
	tokens   []lexer.Token
	pos      int
	filename string

	depth    int
	maxDepth int

	memo     map[int]memoEntry
	furthest *perrors.ParseError
}

// New creates a parser reading every token from src up front.
func New(src TokenSource, opts ...Option) *Parser {
	var toks []lexer.Token
	for {
		tok := src.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return NewFromTokens(toks, opts...)
}

// NewFromTokens creates a parser over an already lexed token slice. An EOF
// token is appended if the slice does not end with one.
func NewFromTokens(toks []lexer.Token, opts ...Option) *Parser {
	if n := len(toks); n == 0 || toks[n-1].Type != lexer.EOF {
		var end lexer.Position
		if n > 0 {
			end = toks[n-1].End
		}
		toks = append(toks[:n:n], lexer.Token{Type: lexer.EOF, Start: end, End: end})
	}
	p := &Parser{tokens: toks, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rule names a grammar entry point.
type Rule string

const (
	RuleModule     Rule = "module"
	RuleBlock      Rule = "block"
	RuleStatement  Rule = "statement"
	RuleExpression Rule = "expr"
	RuleModel      Rule = "model"
	RuleImport     Rule = "import"
	RuleOperation  Rule = "operation"
	RuleType       Rule = "type"
)

// Rules lists every entry point in a stable order.
var Rules = []Rule{
	RuleModule, RuleBlock, RuleStatement, RuleExpression,
	RuleModel, RuleImport, RuleOperation, RuleType,
}

// ParseString lexes src and parses it with the given entry rule.
func ParseString(rule Rule, src string, opts ...Option) (*ast.Node, error) {
	return New(lexer.New(src), opts...).Parse(rule)
}

// Parse runs the entry point for rule.
func (p *Parser) Parse(rule Rule) (*ast.Node, error) {
	switch rule {
	case RuleModule:
		return p.ParseModule()
	case RuleBlock:
		return p.ParseStatementBlock()
	case RuleStatement:
		return p.ParseStatement()
	case RuleExpression:
		return p.ParseExpression()
	case RuleModel:
		return p.ParseModelDeclaration()
	case RuleImport:
		return p.ParseImport()
	case RuleOperation:
		return p.ParseOperationDeclaration()
	case RuleType:
		return p.ParseTypeName()
	}
	return nil, perrors.NewNoViable("entry rule "+string(rule), p.tokens[0])
}

// ParseModule parses a whole file: imports, then model declarations,
// operations and statements in any order.
func (p *Parser) ParseModule() (*ast.Node, error) {
	return p.entry(p.parseModule)
}

// ParseStatementBlock parses either one braced block or a run of
// statements up to the end of input.
func (p *Parser) ParseStatementBlock() (*ast.Node, error) {
	return p.entry(func() (*ast.Node, error) {
		if p.curTokenIs(lexer.LBRACE) {
			return p.parseStatementBlock()
		}
		b := ast.StartImaginary(ast.Block)
		for !p.curTokenIs(lexer.EOF) {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			b.Add(stmt)
		}
		if b.Len() == 0 {
			b.Extra(p.cur())
		}
		return b.Build(), nil
	})
}

// ParseStatement parses exactly one statement.
func (p *Parser) ParseStatement() (*ast.Node, error) {
	return p.entry(p.parseStatement)
}

// ParseExpression parses exactly one expression.
func (p *Parser) ParseExpression() (*ast.Node, error) {
	return p.entry(p.parseLogical)
}

// ParseModelDeclaration parses a single model declaration.
func (p *Parser) ParseModelDeclaration() (*ast.Node, error) {
	return p.entry(p.parseModelDeclaration)
}

// ParseImport parses a single import statement.
func (p *Parser) ParseImport() (*ast.Node, error) {
	return p.entry(p.parseImport)
}

// ParseOperationDeclaration parses a single, optionally annotated,
// operation or function.
func (p *Parser) ParseOperationDeclaration() (*ast.Node, error) {
	return p.entry(p.parseAnnotatedOperation)
}

// ParseTypeName parses a type reference as it appears in declarations.
func (p *Parser) ParseTypeName() (*ast.Node, error) {
	return p.entry(func() (*ast.Node, error) {
		return p.parseTypeName(true)
	})
}

// entry resets the cursor, runs rule and requires that it consumed the
// whole input.
func (p *Parser) entry(rule func() (*ast.Node, error)) (*ast.Node, error) {
	p.reset()
	node, err := rule()
	if err == nil && !p.curTokenIs(lexer.EOF) {
		err = p.mismatched(lexer.EOF)
	}
	if err != nil {
		return nil, p.finish(p.preferFurthest(err))
	}
	return node, nil
}

func (p *Parser) reset() {
	p.pos = 0
	p.depth = 0
	p.memo = make(map[int]memoEntry)
	p.furthest = nil
}

func (p *Parser) finish(err error) error {
	if pe, ok := err.(*perrors.ParseError); ok && p.filename != "" {
		return pe.WithFile(p.filename)
	}
	return err
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string, opts ...Option) (*ast.Node, error) {
	return ParseString(RuleExpression, src, opts...)
}

// ParseStatement parses src as a single statement.
func ParseStatement(src string, opts ...Option) (*ast.Node, error) {
	return ParseString(RuleStatement, src, opts...)
}

// ParseStatementBlock parses src as a statement block.
func ParseStatementBlock(src string, opts ...Option) (*ast.Node, error) {
	return ParseString(RuleBlock, src, opts...)
}

// ParseModule parses src as a whole module.
func ParseModule(src string, opts ...Option) (*ast.Node, error) {
	return ParseString(RuleModule, src, opts...)
}
