package format

import (
	"strings"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

// Source renders n as canonical eol source. Parsing the result with the
// rule that produced n gives back an equal tree. Comments are not part of
// the tree and are lost; see HasComments.
//
// Canonical form: tab indentation, braces on every body, one statement per
// line, single-quoted strings, and lambdas in square brackets unless they
// are the only argument.
func Source(n *ast.Node) string {
	p := NewPrinter()
	p.source(n)
	return p.String()
}

func (p *Printer) source(n *ast.Node) {
	if n == nil {
		return
	}
	switch {
	case n.Kind == ast.Module:
		p.module(n)
	case n.Kind == ast.Block:
		// a top-level block is a statement run
		for _, stmt := range n.Children {
			p.statement(stmt)
		}
	case n.Kind == ast.Import, n.Kind == ast.Model, n.Kind == ast.Operation:
		p.topLevel(n)
	case n.Kind.IsStatement():
		p.statement(n)
	default:
		p.write(p.expr(n))
	}
}

func (p *Printer) module(n *ast.Node) {
	var prev *ast.Node
	for _, c := range n.Children {
		if prev != nil && needsBlankLine(prev, c) {
			for i := 0; i < BlankLinesBetweenDefs; i++ {
				p.newline()
			}
		}
		p.topLevel(c)
		prev = c
	}
}

// needsBlankLine separates groups of top-level items: imports, models,
// statements, and each operation on its own.
func needsBlankLine(prev, next *ast.Node) bool {
	if prev.Kind == ast.Operation || next.Kind == ast.Operation {
		return true
	}
	return group(prev.Kind) != group(next.Kind)
}

func group(k ast.Kind) int {
	switch k {
	case ast.Import:
		return 0
	case ast.Model:
		return 1
	}
	return 2
}

func (p *Printer) topLevel(n *ast.Node) {
	switch n.Kind {
	case ast.Import:
		p.writeln("import " + quote(n.Child(0).Text, '"') + ";")
	case ast.Model:
		p.writeln(p.model(n))
	case ast.Operation:
		p.operation(n)
	default:
		p.statement(n)
	}
}

func (p *Printer) model(n *ast.Node) string {
	var sb strings.Builder
	sb.WriteString("model ")
	sb.WriteString(n.Child(0).Text)
	for _, c := range n.Children[1:] {
		switch c.Kind {
		case ast.Alias:
			sb.WriteString(" alias ")
			sb.WriteString(joinTexts(c.Children))
		case ast.Driver:
			sb.WriteString(" driver ")
			sb.WriteString(c.Child(0).Text)
		case ast.ModelParams:
			params := make([]string, len(c.Children))
			for i, kv := range c.Children {
				params[i] = kv.Child(0).Text + " = " + quote(kv.Child(1).Text, '"')
			}
			sb.WriteString(" {")
			sb.WriteString(strings.Join(params, ", "))
			sb.WriteString("}")
		}
	}
	sb.WriteString(";")
	return sb.String()
}

// operation children are, in order: annotation block?, context type?,
// name, parameter list, return type?, body.
func (p *Printer) operation(n *ast.Node) {
	rest := n.Children
	if len(rest) > 0 && rest[0].Kind == ast.AnnotationBlock {
		for _, a := range rest[0].Children {
			p.writeIndent()
			if a.Kind == ast.ExecutableAnnotation {
				p.writeln("$" + a.Child(0).Text + " " + p.expr(a.Child(1)))
			} else {
				p.writeln(a.Text)
			}
		}
		rest = rest[1:]
	}

	p.writeIndent()
	p.write(n.Text + " ")
	if rest[0].Kind != ast.Name {
		p.write(p.expr(rest[0]) + " ")
		rest = rest[1:]
	}
	p.write(rest[0].Text + "(" + p.formals(rest[1]) + ")")
	rest = rest[2:]
	if len(rest) == 2 {
		p.write(" : " + p.expr(rest[0]))
		rest = rest[1:]
	}
	p.write(" ")
	p.block(rest[0])
	p.newline()
}

// statement writes one statement on its own line at the current indent.
func (p *Printer) statement(n *ast.Node) {
	p.writeIndent()
	p.statementBody(n)
	p.newline()
}

func (p *Printer) statementBody(n *ast.Node) {
	switch n.Kind {
	case ast.Assignment, ast.SpecialAssignment:
		p.write(p.expr(n.Child(0)) + " " + n.Text + " " + p.expr(n.Child(1)) + ";")
	case ast.ExpressionStatement:
		p.write(p.expr(n.Child(0)) + ";")
	case ast.For:
		p.write("for (" + p.formal(n.Child(0)) + " in " + p.expr(n.Child(1)) + ") ")
		p.block(n.Child(2))
	case ast.If:
		p.write("if (" + p.expr(n.Child(0)) + ") ")
		p.block(n.Child(1))
		if alt := n.Child(2); alt != nil {
			p.write(" else ")
			if len(alt.Children) == 1 && alt.Children[0].Kind == ast.If {
				p.statementBody(alt.Children[0])
			} else {
				p.block(alt)
			}
		}
	case ast.While:
		p.write("while (" + p.expr(n.Child(0)) + ") ")
		p.block(n.Child(1))
	case ast.Switch:
		p.switchStatement(n)
	case ast.Return, ast.Throw, ast.Delete:
		if v := n.Child(0); v != nil {
			p.write(n.Text + " " + p.expr(v) + ";")
		} else {
			p.write(n.Text + ";")
		}
	case ast.Break, ast.BreakAll, ast.Continue, ast.Abort:
		p.write(n.Text + ";")
	case ast.Transaction:
		p.write("transaction ")
		names := n.Children[:len(n.Children)-1]
		if len(names) > 0 {
			p.write(joinTexts(names) + " ")
		}
		p.block(n.Children[len(n.Children)-1])
	default:
		p.write(p.expr(n) + ";")
	}
}

// block writes "{", the statements, and "}" without a final newline.
func (p *Printer) block(n *ast.Node) {
	if len(n.Children) == 0 {
		p.write("{}")
		return
	}
	p.writeln("{")
	p.indentInc()
	for _, stmt := range n.Children {
		p.statement(stmt)
	}
	p.indentDec()
	p.writeIndent()
	p.write("}")
}

func (p *Printer) switchStatement(n *ast.Node) {
	p.writeln("switch (" + p.expr(n.Child(0)) + ") {")
	p.indentInc()
	for _, c := range n.Children[1:] {
		p.writeIndent()
		body := c.Child(0)
		if c.Kind == ast.Case {
			p.write("case " + p.expr(c.Child(0)) + ":")
			body = c.Child(1)
		} else {
			p.write("default:")
		}
		p.newline()
		p.indentInc()
		for _, stmt := range body.Children {
			p.statement(stmt)
		}
		p.indentDec()
	}
	p.indentDec()
	p.writeIndent()
	p.write("}")
}

// expr renders an expression on one line, except for argument lists and
// collection literals that are too long.
func (p *Printer) expr(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.Operator:
		return p.expr(n.Child(0)) + " " + n.Text + " " + p.expr(n.Child(1))
	case ast.UnaryOperator:
		if n.Text == "not" {
			return n.Text + " " + p.expr(n.Child(0))
		}
		return n.Text + p.expr(n.Child(0))
	case ast.ShortcutOperator:
		return p.expr(n.Child(0)) + n.Text
	case ast.Point, ast.Arrow:
		return p.expr(n.Child(0)) + n.Text + p.expr(n.Child(1))
	case ast.ItemSelector:
		return p.expr(n.Child(0)) + "[" + p.expr(n.Child(1)) + "]"
	case ast.FeatureCall:
		return n.Text + p.expr(n.Child(0))
	case ast.Parameters:
		return p.arguments(n)
	case ast.Lambda:
		return p.lambda(n)
	case ast.ExpressionInBrackets:
		return "(" + p.expr(n.Child(0)) + ")"
	case ast.New:
		return "new " + p.expr(n.Child(0)) + p.expr(n.Child(1))
	case ast.Var, ast.Ext:
		return p.variable(n)
	case ast.NativeType:
		return n.Text + "(" + quote(n.Child(0).Text, '\'') + ")"
	case ast.CollectionType:
		if len(n.Children) == 0 {
			return n.Text
		}
		args := make([]string, len(n.Children))
		for i, c := range n.Children {
			args[i] = p.expr(c)
		}
		return n.Text + "(" + strings.Join(args, ", ") + ")"
	case ast.String:
		return quote(n.Text, '\'')
	case ast.Collection:
		return n.Text + p.collectionBody(n.Child(0))
	case ast.Map:
		return n.Text + p.collectionBody(n.Child(0))
	case ast.ExpressionRange:
		return p.expr(n.Child(0)) + ".." + p.expr(n.Child(1))
	case ast.KeyVal:
		return p.expr(n.Child(0)) + " = " + p.expr(n.Child(1))
	case ast.ParamList:
		return p.formals(n)
	case ast.Formal:
		return p.formal(n)
	}
	// names, types, enumeration values and scalar literals
	return n.Text
}

func (p *Printer) collectionBody(body *ast.Node) string {
	switch {
	case body == nil:
		return "{}"
	case body.Kind == ast.ExpressionRange:
		return "{" + p.expr(body) + "}"
	}
	return p.list("{", "}", body.Children, CollectionThreshold, p.expr)
}

// arguments renders a call's argument list. A lambda is written bare in
// first position and in square brackets anywhere after it.
func (p *Printer) arguments(n *ast.Node) string {
	first := true
	return p.list("(", ")", n.Children, ArgsThreshold, func(c *ast.Node) string {
		bare := first
		first = false
		if c.Kind == ast.Lambda && !bare {
			return "[" + p.lambda(c) + "]"
		}
		return p.expr(c)
	})
}

// list renders items between open and close, on one line if that fits
// within threshold and one item per line otherwise.
func (p *Printer) list(open, close string, items []*ast.Node, threshold int, render func(*ast.Node) string) string {
	p.indentInc()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = render(it)
	}
	p.indentDec()

	inline := open + strings.Join(parts, ", ") + close
	if len(items) < 2 || fitsInThreshold(inline, threshold) {
		return inline
	}
	inner := strings.Repeat(IndentString, p.indent+1)
	outer := strings.Repeat(IndentString, p.indent)
	return open + "\n" + inner + strings.Join(parts, ",\n"+inner) + "\n" + outer + close
}

func (p *Printer) lambda(n *ast.Node) string {
	body := n.Child(0)
	var params string
	if body.Kind == ast.ParamList {
		params = p.formals(body) + " "
		body = n.Child(1)
	}
	return params + n.Text + " " + p.expr(body)
}

func (p *Printer) formals(n *ast.Node) string {
	parts := make([]string, len(n.Children))
	for i, f := range n.Children {
		parts[i] = p.formal(f)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) formal(n *ast.Node) string {
	if typ := n.Child(0); typ != nil {
		return n.Text + " : " + p.expr(typ)
	}
	return n.Text
}

// variable renders "var x", "var x : T(args)" or "var x : new T(args)".
func (p *Printer) variable(n *ast.Node) string {
	s := n.Text + " " + n.Child(0).Text
	if typ := n.Child(1); typ != nil {
		s += " : " + p.expr(typ) + p.expr(n.Child(2))
	}
	return s
}

func joinTexts(nodes []*ast.Node) string {
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.Text
	}
	return strings.Join(texts, ", ")
}

// quote writes s as an eol string literal delimited by q.
func quote(s string, q rune) string {
	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case q:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}

// HasComments reports whether src contains anything between its tokens
// other than whitespace. Such text is dropped by Source.
func HasComments(src string) bool {
	prev := 0
	for _, tok := range lexer.Tokenize(src) {
		if strings.TrimSpace(src[prev:tok.Start.Offset]) != "" {
			return true
		}
		prev = tok.End.Offset
	}
	return false
}
