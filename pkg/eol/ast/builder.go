package ast

import "github.com/sambeau/eol/pkg/eol/lexer"

// Builder assembles a single node bottom-up. A grammar rule owns its
// builder; the node only becomes visible to other rules through Build,
// which fixes the kind and computes the span.
type Builder struct {
	n *Node
}

// Start begins a node defined by tok. Its Text is the token literal.
func Start(kind Kind, tok lexer.Token) *Builder {
	return &Builder{n: &Node{Kind: kind, Text: tok.Literal, Token: tok}}
}

// StartImaginary begins a node with no defining token. It must receive at
// least one child or extra token before Build so that it has a span.
func StartImaginary(kind Kind) *Builder {
	return &Builder{n: &Node{Kind: kind, Imaginary: true}}
}

// Leaf builds a childless node from tok.
func Leaf(kind Kind, tok lexer.Token) *Node {
	return Start(kind, tok).Build()
}

// Add appends children in order. Nil children are ignored.
func (b *Builder) Add(children ...*Node) *Builder {
	for _, c := range children {
		if c != nil {
			b.n.Children = append(b.n.Children, c)
		}
	}
	return b
}

// Extra records syntax tokens that are not children.
func (b *Builder) Extra(toks ...lexer.Token) *Builder {
	b.n.Extra = append(b.n.Extra, toks...)
	return b
}

// SetText replaces the node text, for nodes whose text spans several
// tokens such as qualified path names. Imaginary nodes keep empty text.
func (b *Builder) SetText(text string) *Builder {
	if !b.n.Imaginary {
		b.n.Text = text
	}
	return b
}

// Retag changes the kind of the node under construction. It is only
// meaningful before Build, inside the rule that started the builder.
func (b *Builder) Retag(kind Kind) *Builder {
	b.n.Kind = kind
	return b
}

// Kind returns the kind the node will be built with.
func (b *Builder) Kind() Kind {
	return b.n.Kind
}

// Len returns the number of children added so far.
func (b *Builder) Len() int {
	return len(b.n.Children)
}

// Build finishes the node. The span is the union of the defining token,
// the extra tokens and the children's spans.
func (b *Builder) Build() *Node {
	n := b.n
	var span Span
	set := false
	widen := func(s Span) {
		if !set {
			span, set = s, true
			return
		}
		if s.Start.Offset < span.Start.Offset {
			span.Start = s.Start
		}
		if s.End.Offset > span.End.Offset {
			span.End = s.End
		}
	}
	if !n.Imaginary {
		widen(Span{Start: n.Token.Start, End: n.Token.End})
	}
	for _, t := range n.Extra {
		widen(Span{Start: t.Start, End: t.End})
	}
	for _, c := range n.Children {
		widen(c.Span)
	}
	n.Span = span
	return n
}
