// Package ast defines the syntax tree produced by the eol parser.
//
// The tree is homogeneous: every construct is a *Node tagged with a Kind.
// Operand order is meaningful. Tokens that belong to the concrete syntax
// but are not children (braces, separators, keywords already implied by
// the kind) are kept in Extra so that source ranges and formatting can be
// rebuilt; nothing that interprets a tree should read them.
package ast

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sambeau/eol/pkg/eol/lexer"
)

// Span is the source range of a node: Start is the first byte of its
// first token and End is just past its last token.
type Span struct {
	Start lexer.Position `json:"start"`
	End   lexer.Position `json:"end"`
}

// Contains reports whether s covers o.
func (s Span) Contains(o Span) bool {
	return s.Start.Offset <= o.Start.Offset && o.End.Offset <= s.End.Offset
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Node is a single syntax tree node.
type Node struct {
	Kind      Kind          `json:"kind"`
	Text      string        `json:"text,omitempty"` // defining lexeme; empty for imaginary nodes
	Imaginary bool          `json:"imaginary,omitempty"`
	Span      Span          `json:"span"`
	Children  []*Node       `json:"children,omitempty"`
	Token     lexer.Token   `json:"-"` // defining token; zero for imaginary nodes
	Extra     []lexer.Token `json:"-"`
}

// Child returns the i'th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// First returns the first child of kind k, or nil.
func (n *Node) First(k Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// All returns the children of kind k.
func (n *Node) All(k Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Line returns the 1-based line the node starts on.
func (n *Node) Line() int {
	return n.Span.Start.Line
}

// Label is the text used for the node in s-expressions: its Text, quoted
// for strings, or the kind name for imaginary nodes.
func (n *Node) Label() string {
	switch {
	case n.Imaginary:
		return n.Kind.String()
	case n.Kind == String:
		return strconv.Quote(n.Text)
	}
	return n.Text
}

// String renders the tree as an s-expression. Leaves print as their
// label; interior and imaginary nodes print as "(label children...)".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	n.writeSexpr(&sb)
	return sb.String()
}

func (n *Node) writeSexpr(sb *strings.Builder) {
	if len(n.Children) == 0 && !n.Imaginary {
		sb.WriteString(n.Label())
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Label())
	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.writeSexpr(sb)
	}
	sb.WriteByte(')')
}

// Equal reports whether two trees have the same shape: kinds, texts,
// imaginary flags and children, recursively. Spans and extra tokens are
// not compared.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Text != b.Text || a.Imaginary != b.Imaginary {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Tokens returns every concrete token of the tree (defining tokens and
// extras) in source order. EOF is omitted.
func (n *Node) Tokens() []lexer.Token {
	var toks []lexer.Token
	Walk(n, func(m *Node) bool {
		if !m.Imaginary {
			toks = append(toks, m.Token)
		}
		for _, t := range m.Extra {
			if t.Type != lexer.EOF {
				toks = append(toks, t)
			}
		}
		return true
	})
	sort.SliceStable(toks, func(i, j int) bool {
		return toks[i].Start.Offset < toks[j].Start.Offset
	})
	return toks
}
