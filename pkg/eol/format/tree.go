package format

import (
	"strings"

	"github.com/sambeau/eol/pkg/eol/ast"
)

// Tree renders n one node per line with children indented by two spaces.
// Each line holds the kind, the label of concrete nodes and the start
// position:
//
//	operator + 1:1
//	  featureCall a 1:1
//	  featureCall b 1:5
func Tree(n *ast.Node) string {
	var sb strings.Builder
	writeTree(&sb, n, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	if !n.Imaginary {
		sb.WriteByte(' ')
		sb.WriteString(n.Label())
	}
	if !n.Span.IsZero() {
		sb.WriteByte(' ')
		sb.WriteString(n.Span.Start.String())
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		writeTree(sb, c, depth+1)
	}
}
