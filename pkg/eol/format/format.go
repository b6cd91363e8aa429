package format

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/sambeau/eol/pkg/eol/ast"
)

// Style names an output rendering.
type Style string

const (
	StyleSexpr  Style = "sexpr"
	StyleTree   Style = "tree"
	StyleJSON   Style = "json"
	StyleSource Style = "source"
)

// Styles lists every style in a stable order.
var Styles = []Style{StyleSexpr, StyleTree, StyleJSON, StyleSource}

// ParseStyle returns the style named s.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	names := make([]string, len(Styles))
	for i, st := range Styles {
		names[i] = string(st)
	}
	return "", errors.WithHintf(errors.Newf("unknown output format %q", s),
		"use one of: %s", strings.Join(names, ", "))
}

// Write renders n to w in the given style. gzipped only applies to JSON.
func Write(w io.Writer, n *ast.Node, style Style, gzipped bool) error {
	var out string
	switch style {
	case StyleJSON:
		return WriteJSON(w, n, JSONOptions{Gzip: gzipped, Indent: !gzipped})
	case StyleSexpr:
		out = n.String() + "\n"
	case StyleTree:
		out = Tree(n)
	case StyleSource:
		out = Source(n)
	default:
		return errors.Newf("unknown output format %q", style)
	}
	_, err := io.WriteString(w, out)
	return errors.Wrap(err, "writing output")
}
