// Package outline lists the declarations of an eol module: its imports,
// model declarations and operations. An outline renders as Markdown or,
// through goldmark, as HTML.
package outline

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/format"
)

// Declaration kinds.
const (
	KindImport    = "import"
	KindModel     = "model"
	KindOperation = "operation"
	KindFunction  = "function"
)

// Declaration is one entry of an outline.
type Declaration struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Context     string   `json:"context,omitempty"` // operation context type or model driver
	Aliases     []string `json:"aliases,omitempty"`
	Params      []string `json:"params,omitempty"`
	Returns     string   `json:"returns,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
	Line        int      `json:"line"`
}

// Signature renders an operation as "Context.name(params) : Returns"; for
// other kinds it is the name.
func (d Declaration) Signature() string {
	if d.Kind != KindOperation && d.Kind != KindFunction {
		return d.Name
	}
	var sb strings.Builder
	if d.Context != "" {
		sb.WriteString(d.Context)
		sb.WriteByte('.')
	}
	sb.WriteString(d.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(d.Params, ", "))
	sb.WriteByte(')')
	if d.Returns != "" {
		sb.WriteString(" : ")
		sb.WriteString(d.Returns)
	}
	return sb.String()
}

// Outline holds the declarations of one module.
type Outline struct {
	File       string        `json:"file,omitempty"`
	Imports    []Declaration `json:"imports,omitempty"`
	Models     []Declaration `json:"models,omitempty"`
	Operations []Declaration `json:"operations,omitempty"`
	Statements int           `json:"statements"` // top-level statements
}

// Extract builds the outline of a module tree. Nodes other than a module
// give an empty outline.
func Extract(file string, module *ast.Node) *Outline {
	o := &Outline{File: file}
	if module == nil || module.Kind != ast.Module {
		return o
	}
	for _, c := range module.Children {
		switch c.Kind {
		case ast.Import:
			o.Imports = append(o.Imports, Declaration{
				Kind: KindImport,
				Name: c.Child(0).Text,
				Line: c.Line(),
			})
		case ast.Model:
			o.Models = append(o.Models, model(c))
		case ast.Operation:
			o.Operations = append(o.Operations, operation(c))
		default:
			o.Statements++
		}
	}
	return o
}

func model(n *ast.Node) Declaration {
	d := Declaration{Kind: KindModel, Name: n.Child(0).Text, Line: n.Line()}
	if alias := n.First(ast.Alias); alias != nil {
		for _, a := range alias.Children {
			d.Aliases = append(d.Aliases, a.Text)
		}
	}
	if drv := n.First(ast.Driver); drv != nil {
		d.Context = drv.Child(0).Text
	}
	return d
}

func operation(n *ast.Node) Declaration {
	d := Declaration{Kind: n.Text}
	rest := n.Children
	if block := n.First(ast.AnnotationBlock); block != nil {
		for _, a := range block.Children {
			if a.Kind == ast.ExecutableAnnotation {
				d.Annotations = append(d.Annotations, "$"+a.Child(0).Text)
			} else {
				d.Annotations = append(d.Annotations, annotationName(a.Text))
			}
		}
		rest = rest[1:]
	}
	if rest[0].Kind != ast.Name {
		d.Context = format.Source(rest[0])
		rest = rest[1:]
	}
	// the name's line, not the first annotation's
	d.Name, d.Line = rest[0].Text, rest[0].Line()
	for _, f := range rest[1].Children {
		d.Params = append(d.Params, format.Source(f))
	}
	if len(rest) == 4 {
		d.Returns = format.Source(rest[2])
	}
	return d
}

// annotationName returns "@name" from "@name rest of line".
func annotationName(text string) string {
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return text[:i]
	}
	return text
}

// Declarations returns every declaration in source order.
func (o *Outline) Declarations() []Declaration {
	all := make([]Declaration, 0, len(o.Imports)+len(o.Models)+len(o.Operations))
	all = append(all, o.Imports...)
	all = append(all, o.Models...)
	all = append(all, o.Operations...)
	// imports always come first; models and operations may interleave
	rest := all[len(o.Imports):]
	for i := 1; i < len(rest); i++ {
		for j := i; j > 0 && rest[j].Line < rest[j-1].Line; j-- {
			rest[j], rest[j-1] = rest[j-1], rest[j]
		}
	}
	return all
}

// Title derives a heading from the file name: "user-model.eol" becomes
// "User Model".
func (o *Outline) Title() string {
	if o.File == "" {
		return "Outline"
	}
	base := filepath.Base(o.File)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")
	return cases.Title(language.English).String(title)
}

// Markdown renders the outline as a Markdown document.
func (o *Outline) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", o.Title())

	section := func(name string, decls []Declaration, item func(Declaration) string) {
		if len(decls) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", cases.Title(language.English).String(name))
		for _, d := range decls {
			fmt.Fprintf(&sb, "- %s (line %d)\n", item(d), d.Line)
			for _, a := range d.Annotations {
				fmt.Fprintf(&sb, "  - `%s`\n", a)
			}
		}
	}

	section("imports", o.Imports, func(d Declaration) string {
		return "`" + d.Name + "`"
	})
	section("models", o.Models, func(d Declaration) string {
		s := "**" + d.Name + "**"
		if len(d.Aliases) > 0 {
			s += " alias " + strings.Join(d.Aliases, ", ")
		}
		if d.Context != "" {
			s += " driver `" + d.Context + "`"
		}
		return s
	})
	section("operations", o.Operations, func(d Declaration) string {
		s := "`" + d.Signature() + "`"
		if d.Kind == KindFunction {
			s += " (function)"
		}
		return s
	})

	if o.Statements > 0 {
		fmt.Fprintf(&sb, "\n%d top-level statement", o.Statements)
		if o.Statements != 1 {
			sb.WriteByte('s')
		}
		sb.WriteString(".\n")
	}
	return sb.String()
}

// HTML renders the Markdown outline to HTML.
func (o *Outline) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(o.Markdown()), &buf); err != nil {
		return "", errors.Wrap(err, "rendering outline")
	}
	return buf.String(), nil
}
