package outline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sambeau/eol/pkg/eol/parser"
)

const library = `import "common.eol";
model M alias a driver EMF;
@cached
operation Person fullName() : String { return 'x'; }
$pre n > 0
function fact(n : Integer) : Integer { return 1; }
x := 1;
`

func extract(t *testing.T, file, src string) *Outline {
	t.Helper()
	module, err := parser.ParseModule(src)
	require.NoError(t, err)
	return Extract(file, module)
}

func TestExtract(t *testing.T) {
	o := extract(t, "library_utils.eol", library)

	require.Len(t, o.Imports, 1)
	require.Equal(t, "common.eol", o.Imports[0].Name)

	require.Len(t, o.Models, 1)
	require.Equal(t, Declaration{Kind: KindModel, Name: "M", Context: "EMF", Aliases: []string{"a"}, Line: 2}, o.Models[0])

	require.Len(t, o.Operations, 2)
	full := o.Operations[0]
	require.Equal(t, KindOperation, full.Kind)
	require.Equal(t, "Person", full.Context)
	require.Equal(t, "fullName", full.Name)
	require.Equal(t, "String", full.Returns)
	require.Equal(t, []string{"@cached"}, full.Annotations)
	require.Equal(t, 4, full.Line)

	fact := o.Operations[1]
	require.Equal(t, KindFunction, fact.Kind)
	require.Equal(t, []string{"n : Integer"}, fact.Params)
	require.Equal(t, []string{"$pre"}, fact.Annotations)
	require.Equal(t, 6, fact.Line)

	require.Equal(t, 1, o.Statements)
}

func TestSignature(t *testing.T) {
	tests := []struct {
		decl     Declaration
		expected string
	}{
		{Declaration{Kind: KindOperation, Name: "f"}, "f()"},
		{Declaration{Kind: KindOperation, Context: "Sequence(String)", Name: "f", Params: []string{"a", "b : Real"}}, "Sequence(String).f(a, b : Real)"},
		{Declaration{Kind: KindFunction, Name: "g", Returns: "Boolean"}, "g() : Boolean"},
		{Declaration{Kind: KindModel, Name: "M"}, "M"},
	}
	for i, tt := range tests {
		if got := tt.decl.Signature(); got != tt.expected {
			t.Errorf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestDeclarationsInSourceOrder(t *testing.T) {
	o := extract(t, "", `import "a.eol";
operation f() {}
model M;
operation g() {}
`)
	var names []string
	for _, d := range o.Declarations() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"a.eol", "f", "M", "g"}, names)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		file     string
		expected string
	}{
		{"library_utils.eol", "Library Utils"},
		{"src/user-model.eol", "User Model"},
		{"", "Outline"},
	}
	for i, tt := range tests {
		o := &Outline{File: tt.file}
		if got := o.Title(); got != tt.expected {
			t.Errorf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestMarkdown(t *testing.T) {
	o := extract(t, "library_utils.eol", library)
	expected := "# Library Utils\n" +
		"\n## Imports\n\n" +
		"- `common.eol` (line 1)\n" +
		"\n## Models\n\n" +
		"- **M** alias a driver `EMF` (line 2)\n" +
		"\n## Operations\n\n" +
		"- `Person.fullName() : String` (line 4)\n" +
		"  - `@cached`\n" +
		"- `fact(n : Integer) : Integer` (function) (line 6)\n" +
		"  - `$pre`\n" +
		"\n1 top-level statement.\n"
	require.Equal(t, expected, o.Markdown())
}

func TestMarkdownEmpty(t *testing.T) {
	o := extract(t, "empty.eol", "")
	require.Equal(t, "# Empty\n", o.Markdown())

	o = extract(t, "s.eol", "a(); b();")
	require.True(t, strings.HasSuffix(o.Markdown(), "\n2 top-level statements.\n"))
}

func TestHTML(t *testing.T) {
	o := extract(t, "library_utils.eol", library)
	html, err := o.HTML()
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Library Utils</h1>")
	require.Contains(t, html, "<h2>Operations</h2>")
	require.Contains(t, html, "<code>Person.fullName() : String</code>")
	require.Contains(t, html, "<strong>M</strong>")
}

func TestExtractNonModule(t *testing.T) {
	node, err := parser.ParseExpression("a + b")
	require.NoError(t, err)
	o := Extract("x.eol", node)
	require.Empty(t, o.Declarations())
}
