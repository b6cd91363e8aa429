package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/parser"
)

func TestSourceModule(t *testing.T) {
	input := `import "a.eol";
model M driver EMF;
var total := 0;
for (p in M!Person.all()) { if (p.age > 18) total += 1; else { continue; } }
@cached
operation Person label() : String { return self.name + ' (' + self.age + ')'; }
`
	expected := `import "a.eol";

model M driver EMF;

var total := 0;
for (p in M!Person.all()) {
	if (p.age > 18) {
		total += 1;
	} else {
		continue;
	}
}

@cached
operation Person label() : String {
	return self.name + ' (' + self.age + ')';
}
`
	node, err := parser.ParseModule(input)
	require.NoError(t, err)
	got := Source(node)
	if got != expected {
		t.Errorf("source wrong.\nexpected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestSourceExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a+b*c", "a + b * c"},
		{"not  a", "not a"},
		{"- a", "-a"},
		{"a ++", "a++"},
		{"x . y -> z ( )", "x.y->z()"},
		{"xs->select( x|x>1 )", "xs->select(x | x > 1)"},
		{"xs->sortBy(a, (x | x))", "xs->sortBy(a, [x | x])"},
		{"xs->fold(acc | acc, 0, (y | y))", "xs->fold(acc | acc, 0, [y | y])"},
		{"Sequence{ 1 .. 3 }", "Sequence{1..3}"},
		{"Map{ 'a'=1 }", "Map{'a' = 1}"},
		{`"it's"`, `'it\'s'`},
		{`'tab\there'`, `'tab\there'`},
		{"var x:new Person( 1 )", "var x : new Person(1)"},
		{"var x : Sequence( String )", "var x : Sequence(String)"},
		{"Native( \"a.B\" )", "Native('a.B')"},
		{"( a )", "(a)"},
		{"a[ 0 ]", "a[0]"},
	}

	for i, tt := range tests {
		node, err := parser.ParseExpression(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - %q: unexpected error: %v", i, tt.input, err)
		}
		if got := Source(node); got != tt.expected {
			t.Errorf("tests[%d] - %q: expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestSourceStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x:=1;", "x := 1;\n"},
		{"return;", "return;\n"},
		{"while(a)b();", "while (a) {\n\tb();\n}\n"},
		{"if (a) {} else if (b) {} else {}", "if (a) {} else if (b) {} else {}\n"},
		{"transaction a,b {}", "transaction a, b {}\n"},
		{
			"switch (x) { case 1: { y(); } default: }",
			"switch (x) {\n\tcase 1:\n\t\ty();\n\tdefault:\n}\n",
		},
	}

	for i, tt := range tests {
		node, err := parser.ParseStatement(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - %q: unexpected error: %v", i, tt.input, err)
		}
		if got := Source(node); got != tt.expected {
			t.Errorf("tests[%d] - %q: expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestSourceBreaksLongLists(t *testing.T) {
	input := "x := Sequence{'alpha', 'beta', 'gamma', 'delta', 'epsilon', 'zeta', 'eta'};"
	expected := "x := Sequence{\n\t'alpha',\n\t'beta',\n\t'gamma',\n\t'delta',\n\t'epsilon',\n\t'zeta',\n\t'eta'\n};\n"

	node, err := parser.ParseStatement(input)
	require.NoError(t, err)
	require.Equal(t, expected, Source(node))

	short, err := parser.ParseStatement("x := Sequence{'alpha', 'beta'};")
	require.NoError(t, err)
	require.Equal(t, "x := Sequence{'alpha', 'beta'};\n", Source(short))
}

// Formatting then reparsing must give back the same tree.
func TestSourceRoundTrip(t *testing.T) {
	modules := []string{
		"",
		`import "a.eol"; import 'b.eol';`,
		`model Source alias S, Src driver EMF {nsuri = "http://x", file = 'a\b.xmi'};`,
		"var x : Integer := 0; x ::= y; x.y = z; a + b = c;",
		"for (i : Integer in Sequence{1..10}) { if (i > 5) breakAll; else if (i = 2) continue; }",
		"while (not done) { done := step()->isEmpty(); }",
		"switch (c) { case 'a': case 'b': x(); y(); default: { z(); } }",
		"transaction M, N { delete M!Thing.all().first(); }",
		"throw 'bad\\n' + \"quote'd\";",
		"s.sortBy(a, b, [x | x.key], (y, z : Real | y <> z))->fold(0, [acc | acc + 1]);",
		"s.mapBy(k | k.name, [v | v.size()]);",
		"xs->select(x : M!Node::Tree | x.children->exists(c | c.isKindOf(Map(String, Sequence))));",
		"var m := Map{1 + 1 = 'two', 'k' = Set{}};",
		"var n : Native('java.util.ArrayList')(); var o : new Native('java.io.File')('p');",
		"Color#red.name.println();",
		"a[0][b.c] := -d++ * (e - -f);",
		`@cached
@doc Returns the label
$pre self.name.isDefined()
operation M!Person label(prefix : String, n) : Sequence(String) {
	return Sequence{prefix + self.name};
}
function helper() { return; }
ext e : Bag;`,
		"x := f(Sequence{'alpha', 'beta', 'gamma', 'delta', 'epsilon', 'zeta', 'eta'}, Map{'alpha' = Sequence{'beta', 'gamma', 'delta', 'epsilon', 'zeta', 'eta', 'theta'}}, 'last argument');",
	}

	for i, src := range modules {
		first, err := parser.ParseModule(src)
		if err != nil {
			t.Fatalf("modules[%d]: unexpected error: %v", i, err)
		}
		out := Source(first)
		second, err := parser.ParseModule(out)
		if err != nil {
			t.Fatalf("modules[%d]: formatted source does not parse: %v\n%s", i, err, out)
		}
		if !ast.Equal(first, second) {
			t.Fatalf("modules[%d]: trees differ after formatting:\n%s\n%s",
				i, out, strings.Join(pretty.Diff(first.String(), second.String()), "\n"))
		}
		if again := Source(second); again != out {
			t.Errorf("modules[%d]: formatting is not stable:\n%s\n---\n%s", i, out, again)
		}
	}
}

func TestHasComments(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"x := 1;", false},
		{"x := '// not a comment';", false},
		{"  \n\tx := 1;\n", false},
		{"// leading\nx := 1;", true},
		{"x := 1; // trailing", true},
		{"x := /* inner */ 1;", true},
		{"", false},
	}

	for i, tt := range tests {
		if got := HasComments(tt.input); got != tt.expected {
			t.Errorf("tests[%d] - %q: expected=%v, got=%v", i, tt.input, tt.expected, got)
		}
	}
}

func TestTree(t *testing.T) {
	node, err := parser.ParseExpression("a + 'b'")
	require.NoError(t, err)
	expected := "operator + 1:1\n  featureCall a 1:1\n  string \"b\" 1:5\n"
	require.Equal(t, expected, Tree(node))

	block, err := parser.ParseStatementBlock("x;")
	require.NoError(t, err)
	require.Equal(t, "block 1:1\n  expressionStatement 1:1\n    featureCall x 1:1\n", Tree(block))
}

func TestJSONRoundTrip(t *testing.T) {
	node, err := parser.ParseModule("model M; operation f(x) { return x->collect(y | y * 2); }")
	require.NoError(t, err)

	for _, opts := range []JSONOptions{{}, {Indent: true}, {Gzip: true}, {Gzip: true, Indent: true}} {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, node, opts))
		if opts.Gzip {
			require.Equal(t, gzipMagic, buf.Bytes()[:2])
		} else {
			require.Equal(t, byte('{'), buf.Bytes()[0])
		}

		got, err := ReadJSON(&buf)
		require.NoError(t, err)
		if !ast.Equal(node, got) {
			t.Fatalf("%+v: trees differ:\n%s", opts, strings.Join(pretty.Diff(node.String(), got.String()), "\n"))
		}
		require.Equal(t, node.Span, got.Span)
	}
}

func TestJSONNames(t *testing.T) {
	node, err := parser.ParseExpression("a")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, node, JSONOptions{}))
	require.Contains(t, buf.String(), `"kind":"featureCall"`)
	require.Contains(t, buf.String(), `"text":"a"`)
}

func TestReadJSONErrors(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"kind":"nonsense"}`))
	require.Error(t, err)

	_, err = ReadJSON(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
	require.Error(t, err)
}

func TestParseStyle(t *testing.T) {
	for _, st := range Styles {
		got, err := ParseStyle(string(st))
		require.NoError(t, err)
		require.Equal(t, st, got)
	}
	_, err := ParseStyle("xml")
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	node, err := parser.ParseExpression("f(1)")
	require.NoError(t, err)

	tests := []struct {
		style    Style
		expected string
	}{
		{StyleSexpr, "(f (parameters 1))\n"},
		{StyleSource, "f(1)"},
		{StyleTree, "featureCall f 1:1\n  parameters 1:2\n    int 1 1:3\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, node, tt.style, false))
		require.Equal(t, tt.expected, buf.String(), tt.style)
	}

	require.Error(t, Write(&bytes.Buffer{}, node, Style("xml"), false))
}
