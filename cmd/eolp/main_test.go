package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// workspace is a temporary directory with a config file, a src root and
// an index database inside it.
type workspace struct {
	dir    string
	config string
	src    string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{
		dir:    dir,
		config: filepath.Join(dir, "eolp.yaml"),
		src:    filepath.Join(dir, "src"),
	}
	require.NoError(t, os.Mkdir(w.src, 0755))
	cfg := `parser:
  max_depth: 64
logging:
  level: error
index:
  dsn: data/index.db
  roots: src
`
	require.NoError(t, os.WriteFile(w.config, []byte(cfg), 0644))
	return w
}

func (w *workspace) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(w.src, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (w *workspace) run(args ...string) (code int, stdout, stderr string) {
	return w.runWithInput("", args...)
}

func (w *workspace) runWithInput(input string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	full := append([]string{"--config", w.config}, args...)
	code = run(full, strings.NewReader(input), &out, &errOut)
	return code, out.String(), errOut.String()
}

const library = `import "common.eol";
model M alias a driver EMF;
@cached
operation Person fullName() : String { return self.first + ' ' + self.last; }
function fact(n : Integer) : Integer { if (n <= 1) return 1; return n * fact(n - 1); }
`

func TestParseEval(t *testing.T) {
	w := newWorkspace(t)
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"parse", "-e", "f(1)", "--rule", "expr"}, "(f (parameters 1))\n"},
		{[]string{"parse", "-e", "f(1)", "--rule", "expr", "--format", "tree"}, "featureCall f 1:1\n  parameters 1:2\n    int 1 1:3\n"},
		{[]string{"parse", "-e", "f( 1 )", "--rule", "expr", "--format", "source"}, "f(1)\n"},
	}
	for i, tt := range tests {
		code, stdout, stderr := w.run(tt.args...)
		if code != 0 {
			t.Fatalf("tests[%d] - %v: exit %d, stderr: %s", i, tt.args, code, stderr)
		}
		if stdout != tt.expected {
			t.Errorf("tests[%d] - %v: expected=%q, got=%q", i, tt.args, tt.expected, stdout)
		}
	}
}

func TestParseStdinAndFiles(t *testing.T) {
	w := newWorkspace(t)

	code, stdout, _ := w.runWithInput("x := 1;", "parse", "--format", "source")
	require.Equal(t, 0, code)
	require.Equal(t, "x := 1;\n", stdout)

	a := w.write(t, "a.eol", "a();")
	b := w.write(t, "b.eol", "b();")
	code, stdout, _ = w.run("parse", "--format", "source", a, b)
	require.Equal(t, 0, code)
	require.Equal(t, "==> "+a+" <==\na();\n==> "+b+" <==\nb();\n", stdout)
}

func TestParseErrors(t *testing.T) {
	w := newWorkspace(t)

	code, _, stderr := w.run("parse", "-e", "x := ;", "--rule", "statement")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Syntax error")
	require.Contains(t, stderr, "line 1, column 6")

	code, _, stderr = w.run("parse", "-e", "x", "--rule", "nonsense")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, `unknown rule "nonsense"`)
	require.Contains(t, stderr, "hint: use one of:")

	code, _, stderr = w.run("parse", "-e", "x", "--format", "xml")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, `unknown output format "xml"`)

	code, _, _ = w.run("parse", filepath.Join(w.src, "missing.eol"))
	require.Equal(t, 1, code)
}

func TestParseMaxDepthFromConfig(t *testing.T) {
	w := newWorkspace(t)
	deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)

	code, _, stderr := w.run("parse", "-e", deep, "--rule", "expr")
	require.Equal(t, 1, code)
	require.NotEmpty(t, stderr)

	code, _, _ = w.run("parse", "-e", deep, "--rule", "expr", "--max-depth", "1000")
	require.Equal(t, 0, code)
}

func TestCheck(t *testing.T) {
	w := newWorkspace(t)
	good := w.write(t, "good.eol", library)
	bad := w.write(t, "bad.eol", "var x := ;")

	code, stdout, stderr := w.run("check", good)
	require.Equal(t, 0, code, stderr)
	require.Empty(t, stdout)

	code, _, stderr = w.run("check", good, bad)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "bad.eol")

	code, stdout, _ = w.run("check", "--json", bad)
	require.Equal(t, 1, code)
	require.Contains(t, stdout, `"code"`)

	code, _, stderr = w.run("check", bad, filepath.Join(w.src, "missing.eol"))
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Error reading")
}

func TestFmt(t *testing.T) {
	w := newWorkspace(t)
	messy := w.write(t, "messy.eol", "x:=1;while(a)b();")
	tidy := w.write(t, "tidy.eol", "x := 1;\n")

	code, stdout, _ := w.run("fmt", messy)
	require.Equal(t, 0, code)
	require.Equal(t, "x := 1;\nwhile (a) {\n\tb();\n}\n", stdout)

	code, stdout, _ = w.run("fmt", "-l", messy, tidy)
	require.Equal(t, 0, code)
	require.Equal(t, messy+"\n", stdout)

	code, stdout, _ = w.run("fmt", "-d", messy)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "diff "+messy)
	require.Contains(t, stdout, "-1: x:=1;while(a)b();")
	require.Contains(t, stdout, "+1: x := 1;")

	code, _, _ = w.run("fmt", "-w", messy)
	require.Equal(t, 0, code)
	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	require.Equal(t, "x := 1;\nwhile (a) {\n\tb();\n}\n", string(data))
}

func TestFmtKeepsComments(t *testing.T) {
	w := newWorkspace(t)
	src := "// note\nx:=1;"
	path := w.write(t, "c.eol", src)

	code, _, stderr := w.run("fmt", "-w", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "contains comments")
	require.Contains(t, stderr, "--force")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, src, string(data))

	code, _, _ = w.run("fmt", "-w", "--force", path)
	require.Equal(t, 0, code)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "x := 1;\n", string(data))
}

func TestOutline(t *testing.T) {
	w := newWorkspace(t)
	path := w.write(t, "library_utils.eol", library)

	code, stdout, _ := w.run("outline", path)
	require.Equal(t, 0, code)
	require.True(t, strings.HasPrefix(stdout, "# Library Utils\n"))
	require.Contains(t, stdout, "- `Person.fullName() : String` (line 4)")

	code, stdout, _ = w.run("outline", "--html", path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "<h2>Operations</h2>")

	code, stdout, _ = w.run("outline", "--json", path)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"name": "fact"`)

	code, _, _ = w.run("outline", "--html", "--json", path)
	require.Equal(t, 1, code)
}

func TestIndexAndQuery(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "library.eol", library)

	code, stdout, stderr := w.run("index")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Indexed 1 files: 1 new")
	require.FileExists(t, filepath.Join(w.dir, "data", "index.db"))

	code, stdout, _ = w.run("index", "query", "fact")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "library.eol:5")
	require.Contains(t, stdout, "fact(n : Integer) : Integer")

	code, stdout, _ = w.run("index", "query", "--json", "fullName")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"context": "Person"`)

	code, _, stderr = w.run("index", "query", "nothing")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, `no declarations named "nothing"`)

	code, stdout, _ = w.run("index", "stats")
	require.Equal(t, 0, code)
	require.Equal(t, "files: 1\ndeclarations: 4\nerrors: 0\n", stdout)

	code, stdout, stderr = w.run("index", "tree", "--format", "source", filepath.Join(w.src, "library.eol"))
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "function fact(n : Integer) : Integer {")
}

func TestIndexReportsSyntaxErrors(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "ok.eol", "x := 1;")
	w.write(t, "broken.eol", "x := ;")

	code, stdout, stderr := w.run("index")
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "Indexed 2 files: 2 new")
	require.Contains(t, stderr, "broken.eol")
	require.NotContains(t, stderr, "ok.eol")
}

func TestDescribe(t *testing.T) {
	w := newWorkspace(t)

	code, stdout, _ := w.run("describe", "while")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "while (condition) body")

	code, stdout, _ = w.run("describe", "--json", "operators")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"kind": "operator-list"`)

	code, _, stderr := w.run("describe", "whlie")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown topic: whlie")
	require.Contains(t, stderr, "hint: did you mean: ")
	require.Contains(t, stderr, "while")
}

func TestProfilesAndLogging(t *testing.T) {
	w := newWorkspace(t)
	cfg := `output:
  format: sexpr
logging:
  level: error
profiles:
  readable:
    format: source
`
	require.NoError(t, os.WriteFile(w.config, []byte(cfg), 0644))

	code, stdout, _ := w.run("--profile", "readable", "parse", "-e", "x:=1;")
	require.Equal(t, 0, code)
	require.Equal(t, "x := 1;\n", stdout)

	code, _, stderr := w.run("--profile", "missing", "parse", "-e", "x;")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "missing")

	code, _, stderr = w.run("--log-level", "loud", "parse", "-e", "x;")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Error:")
}

func TestUnknownCommand(t *testing.T) {
	w := newWorkspace(t)
	code, _, stderr := w.run("frobnicate")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown command")
}
