// Package errors provides the structured parse error reported by the eol
// parser.
//
// A ParseError carries a class (mismatched token, no viable alternative,
// lexical or depth), a catalog code, the offending token and the set of
// tokens that would have been accepted in its place. Messages are rendered
// from templates in ErrorCatalog so that tools can match on codes rather
// than on text.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/sambeau/eol/pkg/eol/lexer"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassMismatched ErrorClass = "mismatched-token"      // a specific token was required
	ClassNoViable   ErrorClass = "no-viable-alternative" // nothing starts here
	ClassLexical    ErrorClass = "lexical"               // bad or unterminated token
	ClassDepth      ErrorClass = "depth"                 // nesting limit exceeded
)

// ParseError is the single hard error a parse can report.
type ParseError struct {
	Class    ErrorClass     `json:"class"`              // Error category
	Code     string         `json:"code"`               // Error code (e.g., "PARSE-0001")
	Message  string         `json:"message"`            // Human-readable message
	Hints    []string       `json:"hints,omitempty"`    // Suggestions for fixing
	Expected []string       `json:"expected,omitempty"` // Token descriptions that would have been accepted
	Found    string         `json:"found"`              // Description of the offending token
	Line     int            `json:"line"`               // 1-based line (0 if unknown)
	Column   int            `json:"column"`             // 1-based column (0 if unknown)
	Offset   int            `json:"offset"`             // byte offset of the offending token
	File     string         `json:"file,omitempty"`     // File path (if known)
	Data     map[string]any `json:"data,omitempty"`     // Template variables

	Token lexer.Token `json:"-"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.String()
}

// String returns a formatted single-line (plus hints) representation.
func (e *ParseError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line description for terminal display.
// When source is non-empty the offending line is quoted with a caret under
// the failing column.
func (e *ParseError) PrettyString(source string) string {
	var sb strings.Builder

	sb.WriteString("Syntax error")
	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	if line, ok := sourceLine(source, e.Line); ok {
		sb.WriteString("\n\n    ")
		sb.WriteString(line)
		sb.WriteString("\n    ")
		col := e.Column - 1
		if col > len([]rune(line)) {
			col = len([]rune(line))
		}
		for _, r := range []rune(line)[:max(col, 0)] {
			if r == '\t' {
				sb.WriteByte('\t')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('^')
	}

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

func sourceLine(source string, line int) (string, bool) {
	if source == "" || line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// ToJSON returns the error as JSON bytes.
func (e *ParseError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *ParseError) WithFile(file string) *ParseError {
	copy := *e
	copy.File = file
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	"PARSE-0001": {
		Class:    ClassMismatched,
		Template: "expected {{.Expected}}, got {{.Got}}",
	},
	"PARSE-0002": {
		Class:    ClassNoViable,
		Template: "no viable alternative at {{.Got}} while parsing {{.Rule}}",
	},
	"PARSE-0003": {
		Class:    ClassLexical,
		Template: "unterminated {{.What}}",
		Hints:    []string{"close it with {{.Closer}}"},
	},
	"PARSE-0004": {
		Class:    ClassLexical,
		Template: "illegal character {{.Got}}",
	},
	"PARSE-0005": {
		Class:    ClassDepth,
		Template: "expression nested too deeply (limit {{.Limit}})",
		Hints:    []string{"split the expression using intermediate variables"},
	},
	"PARSE-0006": {
		Class:    ClassMismatched,
		Template: "a collection literal cannot mix a range with a list",
		Hints:    []string{"{{.Type}}{a..b} or {{.Type}}{a, b, c}"},
	},
}

// New creates a ParseError from the catalog, positioned at tok.
// If the code is not found, creates a generic error with the message.
func New(code string, tok lexer.Token, data map[string]any) *ParseError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return positioned(&ParseError{Class: ClassNoViable, Code: code, Message: msg, Data: data}, tok)
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return positioned(&ParseError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}, tok)
}

func positioned(e *ParseError, tok lexer.Token) *ParseError {
	e.Token = tok
	e.Found = Describe(tok)
	e.Line = tok.Start.Line
	e.Column = tok.Start.Column
	e.Offset = tok.Start.Offset
	return e
}

// Describe names a token for an error message: its quoted text when it
// has one, "end of input" at EOF.
func Describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.STRING:
		return fmt.Sprintf("string %q", tok.Literal)
	}
	return "'" + tok.Literal + "'"
}

// NewMismatched reports that one of expected was required at tok.
func NewMismatched(tok lexer.Token, expected ...lexer.TokenType) *ParseError {
	exp := describeAll(expected)
	err := New("PARSE-0001", tok, map[string]any{
		"Expected": JoinExpected(exp),
		"Got":      Describe(tok),
	})
	err.Expected = exp
	addKeywordHint(err, tok, expected)
	return err
}

// NewNoViable reports that tok does not start any alternative of rule.
func NewNoViable(rule string, tok lexer.Token, expected ...string) *ParseError {
	err := New("PARSE-0002", tok, map[string]any{
		"Got":  Describe(tok),
		"Rule": rule,
	})
	err.Expected = expected
	if tok.Type == lexer.NAME {
		if s := FindClosestMatch(tok.Literal, lexer.Keywords()); s != "" {
			err.Hints = append(err.Hints, "did you mean '"+s+"'?")
		}
	}
	return err
}

// NewLexical converts an ILLEGAL or UNTERMINATED token into an error.
func NewLexical(tok lexer.Token) *ParseError {
	if tok.Type == lexer.UNTERMINATED {
		what, closer := "string", "a matching quote"
		if strings.HasPrefix(tok.Literal, "/*") {
			what, closer = "comment", "'*/'"
		}
		return New("PARSE-0003", tok, map[string]any{"What": what, "Closer": closer})
	}
	return New("PARSE-0004", tok, map[string]any{"Got": Describe(tok)})
}

// NewTooDeep reports that the nesting limit was exceeded at tok.
func NewTooDeep(tok lexer.Token, limit int) *ParseError {
	return New("PARSE-0005", tok, map[string]any{"Limit": limit})
}

// NewMixedCollection reports a collection literal mixing range and list
// syntax.
func NewMixedCollection(tok lexer.Token, typeName string) *ParseError {
	err := New("PARSE-0006", tok, map[string]any{"Type": typeName})
	err.Expected = []string{lexer.RBRACE.Describe()}
	return err
}

func describeAll(types []lexer.TokenType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Describe())
	}
	return out
}

// JoinExpected renders an expected-set as "a", "a or b" or "one of a, b, c".
func JoinExpected(exp []string) string {
	switch len(exp) {
	case 0:
		return "something else"
	case 1:
		return exp[0]
	case 2:
		return exp[0] + " or " + exp[1]
	}
	return "one of " + strings.Join(exp, ", ")
}

// addKeywordHint suggests the keyword the user probably meant when a
// misspelt identifier sits where a keyword was required.
func addKeywordHint(err *ParseError, tok lexer.Token, expected []lexer.TokenType) {
	if tok.Type != lexer.NAME {
		return
	}
	var words []string
	for _, t := range expected {
		if t.IsKeyword() {
			words = append(words, strings.Trim(t.Describe(), "'"))
		}
	}
	if s := FindClosestMatch(tok.Literal, words); s != "" {
		err.Hints = append(err.Hints, "did you mean '"+s+"'?")
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// threshold is the largest edit distance still worth suggesting.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	}
	return 1
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns "" when nothing is within the length-dependent threshold or the
// input already matches exactly.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > threshold(input) {
		return ""
	}
	return bestMatch
}

// FindTopMatches returns up to n candidates within the threshold, closest
// first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}
	inputLower := strings.ToLower(input)
	var matches []match
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 && dist <= threshold(input) {
			matches = append(matches, match{candidate, dist})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}
