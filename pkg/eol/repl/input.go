package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/lexer"
)

var commands = []string{":help", ":rule", ":format", ":tokens", ":describe"}

// completionWords holds keywords and common collection operations.
var completionWords = func() []string {
	words := lexer.Keywords()
	words = append(words,
		"self", "all", "allInstances", "select", "reject", "collect", "exists",
		"forAll", "one", "sortBy", "includes", "excludes", "isEmpty", "notEmpty",
		"size", "first", "last", "println", "isDefined", "isKindOf", "isTypeOf")
	sort.Strings(words)
	return words
}()

// filterCompletions returns candidate lines completing the last word of
// line. liner replaces the whole line with the chosen candidate.
func filterCompletions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	candidates := completionWords
	prefix, word := "", line
	if strings.HasPrefix(line, ":") {
		if strings.ContainsAny(line, " \t") {
			return nil
		}
		candidates = commands
	} else {
		start := strings.LastIndexFunc(line, func(r rune) bool {
			return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		}) + 1
		prefix, word = line[:start], line[start:]
		if word == "" {
			return nil
		}
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && c != word {
			matches = append(matches, prefix+c)
		}
	}
	return matches
}

// needsMoreInput reports whether input stops inside a bracket, a string
// or a block comment.
func needsMoreInput(input string) bool {
	depth := 0
	for _, tok := range lexer.Tokenize(input) {
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		case lexer.UNTERMINATED:
			return true
		}
	}
	return depth > 0
}

// printError prints a parse error with the offending source line, or any
// other error with its hints.
func printError(out io.Writer, err error, source string) {
	var pe *perrors.ParseError
	if errors.As(err, &pe) {
		io.WriteString(out, pe.PrettyString(source))
		io.WriteString(out, "\n")
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		io.WriteString(out, "  hint: "+hint+"\n")
	}
}
