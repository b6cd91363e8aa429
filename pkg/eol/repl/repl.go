// Package repl is an interactive parse-and-print loop for eol. Each
// complete entry is parsed and its tree printed in the selected format.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/help"
	"github.com/sambeau/eol/pkg/eol/lexer"
	"github.com/sambeau/eol/pkg/eol/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█▀▀ █▀█ █░░
██▄ █▄█ █▄▄ `

// RuleAuto parses an entry as an expression when it is one and as a
// module otherwise.
const RuleAuto parser.Rule = "auto"

// Options configures a REPL session.
type Options struct {
	Rule        parser.Rule  // entry rule, RuleAuto when empty
	Format      format.Style // output style, sexpr when empty
	MaxDepth    int
	Width       int    // terminal width for :describe
	HistoryFile string // defaults to .eolp_history in the temp dir
}

// Start runs the REPL on the terminal until the user quits.
func Start(out io.Writer, version string, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".eolp_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	s := NewSession(out, opts)
	for {
		prompt := PROMPT
		if s.Pending() {
			prompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if s.Reset() {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		entry, quit := s.Feed(input)
		if quit {
			return
		}
		if entry != "" {
			line.AppendHistory(entry)
		}
	}
}

// Session holds the state of one REPL: the selected rule and format and
// any partially typed entry. It does no terminal handling of its own.
type Session struct {
	out      io.Writer
	rule     parser.Rule
	style    format.Style
	maxDepth int
	width    int
	tokens   bool

	buf strings.Builder
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, opts Options) *Session {
	s := &Session{
		out:      out,
		rule:     opts.Rule,
		style:    opts.Format,
		maxDepth: opts.MaxDepth,
		width:    opts.Width,
	}
	if s.rule == "" {
		s.rule = RuleAuto
	}
	if s.style == "" {
		s.style = format.StyleSexpr
	}
	if s.width <= 0 {
		s.width = 80
	}
	return s
}

// Pending reports whether a partial entry is buffered.
func (s *Session) Pending() bool {
	return s.buf.Len() > 0
}

// Reset drops any buffered input and reports whether there was some.
func (s *Session) Reset() bool {
	had := s.buf.Len() > 0
	s.buf.Reset()
	return had
}

// Feed handles one line of input. When the line completes an entry, the
// entry is parsed, printed and returned so the caller can add it to
// history. quit is true once the user asks to leave.
func (s *Session) Feed(input string) (entry string, quit bool) {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		switch {
		case trimmed == "exit" || trimmed == "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.command(trimmed)
			return trimmed, false
		case trimmed == "":
			return "", false
		}
	}

	if s.Pending() {
		s.buf.WriteString("\n")
	}
	s.buf.WriteString(input)

	full := s.buf.String()
	if needsMoreInput(full) {
		return "", false
	}
	s.buf.Reset()
	s.eval(full)
	return full, false
}

func (s *Session) eval(src string) {
	if s.tokens {
		for _, tok := range lexer.Tokenize(src) {
			fmt.Fprintf(s.out, "%s %s %q\n", tok.Start, tok.Type, tok.Literal)
		}
	}

	node, err := s.parse(src)
	if err != nil {
		printError(s.out, err, src)
		return
	}

	var out bytes.Buffer
	if err := format.Write(&out, node, s.style, false); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if out.Len() > 0 && !bytes.HasSuffix(out.Bytes(), []byte("\n")) {
		out.WriteByte('\n')
	}
	s.out.Write(out.Bytes())
}

func (s *Session) parse(src string) (*ast.Node, error) {
	opts := []parser.Option{parser.WithMaxDepth(s.maxDepth)}
	if s.rule != RuleAuto {
		return parser.ParseString(s.rule, src, opts...)
	}
	p := parser.New(lexer.New(src), opts...)
	if node, err := p.ParseExpression(); err == nil {
		return node, nil
	}
	return p.ParseModule()
}

// command handles REPL meta-commands that start with ':'
func (s *Session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?      Show this help")
		fmt.Fprintln(s.out, "  :rule [name]       Show or set the entry rule (auto, "+ruleNames()+")")
		fmt.Fprintln(s.out, "  :format [style]    Show or set the output format ("+styleNames()+")")
		fmt.Fprintln(s.out, "  :tokens            Toggle printing the token stream")
		fmt.Fprintln(s.out, "  :describe <topic>  Describe operators, keywords, statements, kinds or rules")
		fmt.Fprintln(s.out, "  exit, quit         Exit the REPL")

	case ":rule":
		if arg == "" {
			fmt.Fprintf(s.out, "rule: %s\n", s.rule)
			return
		}
		rule := parser.Rule(arg)
		if rule != RuleAuto && !isRule(rule) {
			fmt.Fprintf(s.out, "Unknown rule: %s (use auto, %s)\n", arg, ruleNames())
			return
		}
		s.rule = rule
		fmt.Fprintf(s.out, "rule: %s\n", s.rule)

	case ":format":
		if arg == "" {
			fmt.Fprintf(s.out, "format: %s\n", s.style)
			return
		}
		style, err := format.ParseStyle(arg)
		if err != nil {
			fmt.Fprintf(s.out, "Unknown format: %s (use %s)\n", arg, styleNames())
			return
		}
		s.style = style
		fmt.Fprintf(s.out, "format: %s\n", s.style)

	case ":tokens":
		s.tokens = !s.tokens
		if s.tokens {
			fmt.Fprintln(s.out, "Token output ON")
		} else {
			fmt.Fprintln(s.out, "Token output OFF")
		}

	case ":describe", ":d":
		result, err := help.DescribeTopic(arg)
		if err != nil {
			printError(s.out, err, "")
			return
		}
		io.WriteString(s.out, help.FormatText(result, s.width))

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func isRule(r parser.Rule) bool {
	for _, known := range parser.Rules {
		if r == known {
			return true
		}
	}
	return false
}

func ruleNames() string {
	names := make([]string, len(parser.Rules))
	for i, r := range parser.Rules {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func styleNames() string {
	names := make([]string, len(format.Styles))
	for i, st := range format.Styles {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
