package format

import (
	"strings"
)

// Printer manages formatting state and output
type Printer struct {
	output  strings.Builder
	indent  int // Current indentation level
	linePos int // Display column within the current line
}

// NewPrinter creates a new Printer instance
func NewPrinter() *Printer {
	return &Printer{}
}

// String returns the formatted output
func (p *Printer) String() string {
	return p.output.String()
}

// Reset clears the printer state for reuse
func (p *Printer) Reset() {
	p.output.Reset()
	p.indent = 0
	p.linePos = 0
}

// write appends a string to the output and updates line position
func (p *Printer) write(s string) {
	p.output.WriteString(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		p.linePos = displayWidth(s[idx+1:])
	} else {
		p.linePos += displayWidth(s)
	}
}

// writeln appends a string followed by a newline
func (p *Printer) writeln(s string) {
	p.write(s)
	p.newline()
}

func (p *Printer) newline() {
	p.output.WriteString("\n")
	p.linePos = 0
}

func (p *Printer) writeIndent() {
	p.write(strings.Repeat(IndentString, p.indent))
}

func (p *Printer) indentInc() {
	p.indent++
}

func (p *Printer) indentDec() {
	if p.indent > 0 {
		p.indent--
	}
}

func (p *Printer) currentIndentWidth() int {
	return p.indent * IndentWidth
}

// fitsOnLine checks if s fits on the current line within threshold
func (p *Printer) fitsOnLine(s string, threshold int) bool {
	if strings.Contains(s, "\n") {
		return false
	}
	return p.linePos+displayWidth(s) <= threshold
}

// fitsInThreshold checks if s fits within threshold, ignoring the
// current position
func fitsInThreshold(s string, threshold int) bool {
	if strings.Contains(s, "\n") {
		return false
	}
	return displayWidth(s) <= threshold
}

// displayWidth counts tabs as TabWidth columns and every other rune as one.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += TabWidth
		} else {
			w++
		}
	}
	return w
}
