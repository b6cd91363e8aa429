package help

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case "operator-list", "operator":
		formatOperatorsText(&sb, result)
	case "statement-list", "statement":
		formatStatementsText(&sb, result)
	case "kind-list", "kind":
		formatKindsText(&sb, result, width)
	case "name-list":
		formatNamesText(&sb, result, width)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// formatOperatorsText prints the precedence table, loosest binding first.
func formatOperatorsText(sb *strings.Builder, result *TopicResult) {
	if result.Kind == "operator" {
		fmt.Fprintf(sb, "Operator: %s\n\n", result.Name)
	} else {
		sb.WriteString("Operators (loosest binding first):\n\n")
	}

	maxLen := 0
	for _, op := range result.Operators {
		if n := len(strings.Join(op.Symbols, " ")); n > maxLen {
			maxLen = n
		}
	}
	for _, op := range result.Operators {
		symbols := strings.Join(op.Symbols, " ")
		padding := strings.Repeat(" ", maxLen-len(symbols)+2)
		fmt.Fprintf(sb, "  %d  %s%s%-14s %s\n", op.Level, symbols, padding, op.Name, op.Associativity)
		if op.Description != "" {
			fmt.Fprintf(sb, "     %s\n", op.Description)
		}
	}
}

func formatStatementsText(sb *strings.Builder, result *TopicResult) {
	if result.Kind == "statement-list" {
		sb.WriteString("Statements:\n\n")
	}
	maxLen := 0
	for _, st := range result.Statements {
		if len(st.Keyword) > maxLen {
			maxLen = len(st.Keyword)
		}
	}
	for _, st := range result.Statements {
		padding := strings.Repeat(" ", maxLen-len(st.Keyword)+2)
		fmt.Fprintf(sb, "  %s%s%s\n", st.Keyword, padding, st.Syntax)
	}
}

func formatKindsText(sb *strings.Builder, result *TopicResult, width int) {
	if result.Kind == "kind" {
		k := result.Kinds[0]
		fmt.Fprintf(sb, "Node kind: %s (%s)\n", k.Name, k.Category)
		if k.Description != "" {
			fmt.Fprintf(sb, "\n%s\n", wrapText(k.Description, width, ""))
		}
		return
	}

	sb.WriteString("Node kinds:\n")
	category := ""
	for _, k := range result.Kinds {
		if k.Category != category {
			category = k.Category
			fmt.Fprintf(sb, "\n%s:\n", category)
		}
		fmt.Fprintf(sb, "  %s\n", k.Name)
	}
}

// formatNamesText lays names out in columns that fit width.
func formatNamesText(sb *strings.Builder, result *TopicResult, width int) {
	fmt.Fprintf(sb, "%s:\n\n", strings.ToUpper(result.Name[:1])+result.Name[1:])

	maxLen := 0
	for _, n := range result.Names {
		if len(n) > maxLen {
			maxLen = len(n)
		}
	}
	colWidth := maxLen + 2
	cols := (width - 2) / colWidth
	if cols < 1 {
		cols = 1
	}
	for i, n := range result.Names {
		if i%cols == 0 {
			sb.WriteString("  ")
		}
		if i%cols == cols-1 || i == len(result.Names)-1 {
			sb.WriteString(n)
			sb.WriteByte('\n')
		} else {
			sb.WriteString(n)
			sb.WriteString(strings.Repeat(" ", colWidth-len(n)))
		}
	}
}

// wrapText wraps s at word boundaries to width, prefixing each line.
func wrapText(s string, width int, prefix string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	line := prefix + words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			sb.WriteString(line)
			sb.WriteByte('\n')
			line = prefix + w
			continue
		}
		line += " " + w
	}
	sb.WriteString(line)
	return sb.String()
}
