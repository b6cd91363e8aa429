package help

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/eol/pkg/eol/lexer"
)

func TestDescribeTopicKinds(t *testing.T) {
	tests := []struct {
		topic string
		kind  string
	}{
		{"operators", "operator-list"},
		{"keywords", "name-list"},
		{"statements", "statement-list"},
		{"kinds", "kind-list"},
		{"rules", "name-list"},
		{"for", "statement"},
		{"assignment", "statement"},
		{"->", "operator"},
		{"implies", "operator"},
		{"featureCall", "kind"},
		{"  lambda  ", "kind"},
	}

	for i, tt := range tests {
		result, err := DescribeTopic(tt.topic)
		if err != nil {
			t.Fatalf("tests[%d] - %q: unexpected error: %v", i, tt.topic, err)
		}
		if result.Kind != tt.kind {
			t.Errorf("tests[%d] - %q: kind wrong. expected=%q, got=%q", i, tt.topic, tt.kind, result.Kind)
		}
	}
}

func TestDescribeKeywords(t *testing.T) {
	result, err := DescribeTopic("keywords")
	require.NoError(t, err)
	require.Equal(t, lexer.Keywords(), result.Names)
	require.Contains(t, result.Names, "breakAll")
}

func TestMinusHasTwoLevels(t *testing.T) {
	result, err := DescribeTopic("-")
	require.NoError(t, err)
	require.Len(t, result.Operators, 2)
	require.Equal(t, "additive", result.Operators[0].Name)
	require.Equal(t, "unary", result.Operators[1].Name)
}

func TestKindsAreGrouped(t *testing.T) {
	result, err := DescribeTopic("kinds")
	require.NoError(t, err)
	for i := 1; i < len(result.Kinds); i++ {
		require.LessOrEqual(t, result.Kinds[i-1].Category, result.Kinds[i].Category)
	}

	kind, err := DescribeTopic("forStatement")
	require.Error(t, err)
	require.Nil(t, kind)

	kind, err = DescribeTopic("block")
	require.NoError(t, err)
	require.Equal(t, "structure", kind.Kinds[0].Category)
	kind, err = DescribeTopic("point")
	require.NoError(t, err)
	require.Equal(t, "expression", kind.Kinds[0].Category)
	kind, err = DescribeTopic("map")
	require.NoError(t, err)
	require.Equal(t, "literal", kind.Kinds[0].Category)
}

func TestUnknownTopic(t *testing.T) {
	_, err := DescribeTopic("")
	require.Error(t, err)

	_, err = DescribeTopic("operatrs")
	require.Error(t, err)
	require.Contains(t, errors.FlattenHints(err), "operators")

	_, err = DescribeTopic("zzzzzzzzzzzz")
	require.Error(t, err)
	require.Contains(t, errors.FlattenHints(err), "try:")
}

func TestFormatText(t *testing.T) {
	ops, err := DescribeTopic("operators")
	require.NoError(t, err)
	text := FormatText(ops, 80)
	require.True(t, strings.HasPrefix(text, "Operators (loosest binding first):\n"))
	require.Contains(t, text, "or and xor implies")
	require.Less(t, strings.Index(text, "logical"), strings.Index(text, "multiplicative"))

	st, err := DescribeTopic("while")
	require.NoError(t, err)
	require.Equal(t, "  while  while (condition) body\n", FormatText(st, 80))

	kind, err := DescribeTopic("lambda")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(FormatText(kind, 80), "Node kind: lambda (expression)\n"))

	rules, err := DescribeTopic("rules")
	require.NoError(t, err)
	text = FormatText(rules, 80)
	require.True(t, strings.HasPrefix(text, "Rules:\n\n  module"))
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		require.LessOrEqual(t, len(line), 80)
	}

	require.Contains(t, FormatText(&TopicResult{Kind: "bogus"}, 0), "Unknown result kind")
}

func TestFormatJSON(t *testing.T) {
	result, err := DescribeTopic("if")
	require.NoError(t, err)
	data, err := FormatJSON(result)
	require.NoError(t, err)

	var back TopicResult
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, *result, back)
}

func TestWrapText(t *testing.T) {
	require.Equal(t, "aaa bbb\nccc", wrapText("aaa bbb ccc", 7, ""))
	require.Equal(t, "", wrapText("   ", 10, ""))
}
