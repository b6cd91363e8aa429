// Package help answers "describe" queries about the eol language: the
// operator precedence table, keywords, statement forms, syntax tree node
// kinds and parser entry rules. It backs `eolp describe` and the REPL's
// :describe command.
package help

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/sambeau/eol/pkg/eol/ast"
	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/lexer"
	"github.com/sambeau/eol/pkg/eol/parser"
)

// Topic keywords.
var Topics = []string{"operators", "keywords", "statements", "kinds", "rules"}

// KindInfo describes a node kind.
type KindInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Operators  []OperatorInfo  `json:"operators,omitempty"`
	Statements []StatementInfo `json:"statements,omitempty"`
	Kinds      []KindInfo      `json:"kinds,omitempty"`
	Names      []string        `json:"names,omitempty"`
}

// DescribeTopic returns help information for the given topic: one of
// Topics, a statement keyword, an operator symbol or a node kind name.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.WithHintf(errors.New("no topic specified"),
			"try: %s", strings.Join(Topics, ", "))
	}

	switch topic {
	case "operators":
		return &TopicResult{Kind: "operator-list", Name: topic, Operators: Operators}, nil
	case "keywords":
		return &TopicResult{Kind: "name-list", Name: topic, Names: lexer.Keywords()}, nil
	case "statements":
		return &TopicResult{Kind: "statement-list", Name: topic, Statements: Statements}, nil
	case "kinds":
		return describeKinds(), nil
	case "rules":
		names := make([]string, len(parser.Rules))
		for i, r := range parser.Rules {
			names[i] = string(r)
		}
		return &TopicResult{Kind: "name-list", Name: topic, Names: names}, nil
	}

	// statement syntax wins over the node kind of the same name
	if result := describeStatement(topic); result != nil {
		return result, nil
	}
	if result := describeOperator(topic); result != nil {
		return result, nil
	}
	var k ast.Kind
	if err := k.UnmarshalText([]byte(topic)); err == nil {
		return &TopicResult{
			Kind:  "kind",
			Name:  topic,
			Kinds: []KindInfo{{Name: topic, Category: kindCategory(k), Description: kindDescriptions[k]}},
		}, nil
	}
	return nil, unknownTopicError(topic)
}

func describeKinds() *TopicResult {
	kinds := ast.Kinds()
	infos := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, KindInfo{
			Name:        k.String(),
			Category:    kindCategory(k),
			Description: kindDescriptions[k],
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Category < infos[j].Category
	})
	return &TopicResult{Kind: "kind-list", Name: "kinds", Kinds: infos}
}

// describeOperator returns the precedence level of an operator symbol or
// keyword, or nil.
func describeOperator(symbol string) *TopicResult {
	var levels []OperatorInfo
	for _, op := range Operators {
		for _, s := range op.Symbols {
			if s == symbol {
				levels = append(levels, op)
			}
		}
	}
	if len(levels) == 0 {
		return nil
	}
	return &TopicResult{Kind: "operator", Name: symbol, Operators: levels}
}

func describeStatement(keyword string) *TopicResult {
	for _, st := range Statements {
		if st.Keyword == keyword {
			return &TopicResult{Kind: "statement", Name: keyword, Statements: []StatementInfo{st}}
		}
	}
	return nil
}

// allTopics lists every name DescribeTopic accepts.
func allTopics() []string {
	names := append([]string{}, Topics...)
	for _, k := range ast.Kinds() {
		names = append(names, k.String())
	}
	for _, st := range Statements {
		names = append(names, st.Keyword)
	}
	for _, op := range Operators {
		names = append(names, op.Symbols...)
	}
	return names
}

// unknownTopicError suggests the closest known topics.
func unknownTopicError(topic string) error {
	err := errors.Newf("unknown topic: %s", topic)
	if suggestions := perrors.FindTopMatches(topic, allTopics(), 3); len(suggestions) > 0 {
		return errors.WithHintf(err, "did you mean: %s?", strings.Join(suggestions, ", "))
	}
	return errors.WithHintf(err, "try: %s", strings.Join(Topics, ", "))
}
