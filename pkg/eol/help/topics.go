package help

import "github.com/sambeau/eol/pkg/eol/ast"

// OperatorInfo describes one precedence level.
type OperatorInfo struct {
	Level         int      `json:"level"`
	Name          string   `json:"name"`
	Symbols       []string `json:"symbols"`
	Associativity string   `json:"associativity"`
	Description   string   `json:"description"`
}

// Operators lists the expression levels from loosest to tightest binding.
var Operators = []OperatorInfo{
	{1, "logical", []string{"or", "and", "xor", "implies"}, "left",
		"All four share one level: a or b and c is (a or b) and c."},
	{2, "equality", []string{"==", "="}, "right",
		"The right operand is itself a relational expression: a = b < c is a = (b < c)."},
	{2, "comparison", []string{"<", ">", "<=", ">=", "<>"}, "left",
		"Same level as equality but left-associative over additive operands."},
	{3, "additive", []string{"+", "-"}, "left", ""},
	{4, "multiplicative", []string{"*", "/"}, "left", ""},
	{5, "unary", []string{"not", "-"}, "prefix", "At most one prefix operator."},
	{6, "shortcut", []string{"++", "--"}, "postfix", "At most one suffix operator."},
	{7, "navigation", []string{".", "->"}, "left",
		"Feature call on the value (.) or on the collection (->)."},
	{8, "item selector", []string{"[ ]"}, "postfix", "Any expression may be used as the index."},
}

// StatementInfo shows the syntax of one statement form.
type StatementInfo struct {
	Keyword string `json:"keyword"`
	Syntax  string `json:"syntax"`
}

// Statements lists every statement form.
var Statements = []StatementInfo{
	{"assignment", "target := value;   (also += -= *= /=)"},
	{"special assignment", "target ::= value;"},
	{"feature set", "target.feature = value;"},
	{"expression", "expression;"},
	{"for", "for (name : Type in collection) body"},
	{"if", "if (condition) body else body"},
	{"while", "while (condition) body"},
	{"switch", "switch (value) { case v: statements ... default: statements }"},
	{"return", "return value?;"},
	{"throw", "throw value?;"},
	{"delete", "delete value?;"},
	{"break", "break;"},
	{"breakAll", "breakAll;"},
	{"continue", "continue;"},
	{"abort", "abort;"},
	{"transaction", "transaction (Model, ...)? body"},
}

// kindDescriptions documents node kinds. Kinds missing here are shown
// with their category only.
var kindDescriptions = map[ast.Kind]string{
	ast.Module:               "Whole file: imports, then models, operations and statements.",
	ast.Block:                "Statement list; every body is a block, braced or not.",
	ast.ParamList:            "Formal parameters of an operation or lambda.",
	ast.Parameters:           "Call arguments; present even when empty.",
	ast.Formal:               "Parameter name with an optional type child.",
	ast.Type:                 "Type reference: Name, Model!Name or pkg::Name.",
	ast.EnumerationValue:     "Enumeration literal: Type#literal.",
	ast.NativeType:           "Host type: Native('qualified.Name').",
	ast.CollectionType:       "Collection or map type with optional type arguments.",
	ast.Import:               "import 'path';",
	ast.Model:                "Model declaration with optional alias, driver and parameters.",
	ast.Alias:                "Alternative names for a model.",
	ast.Driver:               "Model driver name.",
	ast.ModelParams:          "{key = 'value', ...} after a model declaration.",
	ast.ModelParam:           "One key = 'value' model parameter.",
	ast.Operation:            "Operation or function: annotations?, context?, name, params, return type?, body.",
	ast.AnnotationBlock:      "Annotations preceding an operation.",
	ast.Annotation:           "@name text up to the end of the line.",
	ast.ExecutableAnnotation: "$name expression.",
	ast.Assignment:           "Target and value; text is the operator.",
	ast.SpecialAssignment:    "::= assignment.",
	ast.ExpressionStatement:  "An expression evaluated for its effect.",
	ast.Name:                 "A bare identifier in a declaration.",
	ast.Operator:             "Binary operator; left and right operands.",
	ast.UnaryOperator:        "Prefix not or -.",
	ast.ShortcutOperator:     "Postfix ++ or --.",
	ast.Point:                "Feature call on a value: target.feature.",
	ast.Arrow:                "Feature call on a collection: target->feature.",
	ast.ItemSelector:         "Indexing: target[index].",
	ast.FeatureCall:          "Property access or call; Parameters child when called.",
	ast.Lambda:               "Optional ParamList and a body expression; text is | or =>.",
	ast.ExpressionInBrackets: "Parenthesised expression, kept so grouping survives.",
	ast.New:                  "new Type(arguments?).",
	ast.Var:                  "Local variable declaration.",
	ast.Ext:                  "External variable declaration.",
	ast.Collection:           "Collection literal: Sequence{...}, Set{...} and the like.",
	ast.Map:                  "Map literal: Map{key = value, ...}.",
	ast.ExpressionList:       "Elements of a collection literal.",
	ast.ExpressionRange:      "lo..hi inside a collection literal.",
	ast.KeyVal:               "One key = value pair of a map literal.",
	ast.KeyValList:           "Pairs of a map literal.",
}

// kindCategory groups kinds for listing.
func kindCategory(k ast.Kind) string {
	switch {
	case k.IsStatement():
		return "statement"
	case k.IsLiteral():
		return "literal"
	case k.IsDeclaration():
		return "declaration"
	case k > ast.Name:
		return "expression"
	}
	return "structure"
}
