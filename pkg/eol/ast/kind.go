package ast

import "fmt"

// Kind tags a Node. The set is closed; a node's kind is fixed when its
// builder finishes.
type Kind int

const (
	Invalid Kind = iota

	// Structure
	Module               // imaginary; imports, models, operations and statements
	Block                // imaginary; statements between braces (or a wrapped single statement)
	ParamList            // imaginary; formal parameters of an operation or lambda
	Parameters           // imaginary; call arguments, always carries its parentheses
	Formal               // NAME (: type)?
	Type                 // path name, Text is the full path
	EnumerationValue     // path name ending in #Literal
	NativeType           // Native("host.type")
	CollectionType       // Sequence, Set(String), Map<String, Integer>, ...
	Import               // import "file";
	Model                // model NAME alias? driver? {params}? ;
	Alias                // alias a, b
	Driver               // driver NAME
	ModelParams          // imaginary; { k = "v", ... }
	ModelParam           // k = "v"
	Operation            // operation/function declaration
	AnnotationBlock      // imaginary; annotations before an operation
	Annotation           // @name rest-of-line
	ExecutableAnnotation // $name expression

	// Statements
	Assignment          // := += -= *= /= and the feature-set form x.y = v
	SpecialAssignment   // ::=
	ExpressionStatement // imaginary; expression ;
	For
	If
	While
	Switch
	Case
	Default
	Return
	Throw
	Delete
	Break
	BreakAll
	Continue
	Abort
	Transaction
	Name // bare identifier in a declaration position

	// Expressions
	Operator             // binary operator, Text is the symbol
	UnaryOperator        // not, -
	ShortcutOperator     // postfix ++, --
	Point                // target.feature
	Arrow                // target->feature
	ItemSelector         // target[index]
	FeatureCall          // NAME Parameters?
	Lambda               // ParamList? (| or =>) body
	ExpressionInBrackets // imaginary; ( expression )
	New                  // new Type Parameters?
	Var                  // var NAME (: Type)?
	Ext                  // ext NAME (: Type)?

	// Literals
	String
	Int
	Float
	Boolean
	Collection      // Sequence{...}, Text is the collection keyword
	Map             // Map{...}
	ExpressionList  // imaginary; comma separated items of a collection literal
	ExpressionRange // lo .. hi
	KeyVal          // key = value
	KeyValList      // imaginary; comma separated KeyVals of a map literal

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:              "invalid",
	Module:               "module",
	Block:                "block",
	ParamList:            "paramList",
	Parameters:           "parameters",
	Formal:               "formal",
	Type:                 "type",
	EnumerationValue:     "enumerationValue",
	NativeType:           "nativeType",
	CollectionType:       "collectionType",
	Import:               "import",
	Model:                "model",
	Alias:                "alias",
	Driver:               "driver",
	ModelParams:          "modelParams",
	ModelParam:           "modelParam",
	Operation:            "operation",
	AnnotationBlock:      "annotationBlock",
	Annotation:           "annotation",
	ExecutableAnnotation: "executableAnnotation",
	Assignment:           "assignment",
	SpecialAssignment:    "specialAssignment",
	ExpressionStatement:  "expressionStatement",
	For:                  "for",
	If:                   "if",
	While:                "while",
	Switch:               "switch",
	Case:                 "case",
	Default:              "default",
	Return:               "return",
	Throw:                "throw",
	Delete:               "delete",
	Break:                "break",
	BreakAll:             "breakAll",
	Continue:             "continue",
	Abort:                "abort",
	Transaction:          "transaction",
	Name:                 "name",
	Operator:             "operator",
	UnaryOperator:        "unaryOperator",
	ShortcutOperator:     "shortcutOperator",
	Point:                "point",
	Arrow:                "arrow",
	ItemSelector:         "itemSelector",
	FeatureCall:          "featureCall",
	Lambda:               "lambda",
	ExpressionInBrackets: "expressionInBrackets",
	New:                  "new",
	Var:                  "var",
	Ext:                  "ext",
	String:               "string",
	Int:                  "int",
	Float:                "float",
	Boolean:              "boolean",
	Collection:           "collection",
	Map:                  "map",
	ExpressionList:       "expressionList",
	ExpressionRange:      "expressionRange",
	KeyVal:               "keyVal",
	KeyValList:           "keyValList",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// String returns the camelCase name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || k >= kindCount {
		return nil, fmt.Errorf("unknown node kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	kind, ok := kindsByName[string(b)]
	if !ok {
		return fmt.Errorf("unknown node kind %q", b)
	}
	*k = kind
	return nil
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Module; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsStatement reports whether k is one of the statement kinds.
func (k Kind) IsStatement() bool {
	return k >= Assignment && k <= Transaction
}

// IsLiteral reports whether k is a literal value or literal collection.
func (k Kind) IsLiteral() bool {
	return k >= String && k <= Map
}

// IsDeclaration reports whether k is a top-level declaration.
func (k Kind) IsDeclaration() bool {
	switch k {
	case Import, Model, Operation:
		return true
	}
	return false
}
