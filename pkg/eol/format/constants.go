// Package format renders eol syntax trees: as s-expressions, as an
// indented tree, as JSON and as canonical eol source.
// Layout thresholds for source output are set here.
package format

// MaxLineWidth is the target maximum line length for source output.
const MaxLineWidth = 92

// Threshold percentages (of MaxLineWidth). A collection literal or
// argument list longer than its threshold is broken over several lines.
const (
	ThresholdCollectionPercent = 60
	ThresholdArgsPercent       = 70
)

var (
	CollectionThreshold = MaxLineWidth * ThresholdCollectionPercent / 100 // 55 chars
	ArgsThreshold       = MaxLineWidth * ThresholdArgsPercent / 100       // 64 chars
)

// Indentation - gofmt style: tabs for indentation
const (
	TabWidth     = 4
	IndentWidth  = TabWidth
	IndentString = "\t"
)

// BlankLinesBetweenDefs separates top-level models and operations.
const BlankLinesBetweenDefs = 1
