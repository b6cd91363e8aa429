// Package config loads eolp settings from YAML.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/eol/pkg/eol/parser"
)

// Config represents the complete eolp configuration
type Config struct {
	BaseDir  string                   `yaml:"-"` // Directory containing config file, for resolving relative paths
	Parser   ParserConfig             `yaml:"parser"`
	Output   OutputConfig             `yaml:"output"`
	Logging  LoggingConfig            `yaml:"logging"`
	Index    IndexConfig              `yaml:"index"`
	Profiles map[string]ProfileConfig `yaml:"profiles"` // Named overrides selected with --profile
}

// ParserConfig holds parser settings
type ParserConfig struct {
	MaxDepth int    `yaml:"max_depth"` // Nesting limit (default: 512)
	Entry    string `yaml:"entry"`     // Default entry rule for `eolp parse` (default: module)
}

// OutputConfig holds tree output settings
type OutputConfig struct {
	Format string `yaml:"format"` // sexpr, tree, json or source
	Gzip   bool   `yaml:"gzip"`   // gzip JSON output
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// IndexConfig holds declaration index settings
type IndexConfig struct {
	Driver     string        `yaml:"driver"`     // sqlite, postgres or mysql
	DSN        string        `yaml:"dsn"`        // Data source name; a file path for sqlite
	Roots      StringOrSlice `yaml:"roots"`      // Directories to scan
	Extensions StringOrSlice `yaml:"extensions"` // File extensions to index (default: .eol)
	Debounce   time.Duration `yaml:"debounce"`   // Quiet period before the watcher re-syncs
}

// ProfileConfig holds per-profile overrides.
// All fields are optional - only non-zero values override the base config
type ProfileConfig struct {
	Format  string        `yaml:"format"`  // Override output.format
	Driver  string        `yaml:"driver"`  // Override index.driver
	DSN     string        `yaml:"dsn"`     // Override index.dsn
	Logging LoggingConfig `yaml:"logging"` // Override logging settings
}

// StringOrSlice supports YAML fields that can be either a string or a slice of strings
type StringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler to handle both string and []string
func (s *StringOrSlice) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = []string{value.Value}
		return nil
	}

	var slice []string
	if err := value.Decode(&slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// Contains checks if the slice contains the given string
func (s StringOrSlice) Contains(str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: parser.DefaultMaxDepth,
			Entry:    string(parser.RuleModule),
		},
		Output: OutputConfig{
			Format: "sexpr",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Index: IndexConfig{
			Driver:     "sqlite",
			DSN:        "eolp.db",
			Roots:      StringOrSlice{"."},
			Extensions: StringOrSlice{".eol"},
			Debounce:   250 * time.Millisecond,
		},
	}
}
