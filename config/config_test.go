package config

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestStringOrSlice_SingleString(t *testing.T) {
	yamlData := `roots: "./models"`

	var config struct {
		Roots StringOrSlice `yaml:"roots"`
	}

	if err := yaml.Unmarshal([]byte(yamlData), &config); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if len(config.Roots) != 1 {
		t.Errorf("Expected 1 root, got %d", len(config.Roots))
	}
	if config.Roots[0] != "./models" {
		t.Errorf("Expected ./models, got %s", config.Roots[0])
	}
}

func TestStringOrSlice_MultipleStrings(t *testing.T) {
	yamlData := `
roots:
  - ./models
  - ./scripts
`
	var config struct {
		Roots StringOrSlice `yaml:"roots"`
	}

	if err := yaml.Unmarshal([]byte(yamlData), &config); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if len(config.Roots) != 2 {
		t.Fatalf("Expected 2 roots, got %d", len(config.Roots))
	}
	if config.Roots[0] != "./models" || config.Roots[1] != "./scripts" {
		t.Errorf("Expected [./models ./scripts], got %v", config.Roots)
	}
}

func TestStringOrSlice_Mapping(t *testing.T) {
	var config struct {
		Roots StringOrSlice `yaml:"roots"`
	}
	if err := yaml.Unmarshal([]byte("roots: {a: b}"), &config); err == nil {
		t.Error("Expected an error decoding a mapping")
	}
}

func TestStringOrSlice_Contains(t *testing.T) {
	s := StringOrSlice{".eol", ".eql"}

	if !s.Contains(".eol") {
		t.Error("Expected Contains to return true for existing item")
	}
	if s.Contains(".etl") {
		t.Error("Expected Contains to return false for non-existing item")
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Index.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %s", cfg.Index.Debounce)
	}
	if !cfg.Index.Extensions.Contains(".eol") {
		t.Errorf("expected .eol extension, got %v", cfg.Index.Extensions)
	}
}

func TestParseSections(t *testing.T) {
	yamlData := `
parser:
  max_depth: 64
  entry: expr
output:
  format: json
  gzip: true
index:
  driver: postgres
  dsn: postgres://localhost/eol
  extensions: [.eol, .eql]
  debounce: 1s
`
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(yamlData), cfg); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cfg.Parser.MaxDepth != 64 || cfg.Parser.Entry != "expr" {
		t.Errorf("parser section wrong: %+v", cfg.Parser)
	}
	if cfg.Output.Format != "json" || !cfg.Output.Gzip {
		t.Errorf("output section wrong: %+v", cfg.Output)
	}
	if cfg.Index.Driver != "postgres" || cfg.Index.Debounce != time.Second {
		t.Errorf("index section wrong: %+v", cfg.Index)
	}
	if strings.Join(cfg.Index.Extensions, ",") != ".eol,.eql" {
		t.Errorf("expected extensions .eol,.eql, got %v", cfg.Index.Extensions)
	}
	// untouched sections keep their defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.Logging.Level)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}
