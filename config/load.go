package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/parser"
)

// Drivers lists the supported index backends.
var Drivers = []string{"sqlite", "postgres", "mysql"}

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. The path is empty when defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg := Defaults()
		cfg.BaseDir, _ = os.Getwd()
		return cfg, "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "resolving config path")
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading config")
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.BaseDir = baseDir

	for i, root := range cfg.Index.Roots {
		cfg.Index.Roots[i] = cfg.resolve(root)
	}
	if cfg.Index.Driver == "sqlite" {
		cfg.Index.DSN = cfg.resolveSQLite(cfg.Index.DSN)
	}
	if cfg.Logging.Output != "stderr" && cfg.Logging.Output != "stdout" {
		cfg.Logging.Output = cfg.resolve(cfg.Logging.Output)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// resolveSQLite resolves a sqlite file path, leaving in-memory and URI
// names alone.
func (c *Config) resolveSQLite(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return c.resolve(dsn)
}

// Validate checks the configuration for errors.
// Call this again after applying CLI overrides.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Parser.MaxDepth < 1 {
		errs = append(errs, fmt.Sprintf("invalid parser.max_depth: %d (must be positive)", cfg.Parser.MaxDepth))
	}
	if !isRule(cfg.Parser.Entry) {
		errs = append(errs, fmt.Sprintf("invalid parser.entry: %s (must be one of %s)", cfg.Parser.Entry, ruleNames()))
	}

	if _, err := format.ParseStyle(cfg.Output.Format); err != nil {
		errs = append(errs, fmt.Sprintf("invalid output.format: %s (must be sexpr, tree, json or source)", cfg.Output.Format))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}
	if cfg.Logging.Output == "" {
		errs = append(errs, "logging.output is required (stderr, stdout or a file path)")
	}

	if !StringOrSlice(Drivers).Contains(cfg.Index.Driver) {
		errs = append(errs, fmt.Sprintf("invalid index.driver: %s (must be sqlite, postgres or mysql)", cfg.Index.Driver))
	}
	for i, ext := range cfg.Index.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("index.extensions[%d]: %q must start with '.'", i, ext))
		}
	}
	if cfg.Index.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid index.debounce: %s (must not be negative)", cfg.Index.Debounce))
	}

	if len(errs) > 0 {
		return errors.Newf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	for _, root := range cfg.Index.Roots {
		if info, err := os.Stat(root); err != nil {
			warnings = append(warnings, fmt.Sprintf("index root %s does not exist", root))
		} else if !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("index root %s is not a directory", root))
		}
	}

	if cfg.Index.Driver != "sqlite" && cfg.Index.DSN == "" {
		warnings = append(warnings, fmt.Sprintf("index: %s driver selected but dsn not configured", cfg.Index.Driver))
	}

	if cfg.Output.Gzip && cfg.Output.Format != "json" {
		warnings = append(warnings, "output.gzip only applies to json output and will be ignored")
	}

	return warnings
}

// resolveConfigPath finds the config file to use. An empty result with a
// nil error means no file was found.
// Search order: explicit path > EOLP_CONFIG env > ./eolp.yaml > ~/.config/eolp/eolp.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Newf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("EOLP_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", errors.Newf("EOLP_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("eolp.yaml"); err == nil {
		return "eolp.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "eolp", "eolp.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// ApplyProfile applies a named profile to the configuration.
// Only non-zero values in the profile override the base config.
// Returns an error if the profile name doesn't exist.
func ApplyProfile(cfg *Config, name string) error {
	if cfg.Profiles == nil {
		return errors.New("no profiles defined in config")
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		var names []string
		for n := range cfg.Profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return errors.Newf("unknown profile %q (available: %s)", name, strings.Join(names, ", "))
	}

	if p.Format != "" {
		cfg.Output.Format = p.Format
	}
	if p.Driver != "" {
		cfg.Index.Driver = p.Driver
	}
	if p.DSN != "" {
		cfg.Index.DSN = p.DSN
		if cfg.Index.Driver == "sqlite" {
			cfg.Index.DSN = cfg.resolveSQLite(p.DSN)
		}
	}
	if p.Logging.Level != "" {
		cfg.Logging.Level = p.Logging.Level
	}
	if p.Logging.Format != "" {
		cfg.Logging.Format = p.Logging.Format
	}
	if p.Logging.Output != "" {
		cfg.Logging.Output = p.Logging.Output
		if p.Logging.Output != "stderr" && p.Logging.Output != "stdout" {
			cfg.Logging.Output = cfg.resolve(p.Logging.Output)
		}
	}

	return nil
}

func isRule(name string) bool {
	for _, r := range parser.Rules {
		if string(r) == name {
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
