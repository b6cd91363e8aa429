// Command eolp parses, checks, formats and indexes eol source files.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/eol/config"
)

// Version is set at compile time via -ldflags
var Version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exitError carries a specific exit status. Its message, if any, has
// already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app holds what every command shares: streams, configuration and the
// logger.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	profile    string
	logLevel   string

	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.log.Sync()
	if a.closeLog != nil {
		a.closeLog()
	}
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(stderr, "  hint: %s\n", hint)
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eolp",
		Short: "eol parser and tooling",
		Long: `
	eolp parses eol sources into syntax trees and builds tools on top of them:
	syntax checking, canonical formatting, outlines and a declaration index.
	`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: $EOLP_CONFIG, ./eolp.yaml, ~/.config/eolp/eolp.yaml)")
	flags.StringVar(&a.profile, "profile", "", "apply a named profile from the config file")
	flags.StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		a.parseCmd(),
		a.checkCmd(),
		a.fmtCmd(),
		a.outlineCmd(),
		a.indexCmd(),
		a.watchCmd(),
		a.replCmd(),
		a.describeCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger before any command
// runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.LoadWithPath(a.configPath, os.Getenv)
	if err != nil {
		return err
	}
	if a.profile != "" {
		if err := config.ApplyProfile(cfg, a.profile); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	log, closeLog, err := newLogger(cfg.Logging, a.stdout, a.stderr)
	if err != nil {
		return err
	}
	a.log, a.closeLog = log, closeLog

	if path != "" {
		a.log.Debug("loaded config", zap.String("path", path))
	}
	for _, w := range config.Warnings(cfg) {
		a.log.Warn(w)
	}
	return nil
}

// readSource reads a file, or stdin for "-".
func (a *app) readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		return string(data), errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

func joinNames[T ~string](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = string(it)
	}
	return strings.Join(names, ", ")
}
