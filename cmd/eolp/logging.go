package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sambeau/eol/config"
)

// newLogger builds a zap logger from the logging section: console
// encoding for "text", JSON for "json". Output goes to stdout, stderr or
// a file opened for appending; the returned func closes that file.
func newLogger(cfg config.LoggingConfig, stdout, stderr io.Writer) (*zap.Logger, func() error, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, errors.Wrapf(err, "logging level %q", cfg.Level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	closeLog := func() error { return nil }
	var w io.Writer
	switch cfg.Output {
	case "stderr", "":
		w = stderr
	case "stdout":
		w = stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening log file")
		}
		w, closeLog = f, f.Close
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), closeLog, nil
}
