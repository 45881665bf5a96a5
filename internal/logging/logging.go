// Package logging configures the process-wide logrus logger: level, color
// handling, and an optional log-file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fadechain/fadechain/internal/config"
)

// New returns a configured *logrus.Logger. Verbose enables debug level;
// ColorMode maps onto the text formatter's force/disable switches; when
// LogFile is set, output is duplicated to the file (without colors the
// formatter would otherwise embed escape codes in, so file logging forces
// colors off and relies on the terminal formatter only for stderr).
func New(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	switch cfg.ColorMode {
	case config.ColorAlways:
		formatter.ForceColors = true
	case config.ColorNever:
		formatter.DisableColors = true
	case config.ColorAuto:
		if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
			formatter.DisableColors = true
		}
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		formatter.DisableColors = true
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	log.SetFormatter(formatter)
	return log, nil
}
