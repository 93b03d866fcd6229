// Package logging configures the process logger. The TUI owns the
// terminal, so all output goes to a file under the user config dir.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds a file-backed JSON logger at the given level.
// Level parse failures fall back to info rather than aborting startup.
func Init(level, path string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	return nil
}

// L returns the process logger.
func L() *zap.Logger {
	return logger
}

// Sync flushes buffered entries. Called on shutdown.
func Sync() {
	_ = logger.Sync()
}
