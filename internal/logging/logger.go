// Package logging builds the zap logger shared by the UI and the CLI.
package logging

import (
	"fmt"

	"github.com/nconklindev/manifest/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for cfg. Logs go to cfg.LogFile when set. Otherwise
// console commands log to stderr and the interactive UI, which owns the
// terminal, gets a no-op logger.
func New(cfg *config.Config, console bool) (*zap.Logger, error) {
	if cfg.LogFile == "" && !console {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
	} else {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.OutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(config.AppName), nil
}
