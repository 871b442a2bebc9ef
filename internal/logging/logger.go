// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the shared application logger. It is a no-op logger until InitLogger
// runs, so packages may log safely during early startup.
var L = zap.NewNop()

// InitLogger builds the global logger. It runs before Viper has read any
// config file, so the development toggle comes straight from the environment.
func InitLogger() {
	development := os.Getenv("FIXTURES_LOG_DEVELOPMENT") == "true"
	logger, err := New(development)
	if err != nil {
		// Logging must never prevent startup.
		logger = zap.NewNop()
	}
	L = logger
}

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}
