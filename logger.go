package main

import (
	"go.uber.org/zap"
)

// newLogger writes to the configured log file. The terminal belongs to the
// TUI, so without a log file nothing is logged.
func newLogger(config *Config) (*zap.Logger, error) {
	if config.LogFile == "" {
		return zap.NewNop(), nil
	}

	var zapConfig zap.Config
	if config.LogLevel == "debug" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	switch config.LogLevel {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.OutputPaths = []string{config.LogFile}
	zapConfig.ErrorOutputPaths = []string{config.LogFile}

	return zapConfig.Build()
}
