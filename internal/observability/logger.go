// Package observability holds process-wide logging and metrics plumbing.
package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// CLILogger is the console logger for CLI commands.
	CLILogger = zap.NewNop()

	// ServerLogger is the structured logger for the HTTP server.
	ServerLogger = zap.NewNop()
)

// InitCLILogger configures the console logger. Verbose switches the level
// to debug.
func InitCLILogger(service string, verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return
	}
	CLILogger = logger.Named(service)
}

// InitServerLogger configures the structured JSON logger for server mode.
func InitServerLogger(service, level string) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build()
	if err != nil {
		return
	}
	ServerLogger = logger.Named(service)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// MaskKey redacts an API key for logging, keeping the first and last four
// characters.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
