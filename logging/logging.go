// Package logging provides the operational logger shared by the invocation
// subsystem. Adapters log content hashes rather than content, so query text
// and prompts never land in logs at info level.
package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	opLogger atomic.Pointer[slog.Logger]
	logLevel = new(slog.LevelVar)
)

func init() {
	logLevel.Set(slog.LevelInfo)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	opLogger.Store(slog.New(handler))
}

// Op returns the operational logger.
func Op() *slog.Logger {
	return opLogger.Load()
}

// SetOutput replaces the operational logger with one writing JSON to the
// given handler options target. Used by the CLI when a log file is set.
func SetOutput(f *os.File) {
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel})
	opLogger.Store(slog.New(handler))
}

// SetLevelFromString sets the log level from "debug", "info", "warn" or
// "error". Unrecognized values are ignored.
func SetLevelFromString(level string) {
	switch level {
	case "debug", "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "info", "INFO":
		logLevel.Set(slog.LevelInfo)
	case "warn", "WARN", "warning", "WARNING":
		logLevel.Set(slog.LevelWarn)
	case "error", "ERROR":
		logLevel.Set(slog.LevelError)
	}
}

// Hash returns a short hex digest of s, for correlating log lines about the
// same query or prompt without logging its content.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
