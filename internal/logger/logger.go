// Package logger holds the process-wide zap logger. It is a no-op until
// Initialize is called, so library packages may log unconditionally.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu sync.RWMutex
	// Logger is the global instance; never nil.
	Logger = zap.NewNop().Sugar()
	// JSONOutput records whether Initialize selected the JSON encoder.
	JSONOutput bool
)

// Initialize sets up the global logger. Logs always go to stderr: stdout
// belongs to the programs esspy runs.
func Initialize(verbosity int, jsonOutput bool) error {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(verbosity))

	var zl *zap.Logger
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		built, err := config.Build()
		if err != nil {
			return err
		}
		zl = built
	} else {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	mu.Lock()
	Logger = zl.Sugar()
	JSONOutput = jsonOutput
	mu.Unlock()
	return nil
}

// Named returns a child logger; packages keep one per component.
func Named(name string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return Logger.Named(name)
}

// Cleanup flushes buffered entries.
func Cleanup() {
	mu.RLock()
	defer mu.RUnlock()
	_ = Logger.Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return Logger
}

// Debugw logs a debug message with structured fields.
func Debugw(msg string, keysAndValues ...any) { current().Debugw(msg, keysAndValues...) }

// Infow logs an info message with structured fields.
func Infow(msg string, keysAndValues ...any) { current().Infow(msg, keysAndValues...) }

// Warnw logs a warning with structured fields.
func Warnw(msg string, keysAndValues ...any) { current().Warnw(msg, keysAndValues...) }

// Errorw logs an error with structured fields.
func Errorw(msg string, keysAndValues ...any) { current().Errorw(msg, keysAndValues...) }
