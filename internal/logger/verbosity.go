package logger

import "go.uber.org/zap/zapcore"

const (
	VerbosityUser  = 0 // без флагов: только предупреждения и ошибки
	VerbosityInfo  = 1 // -v
	VerbosityDebug = 2 // -vv: finder hits, cache hits, phase timings
)

// VerbosityToLevel maps the count of -v flags to a zap level.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
