package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These levels control WHAT categories of output are shown, not just log severity.
// See output.go for the category system.
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + load progress, feed connection status
	VerbosityDebug = 2 // -vv: + per-event outcomes, timing, config details
	VerbosityTrace = 3 // -vvv: + rejected rows, SQL
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
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

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	default:
		if verbosity >= VerbosityTrace {
			return "Trace (-vvv)"
		}
		return "Unknown"
	}
}
