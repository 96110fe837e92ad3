package logger

import "go.uber.org/zap/zapcore"

// Verbosity is the number of -v flags given on the command line.
const (
	VerbosityUser  = 0 // results and errors only
	VerbosityInfo  = 1 // -v: startup, query and render summaries
	VerbosityDebug = 2 // -vv: per-stage details
	VerbosityTrace = 3 // -vvv: per-tick simulation state
	VerbosityAll   = 4 // -vvvv: full payload dumps
)

var levelNames = [...]string{
	VerbosityUser:  "User",
	VerbosityInfo:  "Info (-v)",
	VerbosityDebug: "Debug (-vv)",
	VerbosityTrace: "Trace (-vvv)",
	VerbosityAll:   "All (-vvvv)",
}

// VerbosityToLevel maps a -v count to the zap level that is enabled:
// none logs warnings, -v adds info, -vv and beyond add debug.
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

// ShouldLogTrace reports whether per-tick output is wanted (-vvv).
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// ShouldLogAll reports whether full payloads should be dumped (-vvvv).
func ShouldLogAll(verbosity int) bool {
	return verbosity >= VerbosityAll
}

// LevelName describes a verbosity for startup banners.
func LevelName(verbosity int) string {
	switch {
	case verbosity < VerbosityUser:
		return levelNames[VerbosityUser]
	case verbosity > VerbosityAll:
		return "All (-vvvv+)"
	}
	return levelNames[verbosity]
}
