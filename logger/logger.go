// Package logger holds the process-wide zap logger. Components receive a
// *zap.SugaredLogger through their constructors and name it; this package
// only decides encoding and level.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process logger, a no-op until Initialize runs.
	Logger = zap.NewNop().Sugar()
	// JSONOutput records the encoding chosen by the last Initialize.
	JSONOutput bool
)

// Initialize replaces Logger. JSON output suits collected server logs; the
// colored console encoder on stderr is used otherwise so stdout stays free
// for command results. Verbosity is the CLI -v count, see VerbosityToLevel.
func Initialize(jsonOutput bool, verbosity int) error {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(verbosity))

	var (
		zapLogger *zap.Logger
		err       error
	)
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
		if err != nil {
			return err
		}
	} else {
		zapLogger = zap.New(consoleCore(level))
	}

	JSONOutput = jsonOutput
	Logger = zapLogger.Sugar()
	return nil
}

func consoleCore(level zapcore.LevelEnabler) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)
}

// Cleanup flushes buffered entries. Sync errors on terminals are expected
// and ignored.
func Cleanup() {
	_ = Logger.Sync()
}

// Named returns a component logger derived from Logger.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}
