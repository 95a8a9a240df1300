// Package logging builds the diagnostic logger used by the CLI.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps the CLI's global flags to a zap level.
func Level(verbose, debug bool) zapcore.Level {
	switch {
	case debug:
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to w. Command output goes to stdout;
// diagnostics only ever go here.
func New(w io.Writer, verbose, debug bool) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(w),
		Level(verbose, debug),
	)
	return zap.New(core)
}
