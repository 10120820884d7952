// Package logger provides the debug logger. The TUI owns the terminal, so
// diagnostics go to a rotated file instead of stderr; without --verbose
// the logger is a no-op.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger. With debug disabled it returns a
// no-op logger so call sites never need nil checks.
func New(path string, debug bool) *zap.SugaredLogger {
	if !debug {
		return zap.NewNop().Sugar()
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MiB per file
		MaxBackups: 2,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(sink),
		zapcore.DebugLevel,
	)
	return zap.New(core).Sugar()
}
