// Package logging builds the zap loggers handed to the dataset readers and the command line tools.
package logging

import (
	"io"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is what the readers log through. They only log at debug level; warnings come from the
// tools built on top of them.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<name>.<subname>" writing to the same outputs.
	Sublogger(subname string) Logger
	Sync() error
}

const timeLayout = "2006-01-02T15:04:05.000Z0700"

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// NewLogger returns a logger printing Info and above to stdout, with UTC timestamps.
func NewLogger(name string) Logger {
	return NewWriterLogger(name, zapcore.InfoLevel, os.Stdout)
}

// NewWriterLogger returns a logger printing level and above to w, with UTC timestamps.
func NewWriterLogger(name string, level zapcore.Level, w io.Writer) Logger {
	core := zapcore.NewCore(consoleEncoder(), zapcore.AddSync(w), level)
	return newZapLogger(name, utcClock{}, core)
}

// NewTestLogger returns a logger printing every level through tb.Log, with local timestamps.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also keeps every entry for inspection.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observed, logs := observer.New(zapcore.DebugLevel)
	return newZapLogger("", zapcore.DefaultClock, testCore(tb), observed), logs
}

func testCore(tb testing.TB) zapcore.Core {
	return zapcore.NewCore(consoleEncoder(), zaptest.NewTestingWriter(tb), zap.DebugLevel)
}
