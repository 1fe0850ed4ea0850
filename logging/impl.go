package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(name string, clock zapcore.Clock, cores ...zapcore.Core) *zapLogger {
	base := zap.New(zapcore.NewTee(cores...),
		zap.WithClock(clock),
		zap.AddCaller(),
		// report the caller of Debugw, not Debugw itself
		zap.AddCallerSkip(1),
	)
	return &zapLogger{sugar: base.Named(name).Sugar()}
}

func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Sublogger(subname string) Logger {
	return &zapLogger{sugar: l.sugar.Named(subname)}
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}

type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

func (utcClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
