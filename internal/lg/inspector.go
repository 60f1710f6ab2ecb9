package lg

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Inspector records whether a warning or an error was written through a
// logger it is attached to. One Inspector belongs to one invocation.
type Inspector struct {
	warning atomic.Bool
	error   atomic.Bool
}

func NewInspector() *Inspector {
	return &Inspector{}
}

// Hook satisfies zap.Hooks.
func (i *Inspector) Hook(e zapcore.Entry) error {
	i.observe(e.Level)
	return nil
}

func (i *Inspector) observe(level zapcore.Level) {
	switch {
	case level == zapcore.WarnLevel:
		i.warning.Store(true)
	case level >= zapcore.ErrorLevel:
		i.error.Store(true)
	}
}

func (i *Inspector) HasWarning() bool { return i != nil && i.warning.Load() }
func (i *Inspector) HasError() bool   { return i != nil && i.error.Load() }

// Failed reports whether the gate trips. A nil inspector counts as failed:
// nothing was watching, so a clean run cannot be claimed.
func (i *Inspector) Failed() bool {
	return i == nil || i.HasWarning() || i.HasError()
}

func (i *Inspector) Reset() {
	i.warning.Store(false)
	i.error.Store(false)
}

// WithInspector returns a logger that reports every written entry to in.
// Entries filtered out by the logger's level never reach the inspector.
func WithInspector(l Logger, in *Inspector) Logger {
	if in == nil {
		return l
	}
	if z, ok := l.(*zapLogger); ok {
		return &zapLogger{l: z.l.WithOptions(zap.Hooks(in.Hook))}
	}
	return &inspectingLogger{next: l, in: in}
}

// inspectingLogger covers loggers that are not zap-backed.
type inspectingLogger struct {
	next Logger
	in   *Inspector
}

func (l *inspectingLogger) Info(msg string, fields ...Field)  { l.next.Info(msg, fields...) }
func (l *inspectingLogger) Debug(msg string, fields ...Field) { l.next.Debug(msg, fields...) }
func (l *inspectingLogger) Sync() error                       { return l.next.Sync() }

func (l *inspectingLogger) Warn(msg string, fields ...Field) {
	l.in.observe(zapcore.WarnLevel)
	l.next.Warn(msg, fields...)
}

func (l *inspectingLogger) Error(msg string, fields ...Field) {
	l.in.observe(zapcore.ErrorLevel)
	l.next.Error(msg, fields...)
}

func (l *inspectingLogger) With(fields ...Field) Logger {
	return &inspectingLogger{next: l.next.With(fields...), in: l.in}
}
