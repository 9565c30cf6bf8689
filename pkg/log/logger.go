package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewSlogLogger(slog.Default())
)

// SetupLogger configures the process-wide slog default with a JSON handler
// wrapped by the stacktrace handler and makes it the package default Logger.
func SetupLogger(loglevel string) error {
	return SetupLoggerTo(os.Stdout, loglevel)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	l := slog.New(WrapByErrFmtHandler(handler))
	slog.SetDefault(l)
	SetLogger(NewSlogLogger(l))
	return nil
}

// ToLogLevel converts a textual level into a slog.Level.
func ToLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// GetLogger returns the package default Logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default Logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the package default Logger. A nil logger installs Nop.
func SetLogger(l Logger) {
	if l == nil {
		l = Nop()
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, normalizeFields(fields)...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, normalizeFields(fields)...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, normalizeFields(fields)...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.l.Error(msg, normalizeFields(fields)...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(normalizeFields(fields)...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// normalizeFields turns a leading error value into an ErrAttrKey pair.
func normalizeFields(fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	if err, ok := fields[0].(error); ok {
		out := make([]any, 0, len(fields)+1)
		out = append(out, ErrAttrKey, err)
		return append(out, fields[1:]...)
	}
	return fields
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any)                {}
func (nopLogger) Info(string, ...any)                 {}
func (nopLogger) Warn(string, ...any)                 {}
func (nopLogger) Error(string, ...any)                {}
func (n nopLogger) With(...any) Logger                { return n }
func (nopLogger) Enabled(context.Context, Level) bool { return false }
