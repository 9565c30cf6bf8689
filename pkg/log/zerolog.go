package log

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// zerologLogger adapts zerolog.Logger to Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a Logger writing JSON lines to w at the given level.
func NewZerologLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// NewConsoleLogger creates a human-readable zerolog Logger for terminals.
func NewConsoleLogger(level Level) Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return NewZerologLogger(w, level)
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }
func (z *zerologLogger) Error(msg string, fields ...any) { z.emit(z.zl.Error(), msg, fields) }

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: z.zl.With().Fields(normalizeFields(fields)).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.zl.GetLevel() <= toZerologLevel(level)
}

func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	fields = normalizeFields(fields)
	// Structured error types carry their own zerolog fields.
	if len(fields) >= 2 && fields[0] == ErrAttrKey {
		if err, ok := fields[1].(error); ok {
			e = e.Err(err)
			var m zerolog.LogObjectMarshaler
			if errors.As(err, &m) {
				e = e.Object("error_detail", m)
			}
			fields = fields[2:]
		}
	}
	e.Fields(fields).Msg(msg)
}

// WarningBridge routes pkg/errors warnings into the given Logger. Warnings
// that implement zerolog.LogObjectMarshaler keep their structured fields when
// the Logger is zerolog-backed.
func WarningBridge(l Logger) func(error) {
	return func(w error) {
		if zl, ok := l.(*zerologLogger); ok {
			e := zl.zl.Warn()
			var m zerolog.LogObjectMarshaler
			if errors.As(w, &m) {
				e = e.EmbedObject(m)
			}
			e.Msg(w.Error())
			return
		}
		l.Warn(w.Error(), ErrorTypeKey, "warning")
	}
}

// InstallWarningBridge makes l the receiver of pkg/errors warnings.
func InstallWarningBridge(l Logger) {
	errors.SetZerologWarnFunc(WarningBridge(l))
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts a textual level into a Level.
func ParseLevel(s string) (Level, error) {
	l, err := ToLogLevel(s)
	if err != nil {
		return LevelInfo, err
	}
	return Level(l), nil
}
