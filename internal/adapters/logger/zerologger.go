package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the ports.Logger interface on top of
// rs/zerolog, producing structured JSON lines for deployments where the
// plain stderr logger is not enough.
type ZeroLogger struct {
	log zerolog.Logger
}

// NewZeroLogger creates a zerolog-backed logger writing to os.Stderr.
func NewZeroLogger(level LogLevel) *ZeroLogger {
	return NewZeroLoggerTo(os.Stderr, level)
}

// NewZeroLoggerTo creates a zerolog-backed logger writing to the given
// writer.
func NewZeroLoggerTo(w io.Writer, level LogLevel) *ZeroLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZeroLogger{log: zl}
}

func toZerologLevel(l LogLevel) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func emit(ev *zerolog.Event, err error, msg string, fields []map[string]interface{}) {
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 && fields[0] != nil {
		ev = ev.Fields(fields[0])
	}
	ev.Msg(msg)
}

// Debug logs a message at Debug level.
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	emit(l.log.Debug(), nil, msg, fields)
}

// Info logs a message at Info level.
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	emit(l.log.Info(), nil, msg, fields)
}

// Warn logs a message at Warning level.
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	emit(l.log.Warn(), nil, msg, fields)
}

// Error logs an error message at Error level.
func (l *ZeroLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	emit(l.log.Error(), err, msg, fields)
}
