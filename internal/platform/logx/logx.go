// internal/platform/logx/logx.go
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the logging facade used across the engine. Components receive a
// Logger, never a global, so tests can inject a silent one.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New builds a console logger on stderr. Level comes from OSINT_LOG_LEVEL.
func New() Logger {
	return NewWithLevel(parseLevel(os.Getenv("OSINT_LOG_LEVEL")))
}

// NewWithLevel creates a logger with a specific log level.
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewWithWriter creates a logger writing to w. Used by tests to capture output.
func NewWithWriter(w io.Writer, lvl Level) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}).Level(toZerolog(lvl)).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// NewSilent creates a logger that only outputs errors (quiet mode for the CLI presenter).
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

func (l *zeroLogger) With(kv ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(kv); i += 2 {
		ctx = ctx.Interface(toKey(kv[i]), kv[i+1])
	}
	return &zeroLogger{zl: ctx.Logger()}
}

func (l *zeroLogger) SetLevel(lvl Level) {
	l.zl = l.zl.Level(toZerolog(lvl))
}

func (l *zeroLogger) Debug(msg string, kv ...any) { emit(l.zl.Debug(), msg, kv) }
func (l *zeroLogger) Info(msg string, kv ...any)  { emit(l.zl.Info(), msg, kv) }
func (l *zeroLogger) Warn(msg string, kv ...any)  { emit(l.zl.Warn(), msg, kv) }

func (l *zeroLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	emit(l.zl.Error().Err(err), "", kv)
}

func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Interface(toKey(kv[i]), kv[i+1])
	}
	if len(kv)%2 != 0 {
		ev = ev.Interface(toKey(kv[len(kv)-1]), "(missing)")
	}
	ev.Msg(msg)
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return "field"
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
