package goSignin

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal leveled logging surface the engine needs. Key-value
// pairs alternate keys and values, zerolog style.
type Logger interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NewZerologLogger wraps a zerolog.Logger as the engine [Logger].
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

func defaultLogger() Logger {
	l := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", "goSignin").
		Logger()
	return &zerologLogger{l: l}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Info(msg string, kv ...any)  { emitZerolog(z.l.Info(), msg, kv) }
func (z *zerologLogger) Warn(msg string, kv ...any)  { emitZerolog(z.l.Warn(), msg, kv) }
func (z *zerologLogger) Error(msg string, kv ...any) { emitZerolog(z.l.Error(), msg, kv) }

func emitZerolog(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
