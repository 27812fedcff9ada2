// Package logger is the process-wide structured logger.
//
// Calls take a message followed by alternating key/value pairs:
//
//	logger.Info("Server starting", "address", addr)
//	logger.Error("Failed to load treks", err)
//
// A lone trailing error (odd argument count) is logged under "error".
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	log = newLogger(os.Stderr, "development")
}

// Init configures the global logger for the given environment. Production
// writes JSON at info level; everything else writes console output at debug.
func Init(environment string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(os.Stderr, environment)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer, environment string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w, environment)
}

func newLogger(w io.Writer, environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.DebugLevel
	out := w
	if isProduction(environment) {
		level = zerolog.InfoLevel
	} else if f, ok := w.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isProduction(environment string) bool {
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "prod":
		return true
	default:
		return false
	}
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) {
	write(get().Debug(), msg, args)
}

func Info(msg string, args ...any) {
	write(get().Info(), msg, args)
}

func Warn(msg string, args ...any) {
	write(get().Warn(), msg, args)
}

func Error(msg string, args ...any) {
	write(get().Error(), msg, args)
}

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	write(get().Fatal(), msg, args)
}

func write(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}

	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			appendLone(ev, args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		appendField(ev, key, args[i+1])
	}

	ev.Msg(msg)
}

func appendLone(ev *zerolog.Event, v any) {
	switch val := v.(type) {
	case error:
		ev.Err(val)
	case string:
		ev.Str("detail", val)
	default:
		ev.Interface("detail", val)
	}
}

func appendField(ev *zerolog.Event, key string, v any) {
	switch val := v.(type) {
	case error:
		ev.AnErr(key, val)
	case string:
		ev.Str(key, val)
	case int:
		ev.Int(key, val)
	case int64:
		ev.Int64(key, val)
	case float64:
		ev.Float64(key, val)
	case bool:
		ev.Bool(key, val)
	case time.Duration:
		ev.Dur(key, val)
	case fmt.Stringer:
		ev.Stringer(key, val)
	default:
		ev.Interface(key, val)
	}
}

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// WithTraceID stores a request trace id on the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(traceIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
