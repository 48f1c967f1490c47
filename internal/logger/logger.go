// Package logger provides the process-wide structured logger.
// Output goes to stderr so stdout stays reserved for command output.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/example/gatepass/internal/ctxutil"
)

var (
	level         = new(slog.LevelVar)
	defaultLogger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return defaultLogger
}

// SetLevel changes the minimum level of the process-wide logger.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetOutput redirects the process-wide logger. Used by tests and quiet modes.
func SetOutput(w io.Writer) {
	defaultLogger = newLogger(w)
}

// WithContext returns the default logger annotated with the operator and
// session found in ctx.
func WithContext(ctx context.Context) *slog.Logger {
	l := defaultLogger
	if op := ctxutil.OperatorFromContext(ctx); op != "" {
		l = l.With("operator", op)
	}
	if session := ctxutil.SessionFromContext(ctx); session != "" {
		l = l.With("session", session)
	}
	return l
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).WarnContext(ctx, msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).DebugContext(ctx, msg, args...)
}
