package tracing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

const (
	ExecutionTime = "exe_time"
	InnerError    = "inner_error"
	RunId         = "run_id"
	UnitId        = "unit_id"
	UnitPath      = "unit_path"
	UnitUrl       = "unit_url"
	PublishDate   = "publish_date"
	CurrencyPair  = "currency_pair"
	Rate          = "rate"
	CachePath     = "cache_path"
	Processed     = "processed"
	Skipped       = "skipped"
	Total         = "total"
	ProxyUrl      = "proxy_url"
	ProxyRes      = "proxy_res"
	Scope         = "scope"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	return NewLogger(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL")))
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})).With(RunId, uuid.NewString())

	return &Logger{log: logger, ctx: context.Background()}
}

// NewDiscardLogger is used by tests that do not assert on log output.
func NewDiscardLogger() *Logger {
	return NewLogger(io.Discard, slog.LevelError)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
