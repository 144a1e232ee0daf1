package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Logger is a printf-style facade over slog. Every level is its own handle so
// callers can attach attributes per level without touching the others.
type Logger struct {
	info  *slog.Logger
	warn  *slog.Logger
	error *slog.Logger
}

type Options struct {
	Development bool
	SentryDSN   string
	Output      io.Writer
}

// New returns a development logger writing text to stdout.
func New() *Logger {
	return NewWithOptions(Options{Development: true})
}

// NewWithOptions builds the handler chain: text (development) or JSON
// (production) on the output, plus Sentry for errors when a DSN is set.
func NewWithOptions(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handlers []slog.Handler
	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	base := slog.New(handler)
	return &Logger{
		info:  base,
		warn:  base,
		error: base,
	}
}

// With returns a logger that adds the given attributes to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		info:  l.info.With(args...),
		warn:  l.warn.With(args...),
		error: l.error.With(args...),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Error(fmt.Sprintf(format, args...))
}

// Flush waits for buffered Sentry events.
func (l *Logger) Flush() {
	sentry.Flush(2 * time.Second)
}
