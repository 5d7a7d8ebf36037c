package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. JSON in production, text otherwise; level and format
// override the environment defaults when set.
func Init(env string, opts ...Option) {
	o := options{out: os.Stdout}
	if env == "production" {
		o.level = slog.LevelInfo
		o.format = "json"
	} else {
		o.level = slog.LevelDebug
		o.format = "text"
	}
	for _, opt := range opts {
		opt(&o)
	}

	var handler slog.Handler
	hopts := &slog.HandlerOptions{Level: o.level}
	if o.format == "json" {
		handler = slog.NewJSONHandler(o.out, hopts)
	} else {
		handler = slog.NewTextHandler(o.out, hopts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

type options struct {
	level  slog.Level
	format string
	out    io.Writer
}

type Option func(*options)

func WithLevel(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug":
			o.level = slog.LevelDebug
		case "info":
			o.level = slog.LevelInfo
		case "warn":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		}
	}
}

func WithFormat(format string) Option {
	return func(o *options) {
		if format == "json" || format == "text" {
			o.format = format
		}
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
