// Package logging builds the application's logrus logger and carries
// request-scoped entries through a context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKey string

const loggerKey = contextKey("logger")

// New creates a logger with the given level ("debug", "info", ...) and
// format ("text" or "json"). Output defaults to stdout when out is nil.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	return logger, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// WithLogger stores a logger on the context.
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored on ctx, or fallback when none is set.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if logger, ok := ctx.Value(loggerKey).(logrus.FieldLogger); ok {
		return logger
	}
	return fallback
}
