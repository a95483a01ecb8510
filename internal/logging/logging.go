// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger: a log/slog front end over the
// charmbracelet/log handler, carried through context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "avocado"

type loggerKey struct{}

// New returns a logger writing to w. Only warnings and errors are printed
// unless verbose is set, which enables debug output.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or a discarding logger
// when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
