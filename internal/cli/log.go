// Package cli implements the treedot command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Console
// results go to stdout through the lipgloss helpers in ui.go, while log lines
// and the spinner go to stderr, so piping `treedot render --dump` keeps only
// the data.
//
// # Commands
//
//   - render: Convert a stored tree (or one of its subtrees) to DOT, SVG or PNG
//   - browse: Pick a subtree interactively, then render it
//   - bbox: Print the bounding box of a binary STL mesh
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Each render
// run gets a short run id that is attached to every log line it emits, and
// the run's logger travels through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newRunID returns a short identifier for one render run.
func newRunID() string {
	return uuid.NewString()[:8]
}

// progress logs completion of an operation together with its elapsed time.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Rendered 42 nodes (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
