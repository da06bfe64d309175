// Package logging configures process diagnostics and the per-request
// access log.
package logging

import (
	"io"
	"log/slog"
)

// Setup installs the process-wide diagnostic logger on w. Text by default,
// JSON lines when jsonLines is set.
func Setup(w io.Writer, jsonLines bool) *slog.Logger {
	var h slog.Handler
	if jsonLines {
		h = slog.NewJSONHandler(w, nil)
	} else {
		h = slog.NewTextHandler(w, nil)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
