// Package logging configures structured logging for the service.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"
)

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "json" if empty).
// If w is nil, writes to os.Stderr.
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler
	if format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", service),
		slog.String("version", version),
	)
}

// LogError logs err at error level. For oops errors the code and context
// are emitted as separate attributes.
func LogError(logger *slog.Logger, msg string, err error, args ...any) {
	attrs := append([]any{"error", err.Error()}, args...)
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Error(msg, attrs...)
}
