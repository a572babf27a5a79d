package telemetry

import (
	"log/slog"
	"os"

	"github.com/arcwright/lambda-gateway/config"
)

// NewLogger returns the process-wide structured logger: JSON in
// production, human-readable text when cfg.Dev is set — matching the
// teacher's slog-everywhere convention.
func NewLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Dev {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Dev {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
