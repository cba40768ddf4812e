package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. Production output (or an
// explicit LOG_FORMAT=json) is machine-readable JSON at info level; the
// default pretty format used during development is text with debug enabled.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	if cfg.IsProduction() || (cfg != nil && cfg.LogFormat == "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "lectern"))
}
