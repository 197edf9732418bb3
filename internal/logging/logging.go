// Package logging builds the zerolog logger shared by the server.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/diewo77/stock-admin/internal/config"
)

// NewLogger creates a structured zerolog.Logger writing JSON to stdout, or a
// console writer in DEV.
func NewLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.App.Dev {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return New(out, cfg.App.LogLevel)
}

// New creates a logger writing to out at level (info when unparsable).
func New(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).With().Timestamp().Str("service", "stock-admin").Logger().Level(lvl)
}
