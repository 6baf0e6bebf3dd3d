package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/impact-hub-backend/internal/config"
)

const serviceName = "impact-hub"

// NewLogger builds the process logger on stderr and installs it as the slog
// default. Every record carries the service name.
//
// Format "json" is for deployments; anything else gives text lines with the
// source position. Level accepts slog's names plus offsets such as "warn+2";
// unparseable values fall back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	jsonFormat := strings.EqualFold(strings.TrimSpace(cfg.Format), "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !jsonFormat,
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if jsonFormat {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With(slog.String("service", serviceName))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
