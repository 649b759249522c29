// Package app wires configuration and infrastructure into running services.
package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xbank/xbank/pkg/config"
)

// NewLogger builds the application logger from config. The json format is
// meant for production; anything else gets the colored console handler.
func NewLogger(cfg config.Log) *slog.Logger {
	level := parseLevel(cfg.Level)
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           toCharmLevel(level),
		ReportTimestamp: true,
		Prefix:          "xbank",
	})
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toCharmLevel(l slog.Level) log.Level {
	switch l {
	case slog.LevelDebug:
		return log.DebugLevel
	case slog.LevelWarn:
		return log.WarnLevel
	case slog.LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
