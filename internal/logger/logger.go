// Package logger builds the JSON slog logger shared by every component.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "identity"

// ParseLevel 將 debug/info/warn/error 轉為 slog.Level，未知值視為 info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New 建立 JSON logger；w 為 nil 時輸出到 stdout
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})
	return slog.New(handler).With(slog.String("service", serviceName))
}
