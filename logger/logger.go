package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the global structured logger.
// In production it writes JSON at info level; otherwise text at debug level.
func Setup(env string) {
	slog.SetDefault(New(env, os.Stdout))
}

// New builds the logger Setup installs, writing to w.
func New(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
