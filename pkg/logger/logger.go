package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Version is stamped at build time with
// -ldflags "-X github.com/yanqian/video-summarizer/pkg/logger.Version=<tag>".
var Version = "dev"

// New constructs the slog logger shared by every component. LOG_LEVEL picks
// the threshold and LOG_FORMAT=text switches to logfmt output for local runs.
func New() *slog.Logger {
	return newLogger(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "video-summarizer", "version", Version)
}

func parseLevel(level string) slog.Leveler {
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
