package logging

import (
	"io"
	"log/slog"
	"strings"

	"dbfrontend/internal/config"
)

// New builds a logger from cfg writing to w. Unknown levels fall back to info
// and any format other than "json" yields text output.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
