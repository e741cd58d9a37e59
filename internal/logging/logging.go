// Package logging holds the process-wide slog logger. The default writes
// text to stderr at info level; Configure or InitFromEnv replace it.
package logging

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type Options struct {
	Level string // debug|info|warn|error
	JSON  bool
}

var def atomic.Value

func init() {
	def.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func Configure(opts Options) {
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(os.Stderr, cfg)
	} else {
		h = slog.NewTextHandler(os.Stderr, cfg)
	}
	def.Store(slog.New(h))
}

// L returns the current default logger.
func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// InitFromEnv configures the logger from CSVSED_LOG_LEVEL and
// CSVSED_LOG_JSON before any config file is read.
func InitFromEnv() {
	opts := Options{Level: os.Getenv("CSVSED_LOG_LEVEL")}
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("CSVSED_LOG_JSON"))); err == nil {
		opts.JSON = b
	}
	Configure(opts)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
