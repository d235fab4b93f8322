package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a slog level; stubd uses the four standard ones.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// Config describes one logger. The zero value logs text at info to stderr.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// FromStrings builds a Config from the log_level and log_format values of a
// config file or the matching flags. Empty strings select the defaults.
func FromStrings(level, format string) (Config, error) {
	var cfg Config
	if !IsValidLevel(level) {
		return cfg, fmt.Errorf("%w %q (debug, info, warn, error)", ErrUnknownLevel, level)
	}
	if !IsValidFormat(format) {
		return cfg, fmt.Errorf("%w %q (text, json)", ErrUnknownFormat, format)
	}
	cfg.Level = ParseLevel(level)
	cfg.Format = ParseFormat(format)
	return cfg, nil
}

// New returns a logger for cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, ReplaceAttr: durationsAsText}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// durationsAsText renders durations such as a route delay or the uptime as
// "1.5s" in JSON output too, instead of nanoseconds.
func durationsAsText(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindDuration {
		return slog.String(a.Key, a.Value.Duration().String())
	}
	return a
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps s to a level, ignoring case. Unknown values give info.
func ParseLevel(s string) Level {
	switch normalize(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsValidLevel reports whether s names a known log level. The empty string
// means the default level.
func IsValidLevel(s string) bool {
	switch normalize(s) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ParseFormat maps s to a format, ignoring case. Unknown values give text.
func ParseFormat(s string) Format {
	if normalize(s) == string(FormatJSON) {
		return FormatJSON
	}
	return FormatText
}

// IsValidFormat reports whether s names a known format. The empty string
// means text.
func IsValidFormat(s string) bool {
	switch Format(normalize(s)) {
	case "", FormatText, FormatJSON:
		return true
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
