package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

type Logger struct {
	*slog.Logger
}

// New builds a logger from config. Output defaults to stdout; tests pass
// their own writer via NewWithWriter.
func New(cfg *Config) (*Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *Config, w io.Writer) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}
	return &Logger{slog.New(newHandler(cfg, w))}, nil
}

func newHandler(cfg *Config, w io.Writer) slog.Handler {
	level := cfg.slogLevel()

	if cfg.Format == "text" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  cfg.AddSource,
			TimeFormat: "15:04:05",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	})
}

// Component returns a child logger tagged with the owning component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.Logger.With("component", name)}
}

// Noop returns a logger that discards everything. Used in tests.
func Noop() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}
