// Package logging wires zerolog for the analyzer.
//
//	log := logging.New(&logging.Config{Level: "debug", Format: "console"})
//	ctx := logging.WithLogger(context.Background(), &log)
//	logging.FromContext(ctx).Info().Str("folder", path).Msg("save folder opened")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the logger built by New
type Config struct {
	// Level is the minimum level written: trace, debug, info, warn, error
	Level string

	// Format is console or json
	Format string

	// Output defaults to stderr
	Output io.Writer

	NoColor bool
}

var defaultLogger = New(&Config{Level: "info", Format: "console", NoColor: os.Getenv("NO_COLOR") != ""})

// Default returns the process logger
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New builds a logger from cfg
func New(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var writer io.Writer = out
	if strings.EqualFold(cfg.Format, "console") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}

	level := ParseLevel(cfg.Level)
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level, falling back to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default one
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
