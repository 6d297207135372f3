package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// debug, info, warn, error
	Level string `json:"level" yaml:"level" toml:"level" default:"info"`
	// json or console
	Format string `json:"format" yaml:"format" toml:"format" default:"console" validate:"omitempty,oneof=json console"`
	// stdout, stderr, or file path
	Output     string `json:"output" yaml:"output" toml:"output" default:"stderr"`
	TimeFormat string `json:"time_format" yaml:"time_format" toml:"time_format"`
}

// New builds a zerolog logger from cfg. Empty fields fall back to
// info/console/stderr.
func New(cfg Config) (zerolog.Logger, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	return NewWithWriter(output, cfg.Format, cfg.TimeFormat).Level(level), nil
}

// NewWithWriter is New without level parsing or file handling.
func NewWithWriter(w io.Writer, format, timeFormat string) zerolog.Logger {
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
			NoColor:    true,
		}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
