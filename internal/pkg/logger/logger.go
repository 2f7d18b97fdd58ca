package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is stamped on every entry written by the process logger.
const ServiceName = "unirecords"

var defaultLogger zerolog.Logger

// Config controls the process-wide logger
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unknown or empty
	// names select info.
	Level string
	// Pretty switches to the human-readable console writer
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
}

// LevelFor resolves a configured level name, falling back to info.
func LevelFor(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Configure replaces the process logger. The zerolog global logger is kept
// in sync so libraries logging through zerolog/log end up in the same stream.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(LevelFor(cfg.Level))

	writer := out
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
	log.Logger = defaultLogger
}

func Debug() *zerolog.Event { return defaultLogger.Debug() }

func Info() *zerolog.Event { return defaultLogger.Info() }

func Warn() *zerolog.Event { return defaultLogger.Warn() }

func Error() *zerolog.Event { return defaultLogger.Error() }

// Default returns the process logger for components that take a zerolog.Logger.
func Default() zerolog.Logger {
	return defaultLogger
}

// Component returns the process logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

func init() {
	Configure(Config{Level: "info", Pretty: true})
}
