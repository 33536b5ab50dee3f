package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/rs/zerolog"
)

func InitLogger() *zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}

	logger := zerolog.New(consoleWriter).
		With().
		Timestamp().
		Caller().
		Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.DefaultContextLogger = &logger
	return &logger
}

// InitLoggerWithConfig builds the context default logger from the logging section.
// A file path switches output to JSON lines appended to that file.
func InitLoggerWithConfig(cfg config.LoggingConfig) (*zerolog.Logger, error) {
	var out io.Writer = os.Stdout
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	} else if cfg.Console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.DefaultContextLogger = &logger
	return &logger, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithFields returns a context whose logger carries the given string fields.
func WithFields(ctx context.Context, kv ...string) context.Context {
	l := zerolog.Ctx(ctx).With()
	for i := 0; i+1 < len(kv); i += 2 {
		l = l.Str(kv[i], kv[i+1])
	}
	logger := l.Logger()
	return logger.WithContext(ctx)
}
