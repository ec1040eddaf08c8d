// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls Setup.
type Options struct {
	Level string
	File  string
}

// Setup installs the global logger. Output always goes to stderr; when File
// is set it is also written to a rotated log file.
func Setup(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}

// For returns a child of the global logger tagged with the module, the
// component name and, when known, the execution ID of the current command.
func For(module, name, executionID string) zerolog.Logger {
	ctx := log.Logger.With().Str("module", module).Str("name", name)
	if executionID != "" {
		ctx = ctx.Str("execution_id", executionID)
	}
	return ctx.Logger()
}
