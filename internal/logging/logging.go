// Package logging configures the zerolog logger shared by the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Setup builds a console logger writing to w.
// Verbosity 0 logs warnings and errors only, 1 adds info, 2 adds debug
// and anything above enables trace level with caller information.
func Setup(verbosity int, w io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}

	logger := zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()
	if verbosity >= 3 {
		logger = logger.With().Caller().Logger()
	}
	logger.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
	return logger
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
