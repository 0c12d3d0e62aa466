package observability

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOptions controls the process logger built by InitLogger.
type LoggerOptions struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	// Bypass skips console formatting and writes raw JSON lines.
	Bypass bool
	// Out overrides stdout when set.
	Out io.Writer
}

func InitLogger(app string, opts LoggerOptions) zerolog.Logger {
	logger := zerolog.New(loggerOutput(opts)).Level(opts.Level)
	ctx := logger.With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	logger = ctx.Logger()
	zerolog.SetGlobalLevel(opts.Level)
	log.Logger = logger
	return logger
}

func loggerOutput(opts LoggerOptions) io.Writer {
	out := opts.Out
	noColor := opts.NoColor
	if out == nil {
		out = colorable.NewColorableStdout()
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			noColor = true
		}
	}
	if opts.Bypass {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}
}
