package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var pid = os.Getpid()

type Logger struct {
	logger *zerolog.Logger
}

// Options of a new logger.
type Options struct {
	Debug   bool
	Console bool
	NoColor bool
	// Tag is the service name shown in console mode.
	Tag string
	Out io.Writer
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func New(isDebug bool) *Logger {
	zerolog.SetGlobalLevel(level(isDebug))
	logger := zerolog.New(os.Stderr).With().Timestamp().Fields(map[string]any{"pid": pid}).Logger()
	return &Logger{logger: &logger}
}

func NewConsole(isDebug bool, tag string, noColor bool) *Logger {
	return NewWithOptions(Options{Debug: isDebug, Console: true, NoColor: noColor, Tag: tag})
}

func NewWithOptions(opts Options) *Logger {
	zerolog.SetGlobalLevel(level(opts.Debug))
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if !opts.Console {
		logger := zerolog.New(out).With().Timestamp().Str("s", opts.Tag).Fields(map[string]any{"pid": pid}).Logger()
		return &Logger{logger: &logger}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.0000", NoColor: opts.NoColor,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			"pid",
			zerolog.LevelFieldName,
			"s",
			"c",
			"sid",
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{"s", "c", "sid", "pid"},
	}
	if output.NoColor {
		output.FormatMessage = func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%v", i)
		}
	}
	logger := zerolog.New(output).With().
		Str("pid", fmt.Sprintf("%4x", pid)).
		Str("s", opts.Tag).
		Str("c", " ").
		Timestamp().Logger()
	return &Logger{logger: &logger}
}

func Default() *Logger { return &Logger{logger: &log.Logger} }

// Nop returns a logger that drops everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{logger: &l}
}

// Component returns a child logger tagged with the name of a component.
func (l *Logger) Component(name string) *Logger { return l.Extend(l.With().Str("c", name)) }

// Session returns a child logger tagged with a recording session id.
func (l *Logger) Session(id string) *Logger { return l.Extend(l.With().Str("sid", id)) }

func (l *Logger) GetLevel() zerolog.Level { return l.logger.GetLevel() }

// With creates a child logger with the field added to its context.
func (l *Logger) With() zerolog.Context { return l.logger.With() }

// Extend adds some additional context to the existing logger.
func (l *Logger) Extend(ctx zerolog.Context) *Logger {
	logger := ctx.Logger()
	return &Logger{logger: &logger}
}

func (l *Logger) Trace() *zerolog.Event { return l.logger.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Fatal starts a new message with fatal level.
// The os.Exit(1) function is called by the Msg method.
func (l *Logger) Fatal() *zerolog.Event { return l.logger.Fatal() }
