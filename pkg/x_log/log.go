// Package x_log wires the zerolog root logger: styled console output through
// lipgloss, JSON when not attached to a terminal, rotated files via lumberjack.
package x_log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

//
// ---------- Init ----------

// Init sets up the root logger with the default config.
func Init() {
	cfg := DefaultConfig()
	InitWithConfig(&cfg, "")
}

// InitWithConfig sets up the root logger from cfg. module, when not empty, is
// attached to every entry.
func InitWithConfig(cfg *Config, module string) {
	InitWithWriter(cfg, module, os.Stderr)
}

// InitWithWriter is InitWithConfig with an explicit console target.
func InitWithWriter(cfg *Config, module string, console io.Writer) {
	c := *cfg
	applyDefaults(&c)

	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(buildWriter(&c, console)).With().Timestamp()
	if module != "" {
		ctx = ctx.Str("module", module)
	}
	log.Logger = ctx.Logger()
}

func buildWriter(cfg *Config, console io.Writer) io.Writer {
	var writers []io.Writer
	if cfg.ToConsole && console != nil {
		if useStyledConsole(cfg.Format, console) {
			styles := DefaultStylesByName(cfg.Style)
			styles.Out = console
			writers = append(writers, ConsoleWriterWithStyles(styles))
		} else {
			writers = append(writers, console)
		}
	}
	if cfg.ToFile {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	default:
		return zerolog.MultiLevelWriter(writers...)
	}
}

// useStyledConsole picks the console writer for "console", raw JSON for
// "json", and decides by terminal detection for "auto".
func useStyledConsole(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

//
// ---------- Scoped Loggers ----------

// New returns a child of the root logger tagged with module.
func New(module string) zerolog.Logger {
	return log.Logger.With().Str("module", module).Logger()
}

type ctxKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in ctx, or the root logger. A stored
// disabled logger is returned as is.
func From(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &log.Logger
}

//
// ---------- Shortcuts ----------

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
