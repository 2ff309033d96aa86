// Package log provides a thin wrapper around zap.
// A process-wide default logger is configured once by the CLI layer,
// components pick named children via Default().Named(...).
package log

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Logger struct {
		l     *zap.Logger
		level zap.AtomicLevel
	}
	Field = zap.Field
)

// field helpers so callers don't need to import zap directly
var (
	Skip     = zap.Skip
	Binary   = zap.Binary
	Bool     = zap.Bool
	Duration = zap.Duration
	Float64  = zap.Float64
	Float32  = zap.Float32
	Int      = zap.Int
	Int32    = zap.Int32
	Int64    = zap.Int64
	Uint32   = zap.Uint32
	String   = zap.String
	Time     = zap.Time
	Any      = zap.Any
	ErrorF   = zap.Error
)

const (
	DebugLevel = zap.DebugLevel
	InfoLevel  = zap.InfoLevel
	WarnLevel  = zap.WarnLevel
	ErrorLevel = zap.ErrorLevel
)

type (
	Level  = zapcore.Level
	Option func(*loggerConfig)
)

type loggerConfig struct {
	filters string
	format  string
}

// WithFilters installs zapfilter rules (e.g. "debug:position,strategy.*")
// evaluated against the logger names.
func WithFilters(rules string) Option {
	return func(cfg *loggerConfig) { cfg.filters = rules }
}

// WithFormat selects the encoder, "json" or "text".
func WithFormat(format string) Option {
	return func(cfg *loggerConfig) { cfg.format = format }
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

func init() {
	defaultLogger = DevLogger()
}

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

// ResetDefault replaces the process-wide logger.
func ResetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// DevLogger returns a console logger at debug level. Used in tests and
// before the CLI had a chance to configure logging.
func DevLogger() *Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		level)
	return &Logger{l: zap.New(core), level: level}
}

// New builds a logger from CLI settings.
func New(lvl Level, opts ...Option) *Logger {
	cfg := &loggerConfig{format: "text"}
	for _, opt := range opts {
		opt(cfg)
	}
	level := zap.NewAtomicLevelAt(lvl)
	var enc zapcore.Encoder
	if cfg.format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	if cfg.filters != "" {
		core = zapfilter.NewFilteringCore(core, zapfilter.MustParseRules(cfg.filters))
	}
	return &Logger{l: zap.New(core), level: level}
}

// ParseLevel converts a textual level ("debug", "info", ...).
func ParseLevel(text string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return zap.InfoLevel, fmt.Errorf("unknown log level %q: %w", text, err)
	}
	return l, nil
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) SetLevel(lvl Level) { l.level.SetLevel(lvl) }

func (l *Logger) Sync() error { return l.l.Sync() }

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }

func (l *Logger) Info(msg string, fields ...Field) { l.l.Info(msg, fields...) }

func (l *Logger) Warn(msg string, fields ...Field) { l.l.Warn(msg, fields...) }

func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
