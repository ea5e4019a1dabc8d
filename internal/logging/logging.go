// Package logging provides structured logging for the quote engine.
//
// One global zap logger serves every layer. Components take a named child
// with Named and tag their records with the domain fields below, so a
// recompute can be followed by quote, resource, entry and budget.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is the process-wide logger, replaced by Initialize and UseNop
var logger *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is the minimum level; unknown levels fall back to info
	Level string `json:"level"`

	// Format is json or console
	Format string `json:"format"`

	// Output is stdout, stderr or a file the records are appended to
	Output string `json:"output"`

	// Development adds stack traces from the error level on
	Development bool `json:"development"`
}

// DefaultConfig logs info and above to stderr in console format
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// Initialize replaces the global logger
func Initialize(cfg Config) error {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	options := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		options = append(options, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	logger = zap.New(zapcore.NewCore(newEncoder(cfg.Format), sink, level), options...)
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(config)
	}
	return zapcore.NewJSONEncoder(config)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr", "":
		return zapcore.AddSync(os.Stderr), nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

// InitializeDefault sets up the logger with DefaultConfig
func InitializeDefault() {
	_ = Initialize(DefaultConfig())
}

// UseNop silences logging, used by tests and embedding callers
func UseNop() {
	logger = zap.NewNop()
}

// Sync flushes the logger
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// Named returns a logger scoped to an engine component
func Named(component string) *zap.Logger {
	return logger.Named(component)
}

// Entry is the field naming a catalog entry
func Entry(id string) zap.Field {
	return zap.String("entry", id)
}

// Resource is the field naming a quoted resource
func Resource(name string) zap.Field {
	return zap.String("resource", name)
}

// Quote is the field naming a quote
func Quote(id string) zap.Field {
	return zap.String("quote", id)
}

// Category is the field naming a resource category
func Category(c string) zap.Field {
	return zap.String("category", c)
}

// Budget is the field naming a budget
func Budget(name string) zap.Field {
	return zap.String("budget", name)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func init() {
	InitializeDefault()
}
