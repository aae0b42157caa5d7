// Package logger provides the zap-backed logging adapter.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface used throughout the application.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Options configure the application logger.
type Options struct {
	// Level is the console verbosity: debug, info, warn or error.
	Level string

	// FilePath receives a JSON debug log of every event, regardless of
	// the console level. Empty disables the file log.
	FilePath string

	// Console receives the human-readable log. Defaults to os.Stderr.
	Console io.Writer
}

// ZapAdapter adapts a zap.Logger to the application's logging interface.
type ZapAdapter struct {
	log *zap.Logger
}

// New builds the application logger: a console core at the configured
// level, teed with a JSON file core that always records at debug. An
// unwritable log file is not fatal; the logger falls back to console
// only. The returned function flushes buffered entries.
func New(opts Options) (*ZapAdapter, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("unknown log level %q", opts.Level)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), level),
	}

	var fileErr error
	if opts.FilePath != "" {
		file, err := openLogFile(opts.FilePath)
		if err != nil {
			fileErr = err
		} else {
			fileCfg := zap.NewProductionEncoderConfig()
			fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			cores = append(cores,
				zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel))
		}
	}

	log := zap.New(zapcore.NewTee(cores...))
	if fileErr != nil {
		log.Warn("Log file unavailable, continuing console-only",
			zap.String("path", opts.FilePath), zap.Error(fileErr))
	}
	return &ZapAdapter{log: log}, func() { _ = log.Sync() }, nil
}

// openLogFile creates the parent directory and opens the file for append.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return file, nil
}

// NewNop returns an adapter that discards everything. Useful in tests.
func NewNop() *ZapAdapter {
	return &ZapAdapter{log: zap.NewNop()}
}

// Info logs an info message.
func (a *ZapAdapter) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	a.log.Info(msg, toZapFields(fields)...)
}

// Debug logs a debug message.
func (a *ZapAdapter) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	a.log.Debug(msg, toZapFields(fields)...)
}

// Warn logs a warning message.
func (a *ZapAdapter) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	a.log.Warn(msg, toZapFields(fields)...)
}

// Error logs an error message.
func (a *ZapAdapter) Error(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	zf := toZapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	a.log.Error(msg, zf...)
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}
