// ABOUTME: Debug logging backed by zap with a rotating lumberjack file
// ABOUTME: Provides a nop logger when debugging is off and a printf-style adapter for components

// Package logging builds the application logger.
// Components take a plain debugf func so they never import zap directly.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is the debug log written when --debug is set
const DefaultFile = "mediaplayer-debug.log"

// Config controls where and how much is logged
type Config struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig returns a disabled configuration pointing at DefaultFile
func DefaultConfig() Config {
	return Config{
		Path:       DefaultFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}
}

// New builds a logger. A disabled config yields zap.NewNop().
func New(cfg Config) (*zap.Logger, error) {
	if !cfg.Enabled {
		return zap.NewNop(), nil
	}

	if cfg.Path == "" {
		cfg.Path = DefaultFile
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), writer, zapcore.DebugLevel)

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Debugf adapts a zap logger to the printf-style hook components accept
func Debugf(logger *zap.Logger) func(string, ...interface{}) {
	if logger == nil || !logger.Core().Enabled(zapcore.DebugLevel) {
		return func(string, ...interface{}) {}
	}

	sugar := logger.Sugar()

	return func(format string, args ...interface{}) {
		sugar.Debugf(format, args...)
	}
}
