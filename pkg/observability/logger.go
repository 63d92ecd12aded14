// Package observability builds the zap loggers used by the CLI and the
// HTTP server.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures New.
type Config struct {
	// Level is one of debug, info, warn, error. Default info.
	Level string `yaml:"level,omitempty" env:"LEVEL" validate:"omitempty,oneof=debug info warn error"`

	// Format of the console output: console or json. Default console.
	Format string `yaml:"format,omitempty" env:"FORMAT" validate:"omitempty,oneof=console json"`

	// Color enables ANSI colored levels in console format.
	Color bool `yaml:"color,omitempty" env:"COLOR"`

	// File, when set, also writes JSON logs to this path with rotation.
	File       string `yaml:"file,omitempty" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" env:"MAX_SIZE_MB" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups,omitempty" env:"MAX_BACKUPS" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty" env:"MAX_AGE_DAYS" validate:"gte=0"`
	Compress   bool   `yaml:"compress,omitempty" env:"COMPRESS"`
}

// New builds a logger that writes to console, and to Config.File when
// set. A nil console writes to stderr.
func New(cfg Config, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("observability: log level %q: %w", cfg.Level, err)
		}
	}
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format, cfg.Color), console, level),
	}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder("json", false), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)), nil
}

func encoder(format string, color bool) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "json" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}
