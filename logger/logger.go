// Package logger builds the zap logger shared by the session, transport and cli packages.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents logger config
type Config struct {
	Level    string `koanf:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error off none"`
	Encoding string `koanf:"encoding" yaml:"encoding" validate:"omitempty,oneof=json console"`
}

// New creates a production logger writing to stderr, so stdout stays usable for command output
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "off", "none":
		return zapcore.FatalLevel + 1, nil
	}
	return 0, fmt.Errorf("unsupported log level: %v", level)
}

// Token returns a field with a masked credential
func Token(key, value string) zap.Field {
	return zap.String(key, Mask(value))
}

// Mask keeps only a short prefix and suffix of a credential
func Mask(value string) string {
	switch {
	case value == "":
		return ""
	case len(value) <= 12:
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// OrNop returns logger or a no-op logger
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
