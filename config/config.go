// Package config loads client configuration from a YAML file overlaid with MYCOACH_ environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/viant/mycoach/logger"
)

// EnvPrefix prefixes environment overrides, e.g. MYCOACH_STORE_REDIS_ADDR=localhost:6379 sets store.redis.addr
const EnvPrefix = "MYCOACH_"

// Store kinds
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSecret = "secret"
	StoreRedis  = "redis"
)

type (
	// Config represents client config
	Config struct {
		Endpoint string        `koanf:"endpoint" yaml:"endpoint" validate:"required,url"`
		Timeout  time.Duration `koanf:"timeout" yaml:"timeout" validate:"gte=0"`
		Store    Store         `koanf:"store" yaml:"store"`
		Log      logger.Config `koanf:"log" yaml:"log"`
	}

	// Store represents credential store config
	Store struct {
		Kind string `koanf:"kind" yaml:"kind" validate:"required,oneof=memory file secret redis"`
		// URL is an afs URL of the credential file, used by file and secret kinds
		URL    string `koanf:"url" yaml:"url" validate:"required_if=Kind file,required_if=Kind secret"`
		Secret string `koanf:"secret" yaml:"secret"`
		Redis  Redis  `koanf:"redis" yaml:"redis"`
	}

	// Redis represents redis store config
	Redis struct {
		Addr     string `koanf:"addr" yaml:"addr"`
		Password string `koanf:"password" yaml:"password"`
		DB       int    `koanf:"db" yaml:"db" validate:"gte=0"`
		Prefix   string `koanf:"prefix" yaml:"prefix"`
	}
)

// Validate validates config
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.Kind == StoreRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("invalid config: store.redis.addr is required for redis store")
	}
	return nil
}

// Defaults returns default config values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"endpoint": "http://localhost:8000/api",
		"timeout":  "30s",
		"store": map[string]interface{}{
			"kind":   StoreSecret,
			"url":    DefaultStoreURL(),
			"secret": "blowfish://default",
			"redis":  map[string]interface{}{"prefix": "mycoach:"},
		},
		"log": map[string]interface{}{
			"level":    "warn",
			"encoding": "json",
		},
	}
}

// DefaultStoreURL returns ~/.mycoach/credentials or a relative path when home is unknown
func DefaultStoreURL() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".mycoach/credentials"
	}
	return home + "/.mycoach/credentials"
}

// Load loads config: defaults, then the YAML file at path (optional), then environment variables
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %v: %w", path, err)
		}
	}
	transform := func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	ret := &Config{}
	if err := k.Unmarshal("", ret); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
