// Package config loads host settings: defaults, then an optional YAML file,
// then WEBSIM_* environment overrides, then validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config defines simulator configuration.
type Config struct {
	Sim     SimConfig     `yaml:"sim" validate:"required"`
	DB      DBConfig      `yaml:"db" validate:"required"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log" validate:"required"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// SimConfig controls the tick loop.
type SimConfig struct {
	Seed         int64         `yaml:"seed"` // 0 picks a random seed
	TickInterval time.Duration `yaml:"tick_interval" validate:"gte=1ms"`
}

type DBConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// APIConfig controls the read-only status server. Port 0 disables it.
type APIConfig struct {
	Port     int    `yaml:"port" validate:"gte=0,lt=65536"`
	AdminKey string `yaml:"admin_key" validate:"omitempty,min=8"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
}

// CatalogConfig points at an optional project catalog replacing the
// built-in one.
type CatalogConfig struct {
	Path string `yaml:"path" validate:"omitempty,file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sim: SimConfig{
			TickInterval: time.Second,
		},
		DB: DBConfig{
			Path: "data/websim.db",
		},
		API: APIConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables, then validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WEBSIM_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("WEBSIM_DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("WEBSIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid WEBSIM_SEED: %w", err)
		}
		cfg.Sim.Seed = seed
	}
	if v := os.Getenv("WEBSIM_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WEBSIM_TICK_INTERVAL: %w", err)
		}
		cfg.Sim.TickInterval = d
	}
	if v := os.Getenv("WEBSIM_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WEBSIM_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}
	if v := os.Getenv("WEBSIM_ADMIN_KEY"); v != "" {
		cfg.API.AdminKey = v
	}
	if v := os.Getenv("WEBSIM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("WEBSIM_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
