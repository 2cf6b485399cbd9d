// Package config loads notewise configuration from an optional YAML
// file, with defaults for every option and NOTEWISE_-prefixed
// environment variables overriding storage settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the agent core
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Retention RetentionConfig `yaml:"retention"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig selects and parameterizes the persistence backend
type StorageConfig struct {
	Backend       string `yaml:"backend"` // badger, redis, sqlite, memory
	BadgerPath    string `yaml:"badger_path"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// RetentionConfig bounds the knowledge store
type RetentionConfig struct {
	DaysToKeep          int `yaml:"days_to_keep"`
	MaxRecentActions    int `yaml:"max_recent_actions"`
	MaxContextualMemory int `yaml:"max_contextual_memory"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    "badger",
			BadgerPath: "~/.notewise/knowledge",
			SQLitePath: "~/.notewise/knowledge.db",
			RedisAddr:  "localhost:6379",
			RedisDB:    0,
		},
		Retention: RetentionConfig{
			DaysToKeep:          30,
			MaxRecentActions:    50,
			MaxContextualMemory: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides storage settings from NOTEWISE_ environment variables
func applyEnv(cfg *Config) {
	cfg.Storage.Backend = envString("NOTEWISE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.BadgerPath = envString("NOTEWISE_BADGER_PATH", cfg.Storage.BadgerPath)
	cfg.Storage.SQLitePath = envString("NOTEWISE_SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.RedisAddr = envString("NOTEWISE_REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.RedisPassword = envString("NOTEWISE_REDIS_PASSWORD", cfg.Storage.RedisPassword)
	cfg.Storage.RedisDB = envInt("NOTEWISE_REDIS_DB", cfg.Storage.RedisDB)
	cfg.Logging.Level = envString("NOTEWISE_LOG_LEVEL", cfg.Logging.Level)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
