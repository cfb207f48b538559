// Package config loads runtime settings from defaults, an optional TOML file and
// the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backend kinds.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds application settings.
type Config struct {
	Port    string        `toml:"port"`
	Storage StorageConfig `toml:"storage"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Kind    string `toml:"kind"`     // "memory", "file" or "sqlite"
	DataDir string `toml:"data_dir"` // file backend directory
	DBPath  string `toml:"db_path"`  // sqlite database path
	Key     string `toml:"key"`      // storage key holding the task list
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port: "8080",
		Storage: StorageConfig{
			Kind:    StorageSQLite,
			DataDir: "./data",
			DBPath:  "./data/todolist.db",
			Key:     "todos",
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when path
// is empty) and environment overrides. The result is not validated so callers
// can layer their own overrides first; call Validate before using it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Parse decodes TOML bytes on top of the values already in cfg.
func Parse(data []byte, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	cfg.Storage.Kind = strings.ToLower(strings.TrimSpace(cfg.Storage.Kind))
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Storage.Kind = strings.ToLower(getEnv("STORAGE", cfg.Storage.Kind))
	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.DBPath = getEnv("DB_PATH", cfg.Storage.DBPath)
	cfg.Storage.Key = getEnv("STORAGE_KEY", cfg.Storage.Key)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}

	switch c.Storage.Kind {
	case StorageMemory:
	case StorageFile:
		if c.Storage.DataDir == "" {
			return errors.New("storage.data_dir is required for file storage")
		}
	case StorageSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("storage.db_path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("storage.kind must be '%s', '%s', or '%s', got %q",
			StorageMemory, StorageFile, StorageSQLite, c.Storage.Kind)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key is required")
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
