// Package config loads planner settings from defaults, a TOML file, a .env
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is looked up in the working directory and the user config dir.
const DefaultConfigFile = "studyplanner.toml"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds runtime settings.
type Config struct {
	Backend       string `toml:"backend"`
	DataFile      string `toml:"data_file"`
	SQLitePath    string `toml:"sqlite_path"`
	Addr          string `toml:"addr"`
	SkipMalformed bool   `toml:"skip_malformed"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`

	// Source is the config file that was read, empty when none was found.
	Source string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend:    BackendFile,
		DataFile:   "tasks.db",
		SQLitePath: "./data/studyplanner.sqlite",
		Addr:       ":8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load builds a Config. When path is empty the default file locations are
// searched; a missing default file is not an error, a missing explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.Source = path
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.DataFile == "" {
			return errors.New("data_file is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Backend)
	}

	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format must be text, json or logfmt, got %q", c.LogFormat)
	}

	return nil
}

// StoragePath returns the path used by the selected backend.
func (c *Config) StoragePath() string {
	if c.Backend == BackendSQLite {
		return c.SQLitePath
	}
	return c.DataFile
}

func loadFromEnv(cfg *Config) {
	cfg.Backend = getEnv("STUDYPLANNER_BACKEND", cfg.Backend)
	cfg.DataFile = getEnv("STUDYPLANNER_DATA_FILE", cfg.DataFile)
	cfg.SQLitePath = getEnv("STUDYPLANNER_SQLITE_PATH", cfg.SQLitePath)
	cfg.LogLevel = getEnv("STUDYPLANNER_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("STUDYPLANNER_LOG_FORMAT", cfg.LogFormat)

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.Addr = getEnv("STUDYPLANNER_ADDR", cfg.Addr)

	if v := os.Getenv("STUDYPLANNER_SKIP_MALFORMED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SkipMalformed = b
		}
	}
}

func findConfigFile() string {
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}

	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "studyplanner", DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
