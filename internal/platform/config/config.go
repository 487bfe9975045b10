// Package config loads server configuration from an optional YAML file with
// environment variable overrides, so main stays lean.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything the server binary needs to start.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Fields  Fields  `yaml:"fields"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
}

// Storage selects the backing stores. An empty PostgresDSN keeps everything
// in memory; an empty RedisURL disables the schema cache.
type Storage struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisURL    string `yaml:"redis_url"`
}

// Fields carries schema level settings that are not part of the field list
// itself.
type Fields struct {
	LegacyLabel string `yaml:"legacy_label"`
}

// SchemaCacheTTL bounds how long a cached field schema may serve reads.
var SchemaCacheTTL = 5 * time.Minute

// Load reads the YAML file at path when it exists, then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: Server{Addr: ":8080", LogLevel: "info"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHECKOUT_FIELDS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CHECKOUT_FIELDS_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("CHECKOUT_FIELDS_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CHECKOUT_FIELDS_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("CHECKOUT_FIELDS_LEGACY_LABEL"); v != "" {
		cfg.Fields.LegacyLabel = v
	}
}
