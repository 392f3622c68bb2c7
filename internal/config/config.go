// Package config loads process configuration once at startup: a .env file
// if present, then an optional YAML file, with environment variables taking
// precedence over both.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries everything the process hands to its collaborators.
type Config struct {
	// Token is the VK group access token.
	Token string `yaml:"token"`
	// GroupID is the community the bot speaks as.
	GroupID string `yaml:"group_id"`
	// Confirmation is the code echoed to VK's webhook probe.
	Confirmation string `yaml:"confirmation"`
	// Secret optionally authenticates callback updates.
	Secret string `yaml:"secret"`
	// LogFile receives the structured log; empty means stderr.
	LogFile string `yaml:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// CredsFile is the Google service-account credentials path.
	CredsFile string `yaml:"creds_file"`
	// ListenAddr is the webhook/metrics listen address.
	ListenAddr string `yaml:"listen_addr"`
	// RedisAddr enables the redis record store and locker when set.
	RedisAddr string `yaml:"redis_addr"`
	// RedisPassword is the optional redis auth password.
	RedisPassword string `yaml:"redis_password"`
}

// Load reads configuration. A missing .env is fine; a YAML file named by
// HEALTHWAVE_CONFIG is merged under the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:   "info",
		ListenAddr: ":8080",
	}

	if path := os.Getenv("HEALTHWAVE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overlay(&cfg.Token, "TOKEN")
	overlay(&cfg.GroupID, "VK_GROUP_ID")
	overlay(&cfg.Confirmation, "VK_CONFIRMATION")
	overlay(&cfg.Secret, "VK_SECRET")
	overlay(&cfg.LogFile, "LOG_FILE")
	overlay(&cfg.LogLevel, "LOG_LEVEL")
	overlay(&cfg.CredsFile, "CREDS_FILE")
	overlay(&cfg.ListenAddr, "LISTEN_ADDR")
	overlay(&cfg.RedisAddr, "REDIS_ADDR")
	overlay(&cfg.RedisPassword, "REDIS_PASSWORD")

	if cfg.Token == "" {
		return nil, fmt.Errorf("TOKEN is required")
	}
	return cfg, nil
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Level parses the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
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
