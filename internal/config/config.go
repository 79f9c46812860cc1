package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds the application configuration. It is built once at startup
// and passed to the components that need it.
type Config struct {
	ServerPort         int      `json:"port"`
	DatabaseURL        string   `json:"database_url"`
	SecretKey          string   `json:"secret_key"`
	Algorithm          string   `json:"algorithm"`
	AccessTokenMinutes int      `json:"access_token_expire_minutes"`
	BcryptCost         int      `json:"bcrypt_cost"`
	LogLevel           string   `json:"log_level"`
	LogPretty          bool     `json:"log_pretty"`
	AllowedOrigins     []string `json:"cors_allowed_origins"`

	// TrashPurgeSchedule is a cron expression; empty disables the purge job.
	TrashPurgeSchedule  string `json:"trash_purge_schedule"`
	TrashRetentionHours int    `json:"trash_retention_hours"`
}

// AccessTokenLifetime is the validity window of issued bearer tokens.
func (c *Config) AccessTokenLifetime() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// TrashRetention is how long a trashed task survives before it is purged.
func (c *Config) TrashRetention() time.Duration {
	return time.Duration(c.TrashRetentionHours) * time.Hour
}

// Load builds the configuration from defaults, an optional JSON file named
// by CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:          8080,
		DatabaseURL:         "file:todo.db",
		Algorithm:           "HS256",
		AccessTokenMinutes:  30,
		BcryptCost:          10,
		LogLevel:            "info",
		LogPretty:           true,
		AllowedOrigins:      []string{"http://localhost:3000"},
		TrashPurgeSchedule:  "@daily",
		TrashRetentionHours: 30 * 24,
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if c.AccessTokenMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenMinutes)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.TrashPurgeSchedule != "" {
		if _, err := cron.ParseStandard(c.TrashPurgeSchedule); err != nil {
			return fmt.Errorf("TRASH_PURGE_SCHEDULE: %w", err)
		}
		if c.TrashRetentionHours <= 0 {
			return fmt.Errorf("TRASH_RETENTION_HOURS must be positive, got %d", c.TrashRetentionHours)
		}
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	var err error
	if cfg.ServerPort, err = getEnvInt("PORT", cfg.ServerPort); err != nil {
		return err
	}
	if cfg.AccessTokenMinutes, err = getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.AccessTokenMinutes); err != nil {
		return err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return err
	}
	if cfg.TrashRetentionHours, err = getEnvInt("TRASH_RETENTION_HOURS", cfg.TrashRetentionHours); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("LOG_PRETTY"); ok {
		pretty, perr := strconv.ParseBool(v)
		if perr != nil {
			return fmt.Errorf("LOG_PRETTY: %w", perr)
		}
		cfg.LogPretty = pretty
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.Algorithm = getEnv("ALGORITHM", cfg.Algorithm)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.TrashPurgeSchedule = getEnv("TRASH_PURGE_SCHEDULE", cfg.TrashPurgeSchedule)
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
