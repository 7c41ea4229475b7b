package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Scene
	MeshName  string `env:"MESH_NAME" default:"MyObject"`
	AssetPath string `env:"ASSET_PATH" default:"assets/model.obj"`

	// Network
	ListenHost string `env:"LISTEN_HOST" default:""`
	PeerHost   string `env:"PEER_HOST" default:"127.0.0.1"`

	// Sync
	CommitTimeout     time.Duration `env:"COMMIT_TIMEOUT" default:"0"` // 0 = wait forever
	SnapshotRateLimit float64       `env:"SNAPSHOT_RATE_LIMIT" default:"10"`
	SnapshotRateBurst int           `env:"SNAPSHOT_RATE_BURST" default:"20"`
	MaxSnapshotBytes  int64         `env:"MAX_SNAPSHOT_BYTES" default:"33554432"`

	// Console
	PlaceholderOnInvalid bool `env:"PLACEHOLDER_ON_INVALID" default:"false"`

	// Development
	GinMode   string `env:"GIN_MODE" default:"release"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from an optional .env file and the environment
func LoadConfig() (*Config, error) {
	// a missing .env is fine, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	loadEnvString(&config.MeshName, "MESH_NAME", "MyObject")
	loadEnvString(&config.AssetPath, "ASSET_PATH", "assets/model.obj")
	loadEnvString(&config.ListenHost, "LISTEN_HOST", "")
	loadEnvString(&config.PeerHost, "PEER_HOST", "127.0.0.1")

	if err := loadEnvDuration(&config.CommitTimeout, "COMMIT_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.SnapshotRateLimit, "SNAPSHOT_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SnapshotRateBurst, "SNAPSHOT_RATE_BURST", 20); err != nil {
		return nil, err
	}
	var maxBytes int
	if err := loadEnvInt(&maxBytes, "MAX_SNAPSHOT_BYTES", 32<<20); err != nil {
		return nil, err
	}
	config.MaxSnapshotBytes = int64(maxBytes)

	if err := loadEnvBool(&config.PlaceholderOnInvalid, "PLACEHOLDER_ON_INVALID", false); err != nil {
		return nil, err
	}

	loadEnvString(&config.GinMode, "GIN_MODE", "release")
	loadEnvString(&config.LogLevel, "LOG_LEVEL", "info")
	loadEnvString(&config.LogFormat, "LOG_FORMAT", "text")

	return config, nil
}

// Helper functions for type conversion
func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.MeshName) == "" {
		errors = append(errors, "MESH_NAME must not be empty")
	}
	if c.PeerHost == "" {
		errors = append(errors, "PEER_HOST must not be empty")
	}
	if c.CommitTimeout < 0 {
		errors = append(errors, "COMMIT_TIMEOUT must not be negative")
	}
	if c.SnapshotRateLimit <= 0 {
		errors = append(errors, "SNAPSHOT_RATE_LIMIT must be positive")
	}
	if c.SnapshotRateBurst < 1 {
		errors = append(errors, "SNAPSHOT_RATE_BURST must be at least 1")
	}
	if c.MaxSnapshotBytes < 1 {
		errors = append(errors, "MAX_SNAPSHOT_BYTES must be positive")
	}

	validGinModes := []string{"debug", "release", "test"}
	if !contains(validGinModes, c.GinMode) {
		errors = append(errors, fmt.Sprintf("GIN_MODE must be one of: %s", strings.Join(validGinModes, ", ")))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SlogLevel maps LOG_LEVEL onto slog.
func (c *Config) SlogLevel() slog.Level {
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

// NewLogger builds the process logger on stderr; stdout belongs to the operator console.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
