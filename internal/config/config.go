package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn     string        `mapstructure:"POSTGRES_CONN"`
	PostgresDB       string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresMaxConns int           `mapstructure:"POSTGRES_MAX_CONNS"`
	MigrationURL     string        `mapstructure:"MIGRATION_URL"`
	Storage          string        `mapstructure:"STORAGE"`
	ChangeRequestTTL time.Duration `mapstructure:"CHANGE_REQUEST_TTL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	NotifyBuffer     int           `mapstructure:"NOTIFY_BUFFER"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":     "0.0.0.0:8080",
	"POSTGRES_CONN":      "",
	"POSTGRES_DATABASE":  "postgres",
	"POSTGRES_MAX_CONNS": 20,
	"MIGRATION_URL":      "file://migrations",
	"STORAGE":            StoragePostgres,
	"CHANGE_REQUEST_TTL": "168h",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
	"NOTIFY_BUFFER":      256,
	"SHUTDOWN_TIMEOUT":   "30s",
}

// LoadConfig reads app.env from path if it exists. Environment variables take
// precedence over the file and the file over the defaults.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.PostgresConn == "" {
			return errors.New("POSTGRES_CONN is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}

	if c.ChangeRequestTTL <= 0 {
		return errors.New("CHANGE_REQUEST_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if f := strings.ToLower(c.LogFormat); f != "json" && f != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return level, nil
}
