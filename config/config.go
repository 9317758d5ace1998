package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files tried in order; the first one found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
}

type DatabaseConfig struct {
	// URL is a SQLite file path or a postgres:// DSN.
	URL string `koanf:"url"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Environment   string `koanf:"environment"`
	Debug         bool   `koanf:"debug"`
	SessionSecret string `koanf:"session_secret"`
}

type TMDBConfig struct {
	// APIToken is a v4 read access token sent as a bearer token.
	APIToken string `koanf:"api_token"`
	// APIKey is a v3 key sent as the api_key query parameter.
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// HasCredentials reports whether any TMDB credential is configured.
func (c TMDBConfig) HasCredentials() bool {
	return c.APIToken != "" || c.APIKey != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "movies.db",
		},
		Server: ServerConfig{
			Port:          5000,
			Environment:   "development",
			Debug:         false,
			SessionSecret: "change-me-in-production",
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
		},
	}
}

// envMappings maps flat environment variable names to config keys.
var envMappings = map[string]string{
	"database_url":             "database.url",
	"port":                     "server.port",
	"env":                      "server.environment",
	"debug":                    "server.debug",
	"session_secret":           "server.session_secret",
	"tmdb_api_token":           "tmdb.api_token",
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_image_base_url":      "tmdb.image_base_url",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unknown variables are dropped.
	return ""
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is read
// into the environment first without overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.TMDB.BaseURL == "" {
		errs = append(errs, errors.New("tmdb.base_url is required"))
	}
	if c.TMDB.Timeout <= 0 {
		errs = append(errs, errors.New("tmdb.timeout must be positive"))
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("tmdb.requests_per_second must be positive"))
	}
	if c.IsProduction() && c.Server.SessionSecret == defaultConfig().Server.SessionSecret {
		errs = append(errs, errors.New("server.session_secret must be changed in production"))
	}
	return errors.Join(errs...)
}
