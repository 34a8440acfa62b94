// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Port            string          `yaml:"port"`
	PublicDir       string          `yaml:"public_dir"`
	DocsPath        string          `yaml:"docs_path"`
	CORSOrigins     string          `yaml:"cors_allowed_origins"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	LogLevel        string          `yaml:"log_level"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures the optional Redis-backed rate limiter.
type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	Requests      int           `yaml:"requests"`
	Window        time.Duration `yaml:"window"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		Port:            "3000",
		PublicDir:       "public",
		DocsPath:        "/api-docs",
		CORSOrigins:     "*",
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
		RateLimit: RateLimitConfig{
			Enabled:   false,
			RedisAddr: "localhost:6379",
			Requests:  100,
			Window:    time.Minute,
		},
	}
}

// Load builds the configuration. The YAML file named by CALC_CONFIG is read
// when set; environment variables override both defaults and file values.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CALC_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.PublicDir = getEnv("PUBLIC_DIR", cfg.PublicDir)
	cfg.DocsPath = getEnv("DOCS_PATH", cfg.DocsPath)
	cfg.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RateLimit.RedisAddr = getEnv("REDIS_ADDR", cfg.RateLimit.RedisAddr)
	cfg.RateLimit.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RateLimit.RedisPassword)

	var err error
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.RateLimit.Window, err = getEnvDuration("RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return err
	}
	if cfg.RateLimit.Enabled, err = getEnvBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled); err != nil {
		return err
	}
	if cfg.RateLimit.Requests, err = getEnvInt("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port %q is not a number", c.Port))
	}
	if c.PublicDir == "" {
		errs = append(errs, errors.New("public_dir is required"))
	}
	if !strings.HasPrefix(c.DocsPath, "/") {
		errs = append(errs, fmt.Errorf("docs_path %q must start with /", c.DocsPath))
	}
	if c.LogLevel != "info" && c.LogLevel != "error" {
		errs = append(errs, fmt.Errorf("log_level %q must be info or error", c.LogLevel))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			errs = append(errs, errors.New("rate_limit.redis_addr is required when rate limiting is enabled"))
		}
		if c.RateLimit.Requests <= 0 {
			errs = append(errs, errors.New("rate_limit.requests must be positive"))
		}
		if c.RateLimit.Window <= 0 {
			errs = append(errs, errors.New("rate_limit.window must be positive"))
		}
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
