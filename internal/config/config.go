package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

var ErrMissingCatalogAddr = errors.New("PRODUCT_CATALOG_SERVICE_ADDR environment variable not set")

// AdminDisabled turns the ops HTTP server off when used as ADMIN_PORT.
const AdminDisabled = "off"

type Config struct {
	Port            string        `koanf:"port"`
	CatalogAddr     string        `koanf:"product_catalog_service_addr"`
	MaxWorkers      int           `koanf:"max_workers"`
	ShutdownGrace   time.Duration `koanf:"shutdown_grace"`
	CatalogTimeout  time.Duration `koanf:"catalog_timeout"`
	BreakerFailures int           `koanf:"catalog_breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"catalog_breaker_timeout"`
	RedisKey        string        `koanf:"catalog_redis_key"`
	DBPoolSize      int           `koanf:"db_pool_size"`
	AdminPort       string        `koanf:"admin_port"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
}

func defaults() Config {
	return Config{
		Port:            "8080",
		MaxWorkers:      10,
		ShutdownGrace:   10 * time.Second,
		CatalogTimeout:  3 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  10 * time.Second,
		RedisKey:        "catalog:product_ids",
		DBPoolSize:      5,
		AdminPort:       "9090",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load configuration from env, layered over the built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CatalogAddr = strings.TrimSpace(cfg.CatalogAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps a recognised, non-empty environment variable to its koanf key.
// Everything else in the environment is dropped.
func envKey(key, value string) (string, any) {
	k := strings.ToLower(key)
	if _, ok := knownKeys[k]; !ok || value == "" {
		return "", nil
	}
	return k, value
}

var knownKeys = func() map[string]struct{} {
	k := koanf.New(".")
	_ = k.Load(structs.Provider(Config{}, "koanf"), nil)
	out := make(map[string]struct{})
	for _, key := range k.Keys() {
		out[key] = struct{}{}
	}
	return out
}()

func (c *Config) Validate() error {
	if c.CatalogAddr == "" {
		return ErrMissingCatalogAddr
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be at least 1, got %d", c.MaxWorkers)
	}
	if c.BreakerFailures < 0 {
		return fmt.Errorf("CATALOG_BREAKER_FAILURES must not be negative, got %d", c.BreakerFailures)
	}
	if c.ShutdownGrace < 0 || c.CatalogTimeout < 0 || c.BreakerTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// AdminAddr returns the ops HTTP address, or "" when it is disabled.
func (c *Config) AdminAddr() string {
	if c.AdminPort == "" || c.AdminPort == AdminDisabled {
		return ""
	}
	return ":" + c.AdminPort
}
