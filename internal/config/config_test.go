package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "productcatalogservice:3550")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "productcatalogservice:3550", cfg.CatalogAddr)
	assert.Equal(t, 10, cfg.MaxWorkers)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 5, cfg.BreakerFailures)
	assert.Equal(t, "catalog:product_ids", cfg.RedisKey)
	assert.Equal(t, ":9090", cfg.AdminAddr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "  catalog:3550 ")
	t.Setenv("PORT", "50051")
	t.Setenv("MAX_WORKERS", "32")
	t.Setenv("SHUTDOWN_GRACE", "2s")
	t.Setenv("CATALOG_TIMEOUT", "750ms")
	t.Setenv("CATALOG_BREAKER_FAILURES", "0")
	t.Setenv("ADMIN_PORT", AdminDisabled)
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.Addr())
	assert.Equal(t, "catalog:3550", cfg.CatalogAddr)
	assert.Equal(t, 32, cfg.MaxWorkers)
	assert.Equal(t, 2*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, 750*time.Millisecond, cfg.CatalogTimeout)
	assert.Equal(t, 0, cfg.BreakerFailures)
	assert.Empty(t, cfg.AdminAddr())
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadEmptyPortKeepsDefault(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "catalog:3550")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadMissingCatalogAddr(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingCatalogAddr)
}

func TestLoadBlankCatalogAddr(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "   ")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingCatalogAddr)
}

func TestLoadRejectsZeroWorkers(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "catalog:3550")
	t.Setenv("MAX_WORKERS", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_WORKERS")
}

func TestLoadIgnoresUnrelatedEnvironment(t *testing.T) {
	t.Setenv("PRODUCT_CATALOG_SERVICE_ADDR", "catalog:3550")
	t.Setenv("SOME_OTHER_SETTING", "value")

	_, err := Load()
	assert.NoError(t, err)
}
