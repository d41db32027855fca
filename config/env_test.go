package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.FromMap(nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "kasir.db", cfg.DBDSN)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.UnknownProductsReject, cfg.UnknownProducts)
	assert.Equal(t, 200, cfg.RateLimit)
	assert.False(t, cfg.IsProduction())
}

func TestDriverFallsBackToSQLite(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{"db_driver": "oracle"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)

	cfg, err = config.FromMap(map[string]string{"DB_DRIVER": "postgres"})
	require.NoError(t, err)
	assert.Contains(t, cfg.DBDSN, "dbname=kasir")
}

func TestInvalidValuesRejected(t *testing.T) {
	cases := map[string]map[string]string{
		"timeout": {"REQUEST_TIMEOUT": "soon"},
		"ttl":     {"CACHE_TTL": "-1s"},
		"body":    {"MAX_BODY_BYTES": "0"},
		"policy":  {"ORDER_UNKNOWN_PRODUCTS": "ignore"},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromMap(raw)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","jwt_secret":"from-json"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nJWT_SECRET='from-env'\nORDER_UNKNOWN_PRODUCTS=skip\n"), 0o644))

	cfg, err := config.LoadFrom(jsonPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, config.UnknownProductsSkip, cfg.UnknownProducts)
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
}

func TestProductionRefusesDefaultSecret(t *testing.T) {
	for _, env := range []string{"production", "prod"} {
		_, err := config.FromMap(map[string]string{"APP_ENV": env})
		assert.Error(t, err, env)

		_, err = config.FromMap(map[string]string{"APP_ENV": env, "JWT_SECRET": "change-me-in-production"})
		assert.Error(t, err, env)

		cfg, err := config.FromMap(map[string]string{"APP_ENV": env, "JWT_SECRET": "s3cr3t"})
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	}

	_, err := config.FromMap(nil)
	assert.NoError(t, err)
}

func TestCacheDriver(t *testing.T) {
	cfg, err := config.FromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, config.CacheRedis, cfg.CacheDriver)

	cfg, err = config.FromMap(map[string]string{"CACHE_DRIVER": "Memory"})
	require.NoError(t, err)
	assert.Equal(t, config.CacheMemory, cfg.CacheDriver)

	_, err = config.FromMap(map[string]string{"CACHE_DRIVER": "memcached"})
	assert.Error(t, err)
}
