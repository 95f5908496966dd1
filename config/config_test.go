package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")

		cfg, err := Load(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, DriverMemory, cfg.StoreDriver)
		assert.Equal(t, "library", cfg.DBName)
		assert.Equal(t, "books", cfg.DBCollection)
		assert.Equal(t, 25, cfg.PostgresMaxOpenConns)
		assert.Equal(t, 0.0, cfg.RateLimitRPS)
		assert.True(t, cfg.MetricsEnabled)
	})

	t.Run("file values", func(t *testing.T) {
		dir := t.TempDir()
		content := `
PORT = "8080"
DB = "mongodb://localhost:27017"
DB_NAME = "fcc"
RATE_LIMIT_RPS = 2.5
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

		cfg, err := Load(dir)

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, DriverMongo, cfg.StoreDriver)
		assert.Equal(t, "mongodb://localhost:27017", cfg.DB)
		assert.Equal(t, "fcc", cfg.DBName)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`PORT = "8080"
DB = "mongodb://file"
`), 0o600))
		t.Setenv("PORT", "9090")
		t.Setenv("DB", "postgres://env")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("METRICS_ENABLED", "false")

		cfg, err := Load(dir)

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "postgres://env", cfg.DB)
		assert.Equal(t, DriverPostgres, cfg.StoreDriver)
		assert.False(t, cfg.MetricsEnabled)
	})

	t.Run("missing connection string", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		t.Setenv("DB", "")

		_, err := Load(t.TempDir())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB connection string is required")
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT = = ="), 0o600))

		_, err := Load(dir)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{Port: "1", StoreDriver: DriverMemory}).Validate())
	assert.NoError(t, (&Config{Port: "1", StoreDriver: DriverRedis, DB: "localhost:6379"}).Validate())
	assert.Error(t, (&Config{Port: "1", StoreDriver: "sqlite"}).Validate())
	assert.Error(t, (&Config{StoreDriver: DriverMemory}).Validate())
}
