package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/diary.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
	assert.Contains(t, err.Error(), "database_file_path")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/diary.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/diary.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/diary.db", cfg.DatabaseFilePath)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "diary.yaml")

	configContent := `
database_file_path: /data/diary.db
server_port: 8080
database_debug: true
catalog_timeout: 5s
catalog_popular_query: classics
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/diary.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, 5*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, "classics", cfg.CatalogPopularQuery)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "diary.yaml")

	configContent := `
database_file_path: /data/from-file.db
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DATABASE_FILE_PATH", "/data/from-env.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_PAGE_SIZE", "40")

	cfg, err := New()
	require.NoError(t, err)
	// Env vars should override config file
	assert.Equal(t, "/data/from-env.db", cfg.DatabaseFilePath)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 40, cfg.CatalogPageSize)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/diary.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/diary.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 3690, cfg.ServerPort)
	assert.Equal(t, "https://openlibrary.org", cfg.CatalogBaseURL)
	assert.Equal(t, 20*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 20, cfg.CatalogPageSize)
	assert.Equal(t, "bestseller", cfg.CatalogPopularQuery)
	assert.Zero(t, cfg.CatalogRequestsPerSecond)
	assert.Equal(t, 300, cfg.ImageCacheMaxEntries)
	assert.Equal(t, 64*1024*1024, cfg.ImageCacheMaxCostBytes)
	assert.Equal(t, 5, cfg.RecentNotesLimit)
}

func TestNew_InvalidValue(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/diary.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/diary.yaml")
	t.Setenv("CATALOG_PAGE_SIZE", "0")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_PAGE_SIZE")
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 20, cfg.CatalogPageSize)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "database_file_path", toSnakeCase("DatabaseFilePath"))
	assert.Equal(t, "server_port", toSnakeCase("ServerPort"))
	assert.Equal(t, "image_cache_max_entries", toSnakeCase("ImageCacheMaxEntries"))
}
