package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:4000/graphql", cfg.GraphQL.Endpoint)
	assert.Zero(t, cfg.GraphQL.Timeout)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, 8, cfg.List.DefaultPageSize)
	assert.Equal(t, 400*time.Millisecond, cfg.List.SearchDebounce)
	assert.Equal(t, 4*time.Second, cfg.Notifications.TTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GRAPHQL_ENDPOINT", "https://hr.example.com/graphql")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("DEFAULT_PAGE_SIZE", "16")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hr.example.com/graphql", cfg.GraphQL.Endpoint)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, 16, cfg.List.DefaultPageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.List.SearchDebounce)
}

func TestLoadRejectsUnknownPageSize(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEFAULT_PAGE_SIZE", "10")
	t.Setenv("NOTIFICATION_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.List.DefaultPageSize)
	assert.Equal(t, 4*time.Second, cfg.Notifications.TTL)
}

func TestIsAllowedPageSize(t *testing.T) {
	for _, size := range AllowedPageSizes {
		assert.True(t, IsAllowedPageSize(size))
	}
	assert.False(t, IsAllowedPageSize(0))
	assert.False(t, IsAllowedPageSize(12))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}
