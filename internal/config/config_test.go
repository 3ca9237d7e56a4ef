package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "rodeo", cfg.Store.MongoDBName)
	assert.Equal(t, "*/15 * * * *", cfg.Snapshot.CronSchedule)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Snapshot.Timezone)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORE_BACKEND", BackendRest)
	t.Setenv("RECORD_API_URL", "https://records.example.com")
	t.Setenv("RECORD_API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, BackendRest, cfg.Store.Backend)
	assert.Equal(t, "https://records.example.com", cfg.Store.APIBaseURL)
	assert.Equal(t, "secret", cfg.Store.APIKey)
}

func TestLoadRejectsRestBackendWithoutURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendRest)
	t.Setenv("RECORD_API_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECORD_API_URL")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestMemoryBackendNeedsNoConnectionSettings(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("MONGODB_URI", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestValidateRejectsEmptySchedule(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Store:    StoreConfig{Backend: BackendMemory},
		Snapshot: SnapshotConfig{Timezone: "UTC"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAPSHOT_CRON_SCHEDULE")
}
