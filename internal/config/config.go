package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendRest   = "rest"
	BackendMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Snapshot SnapshotConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend     string
	MongoURI    string
	MongoDBName string
	APIBaseURL  string
	APIKey      string
}

// SnapshotConfig holds the periodic snapshot reconciliation settings.
type SnapshotConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Backend:     getenvWithDefault("STORE_BACKEND", BackendMongo),
			MongoURI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDBName: getenvWithDefault("MONGODB_DB_NAME", "rodeo"),
			APIBaseURL:  os.Getenv("RECORD_API_URL"),
			APIKey:      os.Getenv("RECORD_API_KEY"),
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "*/15 * * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Backend {
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.Store.MongoDBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case BackendRest:
		if c.Store.APIBaseURL == "" {
			return errors.New("RECORD_API_URL must be provided")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Snapshot.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	if c.Snapshot.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
