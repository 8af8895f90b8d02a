package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig configures the API process.
//
// These values are deployment-provided; local runs can put them in a .env
// file, which cmd/api loads before reading the environment.
type ServerConfig struct {
	Port           string
	StorageBackend string
	DatabaseURL    string

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func LoadServerConfigFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:              getenv("PORT", "8080"),
		StorageBackend:    getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return ServerConfig{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return ServerConfig{}, fmt.Errorf("unknown STORAGE_BACKEND %q (expected memory|postgres)", cfg.StorageBackend)
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
