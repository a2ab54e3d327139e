// Package server implements the archgen HTTP API.
//
// The server exposes the generation pipeline over JSON endpoints so plan
// producers can submit raw plan text and receive diagrams, renderings, and
// validation reports. All state lives in the artifact cache; the server
// itself is stateless and safe to run in multiple replicas.
package server

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names understood by LoadConfig.
const (
	EnvAddr      = "ARCHGEN_ADDR"
	EnvRedisAddr = "ARCHGEN_REDIS_ADDR"
	EnvCacheDir  = "ARCHGEN_CACHE_DIR"
	EnvThemePath = "ARCHGEN_THEME"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// RedisAddr enables the Redis artifact cache when set. Takes precedence
	// over CacheDir.
	RedisAddr string

	// CacheDir enables the file artifact cache when set.
	CacheDir string

	// ThemePath loads a TOML theme override when set.
	ThemePath string

	// Timeouts for the HTTP server.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoadConfig reads settings from a .env file (when present) and the process
// environment. Environment variables win over the file.
func LoadConfig() Config {
	// missing .env is the normal case outside development
	_ = godotenv.Load()

	cfg := Config{
		Addr:         os.Getenv(EnvAddr),
		RedisAddr:    os.Getenv(EnvRedisAddr),
		CacheDir:     os.Getenv(EnvCacheDir),
		ThemePath:    os.Getenv(EnvThemePath),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg
}
