// Package config resolves process-wide runtime configuration from the
// environment, following the teacher's env-driven RuntimeConfig pattern:
// no config files, explicit defaults, booleans parsed permissively.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/noirtty/noirtty-server/internal/logger"
)

// RuntimeConfig holds the settings resolved once at process startup.
type RuntimeConfig struct {
	Addr             string
	AccessToken      string
	LogLevel         logger.Level
	Dev              bool
	DefaultMinIntervalMs int64
	ReapInterval     time.Duration
}

// Load resolves a RuntimeConfig from the environment.
func Load() RuntimeConfig {
	dev := truthy(os.Getenv("NOIRTTY_DEV"))

	return RuntimeConfig{
		Addr:                 envOr("NOIRTTY_ADDR", ":3000"),
		AccessToken:          os.Getenv("NOIRTTY_ACCESS_TOKEN"),
		LogLevel:             logger.LevelFromEnv(),
		Dev:                  dev,
		DefaultMinIntervalMs: envInt64Or("NOIRTTY_MIN_INTERVAL_MS", 0),
		ReapInterval:         envDurationOr("NOIRTTY_REAP_INTERVAL", 30*time.Second),
	}
}

// GateEnabled reports whether the access gate should enforce a token.
func (c RuntimeConfig) GateEnabled() bool {
	return c.AccessToken != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func truthy(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes"
}
