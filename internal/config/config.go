// Package config loads the engine's runtime configuration. The Config
// struct shape and per-section Validate methods follow a viper-backed
// config.Config convention; the field set is narrowed to what the documented contract
// actually requires (a data directory and a CORS allow-list) plus the
// server/cache/query-budget knobs the documented contract leaves
// implementation-chosen.
package config

import "time"

// Config is the complete runtime configuration for ceaserver.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Cache  CacheConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// QueryBudget is the per-request wall-clock budget for aggregations
	// (the documented contract); exceeding it surfaces apperr.ErrQueryBudgetExceeded.
	QueryBudget time.Duration
}

// StoreConfig locates the on-disk state layout from the documented contract
type StoreConfig struct {
	// DataDir is the single required path to <root>/data/processed.
	DataDir string
}

// CacheConfig carries pool sizes and TTLs that Validate checks.
// cache.NewPools does not read them: the pools always use
// cache.APICapacity/cache.APITTL and cache.StatsCapacity/cache.StatsTTL.
type CacheConfig struct {
	APICapacity   int
	APITTL        time.Duration
	StatsCapacity int
	StatsTTL      time.Duration
}

// CORSConfig holds the optional allow-list of origins.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// Default returns a configuration with production-sane defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			QueryBudget:     30 * time.Second,
		},
		Cache: CacheConfig{
			APICapacity:   200,
			APITTL:        10 * time.Minute,
			StatsCapacity: 50,
			StatsTTL:      30 * time.Minute,
		},
		CORS: CORSConfig{AllowedOrigins: nil},
		Log:  LogConfig{Level: "info"},
	}
}
