package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces every environment variable this service reads,
// following a SAGE_ADK_<SECTION>_<FIELD>-style convention.
const envPrefix = "CEA"

// Load builds a Config from an optional YAML file plus environment
// variable overrides (which always win), in a LoadFromFile + LoadEnv
// precedence split.
//
// Only CEA_DATA_DIR is required; every other variable is optional and
// falls back to Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv layers environment variables over cfg using viper's env
// binding, so CEA_DATA_DIR / CEA_CORS_ORIGINS / CEA_SERVER_PORT take
// precedence over whatever the YAML file set.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	bindings := []string{
		"DATA_DIR",
		"CORS_ORIGINS",
		"SERVER_HOST",
		"SERVER_PORT",
		"LOG_LEVEL",
	}
	for _, key := range bindings {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if dataDir := v.GetString("DATA_DIR"); dataDir != "" {
		cfg.Store.DataDir = dataDir
	}
	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(origins)
	}
	if host := v.GetString("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := v.GetInt("SERVER_PORT"); port != 0 {
		cfg.Server.Port = port
	}
	if level := v.GetString("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MustParseDuration is a small helper for YAML/env fields that carry
// durations as strings (e.g. "30s"); it panics on malformed input
// since it is only ever called against compile-time-known defaults.
func MustParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
