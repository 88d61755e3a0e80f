package config

import (
	"os"
	"testing"
)

func TestDefault_PassesValidation(t *testing.T) {
	cfg := Default()
	cfg.Store.DataDir = "/tmp/data"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config should validate once DataDir is set: %v", err)
	}
}

func TestValidate_RejectsMissingDataDir(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing DataDir")
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Store.DataDir = "/tmp/data"
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CEA_DATA_DIR", "/var/data/processed")
	t.Setenv("CEA_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CEA_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.DataDir != "/var/data/processed" {
		t.Errorf("DataDir = %q", cfg.Store.DataDir)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want 2 entries", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingDataDirFails(t *testing.T) {
	os.Unsetenv("CEA_DATA_DIR")
	if _, err := Load(""); err == nil {
		t.Fatal("expected Load to fail without CEA_DATA_DIR")
	}
}
