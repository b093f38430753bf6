package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d; want 8080", cfg.Port)
	}
	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %q; want %q", cfg.StoreBackend, "memory")
	}
	if cfg.RateLimit != 30 {
		t.Errorf("RateLimit = %d; want 30", cfg.RateLimit)
	}
	if cfg.RateWindow != time.Minute {
		t.Errorf("RateWindow = %v; want 1m", cfg.RateWindow)
	}
	if cfg.LLMProvider != "openrouter" {
		t.Errorf("LLMProvider = %q; want %q", cfg.LLMProvider, "openrouter")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d; want 9090", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend = %q; want %q", cfg.StoreBackend, "sqlite")
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %d; want 5", cfg.RateLimit)
	}
	if cfg.RateWindow != 30*time.Second {
		t.Errorf("RateWindow = %v; want 30s", cfg.RateWindow)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "dynamo")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unknown store backend")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should require DATABASE_URL for postgres")
	}
}
