package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be dev, got %q", cfg.App.Env)
	}
	if cfg.Client.BaseURL != "http://localhost:5000" {
		t.Fatalf("unexpected base URL %q", cfg.Client.BaseURL)
	}
	if cfg.Client.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.Client.HTTPTimeout)
	}
	if cfg.App.Locale != "vi" {
		t.Fatalf("unexpected locale %q", cfg.App.Locale)
	}
	if cfg.Stub.SessionTTL() != time.Hour {
		t.Fatalf("unexpected stub session ttl %v", cfg.Stub.SessionTTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GARAGE_APP_ENV", "prod")
	t.Setenv("GARAGE_BASE_URL", "https://garage.example.com")
	t.Setenv("GARAGE_HTTP_TIMEOUT", "3s")
	t.Setenv("GARAGE_STUB_SESSION_TTL_MINUTES", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.Client.BaseURL != "https://garage.example.com" {
		t.Fatalf("unexpected base URL %q", cfg.Client.BaseURL)
	}
	if cfg.Client.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.Client.HTTPTimeout)
	}
	if cfg.Stub.SessionTTL() != 0 {
		t.Fatalf("expected zero ttl, got %v", cfg.Stub.SessionTTL())
	}
}
