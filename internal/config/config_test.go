package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadConfigParsesDashboardSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "Dev")
	t.Setenv("UPSTREAM_API_URL", "https://api.example.com/")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("PAGE_SIZE", "abc")
	t.Setenv("ENABLE_MOCK_REGISTRATION", "off")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development env, got %q", cfg.AppEnv)
	}
	if cfg.UpstreamAPIURL != "https://api.example.com" || cfg.UsesMockStore() {
		t.Errorf("unexpected upstream url %q", cfg.UpstreamAPIURL)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Errorf("expected 45s poll interval, got %v", cfg.PollInterval)
	}
	if cfg.PageSize != 10 {
		t.Errorf("expected invalid page size to fall back to 10, got %d", cfg.PageSize)
	}
	if cfg.MockRegistration {
		t.Errorf("expected mock registration to be disabled")
	}
}
