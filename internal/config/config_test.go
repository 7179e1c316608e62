package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Timezone != "America/Bogota" {
		t.Errorf("expected default timezone America/Bogota, got %s", cfg.Timezone)
	}
	if cfg.OutboxPollInterval != 15*time.Second {
		t.Errorf("expected default poll interval 15s, got %s", cfg.OutboxPollInterval)
	}
	if cfg.CitasPageSize != 50 {
		t.Errorf("expected default page size 50, got %d", cfg.CitasPageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OUTBOX_POLL_INTERVAL", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.ipsalud.co, https://admin.ipsalud.co")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.OutboxPollInterval != time.Minute {
		t.Errorf("expected poll interval 1m, got %s", cfg.OutboxPollInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.ipsalud.co" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
}

func TestGetEnvAsIntInvalid(t *testing.T) {
	t.Setenv("CITAS_PAGE_SIZE", "not-a-number")
	cfg := Load()
	if cfg.CitasPageSize != 50 {
		t.Errorf("expected fallback page size 50, got %d", cfg.CitasPageSize)
	}
}
