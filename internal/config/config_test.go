package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("RECONCILE_CONCURRENCY", "")
	t.Setenv("AUTO_CLOSE_PREVIOUS_MONTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h, got %v", cfg.JWTExpirationDur)
	}
	if cfg.ReconcileConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.ReconcileConcurrency)
	}
	if cfg.AutoClosePreviousMonth {
		t.Error("expected auto close disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	t.Setenv("RECONCILE_CONCURRENCY", "0")
	t.Setenv("AUTO_CLOSE_PREVIOUS_MONTH", "true")
	t.Setenv("METRICS_ENABLED", "nope")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback to 24h, got %v", cfg.JWTExpirationDur)
	}
	if cfg.ReconcileConcurrency != 1 {
		t.Errorf("expected concurrency clamped to 1, got %d", cfg.ReconcileConcurrency)
	}
	if !cfg.AutoClosePreviousMonth {
		t.Error("expected auto close enabled")
	}
	if !cfg.MetricsEnabled {
		t.Error("expected invalid METRICS_ENABLED to fall back to true")
	}
	if Get() != cfg {
		t.Error("Get should return the last loaded config")
	}
}
