package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("want port 8080, got %d", cfg.Port)
	}
	if cfg.SessionIdleTimeout != 10*time.Minute {
		t.Fatalf("want 10m idle timeout, got %v", cfg.SessionIdleTimeout)
	}
	if cfg.DeclinedCap != 20 {
		t.Fatalf("want declined cap 20, got %d", cfg.DeclinedCap)
	}
	if cfg.SweepSchedule != "@every 1m" {
		t.Fatalf("unexpected sweep schedule %q", cfg.SweepSchedule)
	}
	if cfg.StatsSchedule != "5 0 * * *" {
		t.Fatalf("unexpected stats schedule %q", cfg.StatsSchedule)
	}
	if cfg.AnonCookieTTL != time.Hour {
		t.Fatalf("want 1h cookie ttl, got %v", cfg.AnonCookieTTL)
	}
	if cfg.IsProduction() {
		t.Fatalf("development should be the default")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORAGE_DRIVER", "firestore")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestLoad_RejectsNonPositiveCap(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DECLINED_CAP", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero cap")
	}
}
