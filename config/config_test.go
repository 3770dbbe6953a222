package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "MONGO_URI", "STORE", "PURGE_INTERVAL", "CUTOFF_TZ", "JWT_SECRET", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != ":10000" || cfg.Store != "mongo" || cfg.PurgeInterval != time.Hour {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("no fallback JWT secret")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":8080")
	t.Setenv("STORE", "Memory")
	t.Setenv("PURGE_INTERVAL", "15m")
	t.Setenv("CUTOFF_TZ", "Asia/Kolkata")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != ":8080" || cfg.Store != "memory" || cfg.PurgeInterval != 15*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Location.String() != "Asia/Kolkata" {
		t.Fatalf("Location = %v", cfg.Location)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PURGE_INTERVAL", "hourly")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad PURGE_INTERVAL")
	}
	t.Setenv("PURGE_INTERVAL", "1h")
	t.Setenv("STORE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown STORE")
	}
	t.Setenv("STORE", "mongo")
	t.Setenv("CUTOFF_TZ", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown CUTOFF_TZ")
	}
}
