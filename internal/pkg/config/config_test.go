package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Backend.URL != "http://localhost:8001" || cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected backend defaults %+v", cfg.Backend)
	}
	if cfg.Session.Secret != DevSessionSecret || cfg.Session.TTL != 168*time.Hour {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.Mongo.Database != "school_portal" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected storage defaults %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":              "production",
		"SESSION_SECRET":   "s3cret",
		"BACKEND_URL":      "https://api.school.example",
		"BACKEND_TIMEOUT":  "3s",
		"REDIS_DB":         "2",
		"PORTAL_STATE_DIR": "/tmp/portal",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDevelopment() || cfg.Session.Secret != "s3cret" || cfg.Backend.Timeout != 3*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Redis.DB != 2 || cfg.StateDir != "/tmp/portal" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadFrom_SecretRequiredInProduction(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORTAL_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTAL_TEST_DOTENV", "")
	os.Unsetenv("PORTAL_TEST_DOTENV")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("PORTAL_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
