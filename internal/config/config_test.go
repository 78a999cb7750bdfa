package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alex-user-go/tripcompare/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.SearchTimeout.Std() != 2*time.Second {
		t.Errorf("expected default search timeout 2s, got %v", cfg.SearchTimeout.Std())
	}
	if cfg.Retry.Attempts != 2 || cfg.Retry.Delay.Std() != 3500*time.Millisecond {
		t.Errorf("unexpected default retry policy %+v", cfg.Retry)
	}
	if len(cfg.Providers.Hotels) != 2 || len(cfg.Providers.Flights) != 2 {
		t.Errorf("expected 2+2 default providers, got %d+%d",
			len(cfg.Providers.Hotels), len(cfg.Providers.Flights))
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
listen_addr: ":9090"
search_timeout: 5s
cache:
  ttl: 1m
  redis_addr: "localhost:6379"
rate_limit:
  per_ip: 20
  window: 30s
retry:
  attempts: 1
  delay: 500ms
providers:
  hotels:
    - id: agoda
      url: http://agoda.internal
      timeout: 3s
      rps: 5
      retry: true
  flights:
    - id: skylink
      url: http://skylink.internal
      timeout: 4s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.ListenAddr)
	}
	if cfg.Cache.TTL.Std() != time.Minute {
		t.Errorf("expected cache ttl 1m, got %v", cfg.Cache.TTL.Std())
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr, got %q", cfg.Cache.RedisAddr)
	}

	if len(cfg.Providers.Hotels) != 1 {
		t.Fatalf("expected 1 hotel provider, got %d", len(cfg.Providers.Hotels))
	}
	agoda := cfg.Providers.Hotels[0]
	if agoda.ID != "agoda" || agoda.Timeout.Std() != 3*time.Second || agoda.RPS != 5 || !agoda.Retry {
		t.Errorf("unexpected provider config %+v", agoda)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search_timeout: fast\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_DuplicateProviderID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
providers:
  hotels:
    - id: dup
      url: http://a
      timeout: 1s
  flights:
    - id: dup
      url: http://b
      timeout: 1s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for duplicate provider id")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("expected env override :7070, got %q", cfg.ListenAddr)
	}
	if cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("expected env override redis addr, got %q", cfg.Cache.RedisAddr)
	}
}
