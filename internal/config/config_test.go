package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testYAML = `
app:
  port: 9090
  gin_mode: release
database:
  dsn: "host=localhost user=auth dbname=auth"
redis:
  addr: "localhost:6379"
  db: 2
jwt:
  private_key_file: keys/private.pem
  public_key_file: keys/public.pem
  issuer: authsvc
  access_ttl: 15m
  refresh_ttl: 336h
reset:
  token_length: 6
  ttl: 6h
  resend_limit: 3
  resend_window: 15m
throttle:
  login_limit: 10
  login_window: 1m
casbin:
  model_path: config/rbac_model.conf
sweep:
  interval: 1h
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeTestConfig(t, testYAML))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected access ttl 15m, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 336*time.Hour {
		t.Errorf("expected refresh ttl 336h, got %v", cfg.RefreshTTL)
	}
	if cfg.ResetTTL != 6*time.Hour {
		t.Errorf("expected reset ttl 6h, got %v", cfg.ResetTTL)
	}
	if cfg.SweepInterval != time.Hour {
		t.Errorf("expected sweep interval 1h, got %v", cfg.SweepInterval)
	}
	if cfg.ResetResendLimit != 3 || cfg.LoginLimit != 10 {
		t.Errorf("unexpected limits: %d %d", cfg.ResetResendLimit, cfg.LoginLimit)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeTestConfig(t, testYAML))
	t.Setenv("DATABASE_DSN", "host=prod-db user=auth dbname=auth")
	t.Setenv("REDIS_ADDR", "prod-redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DSN != "host=prod-db user=auth dbname=auth" {
		t.Errorf("DSN override ignored: %s", cfg.DSN)
	}
	if cfg.RedisAddr != "prod-redis:6379" {
		t.Errorf("redis override ignored: %s", cfg.RedisAddr)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	bad := strings.Replace(testYAML, "interval: 1h", "interval: soon", 1)
	t.Setenv("CONFIG_FILE", writeTestConfig(t, bad))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
