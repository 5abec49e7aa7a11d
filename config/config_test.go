package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wikitok/backend/session"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected port %s, got %s", defaultPort, cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.DSN != defaultSQLiteDSN {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Auth.Mode != AuthModeDemo {
		t.Errorf("expected auth mode %s, got %s", AuthModeDemo, cfg.Auth.Mode)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS origin, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Server.RequestTimeout != defaultRequestTimeout {
		t.Errorf("expected request timeout %s, got %s", defaultRequestTimeout, cfg.Server.RequestTimeout)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
  request_timeout: 5s
database:
  driver: postgres
auth:
  mode: token
  demo_token: from-file
cors:
  allowed_origins: ["http://localhost:5173"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("PORT", "7000")
	t.Setenv("DEMO_API_TOKEN", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("env should override file port, got %s", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s request timeout, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.DSN != defaultPostgresDSN {
		t.Errorf("expected postgres default DSN, got %s", cfg.Database.DSN)
	}
	if cfg.Auth.Mode != AuthModeToken || cfg.Auth.DemoToken != "from-env" {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("unexpected CORS origins: %v", got)
	}
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"driver", "DB_DRIVER", "oracle"},
		{"auth mode", "AUTH_MODE", "oauth"},
		{"log format", "LOG_FORMAT", "xml"},
		{"timeout", "REQUEST_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%s", tt.env, tt.val)
			}
		})
	}
}

func TestAcceptedAuthModesBuildResolvers(t *testing.T) {
	for _, mode := range []string{AuthModeDemo, AuthModeToken} {
		t.Setenv("AUTH_MODE", mode)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load with auth mode %s: %v", mode, err)
		}
		if _, err := session.New(cfg.Auth.Mode, nil); err != nil {
			t.Errorf("auth mode %s accepted by config but not by session: %v", mode, err)
		}
	}
}
