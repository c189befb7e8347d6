package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// loadFromString writes yaml to a temp file and loads it.
func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoad_Valid(t *testing.T) {
	yaml := `
server:
  http_port: 9090
  broadcast_interval: 2s
  auth:
    mode: apikey
    key_env: HRF_API_KEY
templates:
  path: /tmp/templates.json
session:
  ttl: 10m
thresholds:
  carbon_emissions: 0
alerts:
  rules:
    - name: emissions-positive
      condition: "carbon_emissions > 0"
      severity: critical
      cooldown: 5m
storage:
  backend: sqlite
  path: /tmp/hrf.db
  retention: 168h
`
	cfg := loadFromString(t, yaml)

	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("http_port: got %d", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval != 2*time.Second {
		t.Errorf("broadcast_interval: got %v", cfg.Server.BroadcastInterval)
	}
	if cfg.Server.Auth.Mode != "apikey" {
		t.Errorf("auth mode: got %q", cfg.Server.Auth.Mode)
	}
	if cfg.Templates.Path != "/tmp/templates.json" {
		t.Errorf("templates path: got %q", cfg.Templates.Path)
	}
	if cfg.Session.TTL != 10*time.Minute {
		t.Errorf("session ttl: got %v", cfg.Session.TTL)
	}
	if cfg.Thresholds["carbon_emissions"] != 0 {
		t.Errorf("thresholds: got %v", cfg.Thresholds)
	}
	if len(cfg.Alerts.Rules) != 1 || cfg.Alerts.Rules[0].Cooldown != 5*time.Minute {
		t.Errorf("alert rules: got %+v", cfg.Alerts.Rules)
	}
	if !cfg.Storage.Enabled() || cfg.Storage.Retention != 168*time.Hour {
		t.Errorf("storage: got %+v", cfg.Storage)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "server:\n  http_port: 8081\n")

	if cfg.Server.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("default broadcast_interval: got %v", cfg.Server.BroadcastInterval)
	}
	if cfg.Session.TTL != DefaultSessionTTL {
		t.Errorf("default session ttl: got %v", cfg.Session.TTL)
	}
	if cfg.Templates.Path != DefaultTemplatesPath {
		t.Errorf("default templates path: got %q", cfg.Templates.Path)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage must be disabled by default")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want default", cfg.Server.HTTPPort)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad port", "server:\n  http_port: -1\n", "out of range"},
		{"bad auth mode", "server:\n  auth:\n    mode: oauth\n", "not supported"},
		{"bad backend", "storage:\n  backend: postgres\n", "not supported"},
		{"sqlite without path", "storage:\n  backend: sqlite\n", "storage.path is required"},
		{"rule without condition", "alerts:\n  rules:\n    - name: x\n", "condition is required"},
		{"not yaml", "{{{", "parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load: expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestAuthConfig_Key(t *testing.T) {
	t.Setenv("HRF_TEST_KEY", "abc")
	a := AuthConfig{KeyEnv: "HRF_TEST_KEY"}
	if a.Key() != "abc" {
		t.Errorf("Key: got %q", a.Key())
	}
	if (AuthConfig{}).Key() != "" {
		t.Error("empty KeyEnv must resolve to empty key")
	}
	if (AuthConfig{}).EffectiveHeader() != "X-API-Key" {
		t.Errorf("default header: got %q", (AuthConfig{}).EffectiveHeader())
	}
}
