package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8080
	DefaultBroadcastInterval = 5 * time.Second
	DefaultSessionTTL        = 30 * time.Minute
	DefaultTemplatesPath     = "saved_templates.json"
	DefaultStorageRetention  = 720 * time.Hour // 30 days
)

// Config is the top-level configuration for the hrf server and CLI.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Templates TemplatesConfig `yaml:"templates"`
	Session   SessionConfig   `yaml:"session"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Storage   StorageConfig   `yaml:"storage"`

	// Thresholds optionally replaces the shipped homeostasis limit table.
	// Keys that match tracked metric names produce entries in the
	// homeostasis report; the shipped keys do not match any metric.
	Thresholds map[string]float64 `yaml:"thresholds"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and /metrics
	// endpoint listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// current evaluation snapshot to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// Auth configures REST API authentication.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures API authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is expected in.
	// Defaults to X-API-Key.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name or the default.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return "X-API-Key"
	}
	return a.Header
}

// TemplatesConfig locates the JSON template store.
type TemplatesConfig struct {
	// Path is the filesystem path of the saved-templates JSON file.
	Path string `yaml:"path"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	// TTL is how long an idle session's model is kept alive before the
	// background eviction loop removes it.
	TTL time.Duration `yaml:"ttl"`
}

// AlertsConfig holds all alerting rules and webhook targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition over evaluation
// snapshots.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "carbon_emissions > 0",
	// "sdg_13 < 50" or "status == unstable".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// StorageConfig configures the optional write-behind intervention audit log.
type StorageConfig struct {
	// Backend selects the storage implementation: "" (disabled) | sqlite.
	Backend string `yaml:"backend"`

	// Path is the filesystem path for the SQLite database file.
	Path string `yaml:"path"`

	// Retention is how long audit rows are kept before pruning.
	Retention time.Duration `yaml:"retention"`
}

// Enabled reports whether an audit backend is configured.
func (s StorageConfig) Enabled() bool {
	return s.Backend != ""
}

// Load reads and parses the YAML config file at path. A missing file is not
// an error — the CLI works out of the box — and yields the defaults.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
		},
		Templates: TemplatesConfig{
			Path: DefaultTemplatesPath,
		},
		Session: SessionConfig{
			TTL: DefaultSessionTTL,
		},
		Storage: StorageConfig{
			Retention: DefaultStorageRetention,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	switch cfg.Server.Auth.Mode {
	case "", "none", "apikey":
	default:
		return fmt.Errorf("server.auth.mode %q not supported (apikey | none)", cfg.Server.Auth.Mode)
	}

	switch cfg.Storage.Backend {
	case "", "sqlite":
	default:
		return fmt.Errorf("storage.backend %q not supported (sqlite)", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage.backend is sqlite")
	}

	for i, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] (%s): condition is required", i, rule.Name)
		}
	}

	return nil
}
