package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Matching.Mode != "substring" || cfg.Policy.Failure != "fallback" || cfg.Classifier.Type != "none" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Policy.ClassifierTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Policy.ClassifierTimeout)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "censor.yaml")
	doc := `
matching:
  mode: word
  fold: turkish
classifier:
  type: chat
  timeout: 10s
  rate_limit: 2.5
policy:
  failure: fail_closed
  classifier_timeout: 1500ms
storage:
  type: redis
  redis_url: redis://localhost:6379/0
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Matching.Mode != "word" || cfg.Matching.Fold != "turkish" || cfg.Matching.Wildcards != "literal" {
		t.Fatalf("unexpected matching: %+v", cfg.Matching)
	}
	if cfg.Classifier.APIKeyEnv != "DEEPSEEK_API_KEY" || cfg.Classifier.Timeout != 10*time.Second {
		t.Fatalf("unexpected classifier: %+v", cfg.Classifier)
	}
	if cfg.Policy.ClassifierTimeout != 1500*time.Millisecond || cfg.Policy.ActionThreshold != 0.5 {
		t.Fatalf("unexpected policy: %+v", cfg.Policy)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "censor.yaml")
	if err := os.WriteFile(path, []byte("matching: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"match mode", func(c *Config) { c.Matching.Mode = "regex" }, "matching.mode"},
		{"wildcards", func(c *Config) { c.Matching.Wildcards = "glob" }, "matching.wildcards"},
		{"fold", func(c *Config) { c.Matching.Fold = "upper" }, "matching.fold"},
		{"classifier type", func(c *Config) { c.Classifier.Type = "grpc" }, "classifier.type"},
		{"http without url", func(c *Config) { c.Classifier.Type = "http" }, "classifier.url"},
		{"http bad scheme", func(c *Config) {
			c.Classifier.Type = "http"
			c.Classifier.URL = "ftp://mod.example"
		}, "http or https"},
		{"chat bad base url", func(c *Config) {
			c.Classifier.Type = "chat"
			c.Classifier.APIKeyEnv = "KEY"
			c.Classifier.BaseURL = "https://"
		}, "host"},
		{"negative rate", func(c *Config) {
			c.Classifier.Type = "http"
			c.Classifier.URL = "https://mod.example"
			c.Classifier.RateLimit = -1
		}, "rate_limit"},
		{"failure policy", func(c *Config) { c.Policy.Failure = "fail_open" }, "policy.failure"},
		{"threshold too high", func(c *Config) { c.Policy.ActionThreshold = 0.7 }, "action_threshold"},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, "storage.dsn"},
		{"redis without url", func(c *Config) { c.Storage.Type = "redis" }, "storage.redis_url"},
		{"file without path", func(c *Config) { c.Storage.Type = "file" }, "storage.path"},
		{"storage type", func(c *Config) { c.Storage.Type = "mongo" }, "storage.type"},
		{"learn without classifier", func(c *Config) { c.Learn.Enabled = true }, "requires a classifier"},
		{"negative cache", func(c *Config) { c.Cache.TTL = -time.Second }, "cache"},
		{"negative flagged ttl", func(c *Config) { c.Cache.FlaggedTTL = -time.Second }, "cache.flagged_ttl"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateOK(t *testing.T) {
	cfg := defaultConfig()
	cfg.Classifier = ClassifierConfig{Type: "http", URL: "https://moderation.internal/v1/check"}
	cfg.Storage = StorageConfig{Type: "postgres", DSN: "postgres://localhost/censor?sslmode=disable"}
	cfg.Learn = LearnConfig{Enabled: true, Threshold: 0.95}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
