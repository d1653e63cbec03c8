package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the censor CLI configuration.
type Config struct {
	Denylist   DenylistConfig   `yaml:"denylist"`
	Matching   MatchingConfig   `yaml:"matching"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Policy     PolicyConfig     `yaml:"policy"`
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Learn      LearnConfig      `yaml:"learn"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type DenylistConfig struct {
	File string `yaml:"file"` // .txt or .yaml; empty selects the built-in list
	// ExtendDefault keeps the built-in terms when File is set.
	ExtendDefault bool `yaml:"extend_default"`
}

type MatchingConfig struct {
	Mode      string `yaml:"mode"`      // substring | word
	Wildcards string `yaml:"wildcards"` // literal | expand
	Fold      string `yaml:"fold"`      // lower | turkish
}

type ClassifierConfig struct {
	Type         string        `yaml:"type"`     // none | chat | http
	BaseURL      string        `yaml:"base_url"` // chat
	URL          string        `yaml:"url"`      // http
	Model        string        `yaml:"model"`
	APIKeyEnv    string        `yaml:"api_key_env"` // e.g. "DEEPSEEK_API_KEY"
	Timeout      time.Duration `yaml:"timeout"`
	PromptFile   string        `yaml:"prompt_file"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst        int           `yaml:"burst"`
	AlwaysRemote bool          `yaml:"always_consult"`
}

type PolicyConfig struct {
	Failure           string        `yaml:"failure"` // fallback | fail_closed
	ActionThreshold   float64       `yaml:"action_threshold"`
	ClassifierTimeout time.Duration `yaml:"classifier_timeout"`
	MaxMessageSize    int           `yaml:"max_message_size"`
	BatchConcurrency  int           `yaml:"batch_concurrency"`
}

type StorageConfig struct {
	Type     string `yaml:"type"` // none | memory | postgres | redis | file
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`
	Path     string `yaml:"path"`
}

type CacheConfig struct {
	Disabled   bool          `yaml:"disabled"`
	TTL        time.Duration `yaml:"ttl"`         // admitted verdicts
	FlaggedTTL time.Duration `yaml:"flagged_ttl"` // flagged verdicts
	MaxBytes   int           `yaml:"max_bytes"`
}

type LearnConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Matching.Mode == "" {
		cfg.Matching.Mode = "substring"
	}
	if cfg.Matching.Wildcards == "" {
		cfg.Matching.Wildcards = "literal"
	}
	if cfg.Matching.Fold == "" {
		cfg.Matching.Fold = "lower"
	}

	if cfg.Classifier.Type == "" {
		cfg.Classifier.Type = "none"
	}
	if cfg.Classifier.Type == "chat" && cfg.Classifier.APIKeyEnv == "" {
		cfg.Classifier.APIKeyEnv = "DEEPSEEK_API_KEY"
	}

	if cfg.Policy.Failure == "" {
		cfg.Policy.Failure = "fallback"
	}
	if cfg.Policy.ActionThreshold == 0 {
		cfg.Policy.ActionThreshold = 0.5
	}
	if cfg.Policy.ClassifierTimeout == 0 {
		cfg.Policy.ClassifierTimeout = 3 * time.Second
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "none"
	}

	if cfg.Learn.Threshold == 0 {
		cfg.Learn.Threshold = 0.9
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
