package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if err := oneOf("matching.mode", cfg.Matching.Mode, "substring", "word"); err != nil {
		return err
	}
	if err := oneOf("matching.wildcards", cfg.Matching.Wildcards, "literal", "expand"); err != nil {
		return err
	}
	if err := oneOf("matching.fold", cfg.Matching.Fold, "lower", "turkish"); err != nil {
		return err
	}

	if err := validateClassifierConfig(cfg.Classifier); err != nil {
		return err
	}
	if err := validatePolicyConfig(cfg.Policy); err != nil {
		return err
	}
	if err := validateStorageConfig(cfg.Storage); err != nil {
		return err
	}

	if cfg.Cache.TTL < 0 || cfg.Cache.FlaggedTTL < 0 || cfg.Cache.MaxBytes < 0 {
		return errors.New("cache.ttl, cache.flagged_ttl and cache.max_bytes must not be negative")
	}
	if cfg.Learn.Enabled {
		if cfg.Learn.Threshold <= 0 || cfg.Learn.Threshold > 1 {
			return fmt.Errorf("learn.threshold must be in (0, 1], got %v", cfg.Learn.Threshold)
		}
		if cfg.Classifier.Type == "none" {
			return errors.New("learn.enabled requires a classifier")
		}
	}

	if err := oneOf("logging.level", cfg.Logging.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return oneOf("logging.format", cfg.Logging.Format, "json", "text")
}

func validateClassifierConfig(c ClassifierConfig) error {
	switch c.Type {
	case "none":
		return nil
	case "chat":
		if strings.TrimSpace(c.APIKeyEnv) == "" {
			return errors.New("classifier.api_key_env must be set for chat")
		}
		if c.BaseURL != "" {
			if err := validateURL("classifier.base_url", c.BaseURL); err != nil {
				return err
			}
		}
	case "http":
		if strings.TrimSpace(c.URL) == "" {
			return errors.New("classifier.url must be set for http")
		}
		if err := validateURL("classifier.url", c.URL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("classifier.type %q is not supported", c.Type)
	}
	if c.Timeout < 0 {
		return errors.New("classifier.timeout must not be negative")
	}
	if c.RateLimit < 0 || c.Burst < 0 {
		return errors.New("classifier.rate_limit and classifier.burst must not be negative")
	}
	return nil
}

func validatePolicyConfig(p PolicyConfig) error {
	if err := oneOf("policy.failure", p.Failure, "fallback", "fail_closed"); err != nil {
		return err
	}
	// Above 0.7 a denylist hit would no longer be flagged.
	if p.ActionThreshold <= 0 || p.ActionThreshold >= 0.7 {
		return fmt.Errorf("policy.action_threshold must be in (0, 0.7), got %v", p.ActionThreshold)
	}
	if p.ClassifierTimeout < 0 {
		return errors.New("policy.classifier_timeout must not be negative")
	}
	if p.MaxMessageSize < 0 || p.BatchConcurrency < 0 {
		return errors.New("policy.max_message_size and policy.batch_concurrency must not be negative")
	}
	return nil
}

func validateStorageConfig(s StorageConfig) error {
	switch s.Type {
	case "none", "memory":
	case "postgres":
		if strings.TrimSpace(s.DSN) == "" {
			return errors.New("storage.dsn must be set for postgres")
		}
	case "redis":
		if strings.TrimSpace(s.RedisURL) == "" {
			return errors.New("storage.redis_url must be set for redis")
		}
	case "file":
		if strings.TrimSpace(s.Path) == "" {
			return errors.New("storage.path must be set for file")
		}
	default:
		return fmt.Errorf("storage.type %q is not supported", s.Type)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}
