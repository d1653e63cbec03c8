// Command censor screens text from arguments or stdin and prints one verdict
// per line.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ummet-social/censor/adapters/classifier"
	"github.com/ummet-social/censor/adapters/logger"
	"github.com/ummet-social/censor/adapters/storage"
	"github.com/ummet-social/censor/core"
	"github.com/ummet-social/censor/denylist"
	"github.com/ummet-social/censor/engine"
	"github.com/ummet-social/censor/interfaces"
	"github.com/ummet-social/censor/internal/config"
	"github.com/ummet-social/censor/metrics"
	"github.com/ummet-social/censor/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns 0 when every input was admitted, 1 when any was flagged and 2
// on errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("censor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "censor.yaml", "Path to censor config file")
	kind := fs.String("kind", string(models.KindPost), "Content kind: post, comment, dua_request, event")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !models.ContentKind(*kind).Valid() {
		fmt.Fprintf(stderr, "invalid -kind %q: want post, comment, dua_request or event\n", *kind)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 2
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	log := newLogger(cfg.Logging, stderr)
	screener, cleanup, err := build(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		log.Error("failed to build screener", map[string]any{"error": err.Error()})
		return 2
	}
	defer cleanup()

	texts := fs.Args()
	if len(texts) == 0 {
		texts, err = readLines(stdin)
		if err != nil {
			log.Error("failed to read stdin", map[string]any{"error": err.Error()})
			return 2
		}
	}

	messages := make([]models.Message, len(texts))
	for i, text := range texts {
		messages[i] = models.Message{ID: int64(i + 1), Kind: models.ContentKind(*kind), Text: text}
	}
	screenings, err := screener.ClassifyBatch(ctx, messages)
	if err != nil {
		log.Error("screening failed", map[string]any{"error": err.Error()})
		return 2
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	code := 0
	for _, s := range screenings {
		if err := enc.Encode(s.Verdict); err != nil {
			log.Error("failed to write verdict", map[string]any{"error": err.Error()})
			return 2
		}
		if s.Verdict.Flagged {
			code = 1
		}
	}
	return code
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *logger.SlogAdapter {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.Level))
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	}
	return logger.NewSlogAdapter(slog.New(h))
}

// build wires a screener from validated config. The returned cleanup releases
// storage connections.
func build(ctx context.Context, cfg *config.Config, log interfaces.Logger, reg prometheus.Registerer) (*core.Core, func(), error) {
	base, err := baseDenylist(cfg.Denylist)
	if err != nil {
		return nil, nil, err
	}
	remote, err := buildClassifier(cfg.Classifier)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	opt := core.Options{
		Denylist:            base,
		Matching:            matchingOptions(cfg.Matching),
		Classifier:          remote,
		Storage:             store,
		Logger:              log,
		Metrics:             metrics.New(reg),
		FailurePolicy:       core.FailurePolicy(cfg.Policy.Failure),
		ActionThreshold:     cfg.Policy.ActionThreshold,
		ClassifierTimeout:   cfg.Policy.ClassifierTimeout,
		AlwaysConsultRemote: cfg.Classifier.AlwaysRemote,
		MaxMessageSize:      cfg.Policy.MaxMessageSize,
		BatchConcurrency:    cfg.Policy.BatchConcurrency,
		CacheTTL:            cfg.Cache.TTL,
		CacheFlaggedTTL:     cfg.Cache.FlaggedTTL,
		CacheMaxBytes:       cfg.Cache.MaxBytes,
		DisableCache:        cfg.Cache.Disabled,
		AutoLearn:           cfg.Learn.Enabled,
		LearnThreshold:      cfg.Learn.Threshold,
	}
	c := core.New(opt)
	cleanup := func() {
		c.Close()
		closeStore()
	}

	if store != nil {
		if err := c.SyncOnce(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("sync denylist: %w", err)
		}
	}
	return c, cleanup, nil
}

func baseDenylist(cfg config.DenylistConfig) (*denylist.Denylist, error) {
	if cfg.File == "" {
		return denylist.Default(), nil
	}
	d, err := denylist.LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}
	if cfg.ExtendDefault {
		return denylist.Default().Union(d.Terms()), nil
	}
	return d, nil
}

func matchingOptions(cfg config.MatchingConfig) engine.Options {
	var opt engine.Options
	if cfg.Mode == "word" {
		opt.Mode = engine.MatchWord
	}
	if cfg.Wildcards == "expand" {
		opt.Wildcards = engine.WildcardExpand
	}
	if cfg.Fold == "turkish" {
		opt.Fold = engine.FoldTurkish
	}
	return opt
}

// buildClassifier returns a nil interface when no classifier is configured.
func buildClassifier(cfg config.ClassifierConfig) (interfaces.Classifier, error) {
	limit := classifier.RateLimit{Limit: rate.Limit(cfg.RateLimit), Burst: cfg.Burst}
	switch cfg.Type {
	case "chat":
		key := os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("environment variable %s is empty", cfg.APIKeyEnv)
		}
		var prompt string
		if cfg.PromptFile != "" {
			raw, err := os.ReadFile(cfg.PromptFile)
			if err != nil {
				return nil, err
			}
			prompt = string(raw)
		}
		return classifier.NewChatAdapter(classifier.ChatOptions{
			APIKey:       key,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			Timeout:      cfg.Timeout,
			SystemPrompt: prompt,
			RateLimit:    limit,
		})
	case "http":
		return classifier.NewHTTPAdapter(classifier.HTTPOptions{
			URL:       cfg.URL,
			APIKey:    os.Getenv(cfg.APIKeyEnv),
			Timeout:   cfg.Timeout,
			RateLimit: limit,
		})
	default:
		return nil, nil
	}
}

func buildStorage(ctx context.Context, cfg config.StorageConfig) (interfaces.Storage, func(), error) {
	noop := func() {}
	switch cfg.Type {
	case "memory":
		return storage.NewMemoryAdapter(), noop, nil
	case "postgres":
		a, err := storage.NewPostgresAdapter(cfg.DSN, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		if err := a.EnsureSchema(ctx); err != nil {
			_ = a.DB().Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return a, func() { _ = a.DB().Close() }, nil
	case "redis":
		ropt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(ropt)
		a, err := storage.NewRedisAdapter(client, storage.WithRedisKey(cfg.RedisKey))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return a, func() { _ = client.Close() }, nil
	case "file":
		a, err := storage.NewFileAdapter(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return a, noop, nil
	case "none", "":
		return nil, noop, nil
	default:
		return nil, nil, errors.New("unsupported storage type " + cfg.Type)
	}
}
