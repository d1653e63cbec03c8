package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ummet-social/censor/denylist"
	"github.com/ummet-social/censor/engine"
	"github.com/ummet-social/censor/interfaces"
	"github.com/ummet-social/censor/metrics"
	"github.com/ummet-social/censor/models"
)

const (
	B  int = 1
	KB     = 1024 * B
	MB     = 1024 * KB
)

const (
	defaultActionThreshold    = 0.5
	defaultClassifierTimeout  = 3 * time.Second
	defaultSyncInterval       = 5 * time.Minute
	defaultMaxMessageSize     = 4 * KB
	defaultLearnThreshold     = 0.9
	defaultMaxLearnTermLength = 255
	defaultCacheTTL           = 1 * time.Hour
	defaultCacheFlaggedTTL    = 24 * time.Hour
	defaultCacheMaxBytes      = 32 * MB
	defaultBatchConcurrency   = 8
)

// FailurePolicy decides the verdict when the remote classifier fails.
type FailurePolicy string

const (
	// PolicyFallback returns the local denylist verdict.
	PolicyFallback FailurePolicy = "fallback"
	// PolicyFailClosed holds the content for human review.
	PolicyFailClosed FailurePolicy = "fail_closed"
)

// Valid reports whether p is a known policy.
func (p FailurePolicy) Valid() bool {
	return p == PolicyFallback || p == PolicyFailClosed
}

// EventName is a callback bus event.
type EventName string

const (
	EventAdmitted          EventName = "admitted"
	EventFlagged           EventName = "flagged"
	EventClassifierFailure EventName = "classifier_failure"
)

// ScreeningEvent is callback payload.
type ScreeningEvent struct {
	MessageID int64
	Author    int64
	Kind      models.ContentKind
	Verdict   models.Verdict
	// Err is set for EventClassifierFailure.
	Err error
}

// EventHandler handles one screening event.
type EventHandler func(ctx context.Context, event ScreeningEvent) error

// Options configure the screener. Zero values select defaults.
type Options struct {
	// Denylist is the base list; nil selects denylist.Default().
	Denylist *denylist.Denylist
	Matching engine.Options

	// Classifier is an optional remote classifier consulted after the local scan.
	Classifier interfaces.Classifier
	Storage    interfaces.Storage
	Logger     interfaces.Logger
	Metrics    *metrics.Metrics

	FailurePolicy FailurePolicy
	// ActionThreshold flags a verdict whose overall score exceeds it. It must
	// stay below models.DenylistOverall.
	ActionThreshold   float64
	ClassifierTimeout time.Duration
	// AlwaysConsultRemote calls the classifier even when the denylist matched.
	AlwaysConsultRemote bool

	MaxMessageSize   int
	SyncInterval     time.Duration
	BatchConcurrency int

	// CacheTTL keeps admitted remote verdicts, CacheFlaggedTTL flagged ones.
	CacheTTL        time.Duration
	CacheFlaggedTTL time.Duration
	CacheMaxBytes   int
	DisableCache    bool

	AutoLearn          bool
	LearnThreshold     float64
	MaxLearnTermLength int
}

// Core screens text against the denylist and an optional remote classifier.
// It is safe for concurrent use.
type Core struct {
	base    *denylist.Denylist
	engine  *engine.Engine
	remote  interfaces.Classifier
	storage interfaces.Storage
	logger  interfaces.Logger
	metrics *metrics.Metrics

	policy              FailurePolicy
	actionThreshold     float64
	classifierTimeout   time.Duration
	alwaysConsultRemote bool
	maxMessageSize      int
	syncInterval        time.Duration
	batchConcurrency    int
	cache               *verdictCache
	autoLearn           bool
	learnThreshold      float64
	maxLearnTermLength  int

	// pending holds learned terms a sync has not yet seen in storage.
	pendingMu sync.Mutex
	pending   []string

	eventsMu sync.RWMutex
	events   map[EventName][]EventHandler

	closeOnce sync.Once
	done      chan struct{}
}

var _ interfaces.Classifier = (*Core)(nil)

// New creates a screener. Configuration errors are returned by the Classify,
// SyncOnce and Run methods.
func New(opt Options) *Core {
	c := &Core{
		base:               opt.Denylist,
		engine:             engine.New(opt.Matching),
		remote:             opt.Classifier,
		storage:            opt.Storage,
		logger:             opt.Logger,
		metrics:            opt.Metrics,
		policy:             PolicyFallback,
		actionThreshold:    defaultActionThreshold,
		classifierTimeout:  defaultClassifierTimeout,
		maxMessageSize:     defaultMaxMessageSize,
		syncInterval:       defaultSyncInterval,
		batchConcurrency:   defaultBatchConcurrency,
		autoLearn:          opt.AutoLearn,
		learnThreshold:     defaultLearnThreshold,
		maxLearnTermLength: defaultMaxLearnTermLength,
		events:             make(map[EventName][]EventHandler, 3),
		done:               make(chan struct{}),
	}

	if c.base == nil {
		c.base = denylist.Default()
	}
	if opt.FailurePolicy != "" {
		c.policy = opt.FailurePolicy
	}
	if opt.ActionThreshold > 0 {
		c.actionThreshold = opt.ActionThreshold
	}
	if opt.ClassifierTimeout > 0 {
		c.classifierTimeout = opt.ClassifierTimeout
	}
	c.alwaysConsultRemote = opt.AlwaysConsultRemote
	if opt.MaxMessageSize > 0 {
		c.maxMessageSize = opt.MaxMessageSize
	}
	if opt.SyncInterval > 0 {
		c.syncInterval = opt.SyncInterval
	}
	if opt.BatchConcurrency > 0 {
		c.batchConcurrency = opt.BatchConcurrency
	}
	if opt.LearnThreshold > 0 {
		c.learnThreshold = opt.LearnThreshold
	}
	if opt.MaxLearnTermLength > 0 {
		c.maxLearnTermLength = opt.MaxLearnTermLength
	}

	c.engine.ReplaceAll(c.base.Terms())

	if c.remote != nil && !opt.DisableCache {
		cacheMaxBytes := defaultCacheMaxBytes
		if opt.CacheMaxBytes > 0 {
			cacheMaxBytes = opt.CacheMaxBytes
		}
		admittedTTL, flaggedTTL := defaultCacheTTL, defaultCacheFlaggedTTL
		if opt.CacheTTL > 0 {
			admittedTTL = opt.CacheTTL
		}
		if opt.CacheFlaggedTTL > 0 {
			flaggedTTL = opt.CacheFlaggedTTL
		}
		c.cache = newVerdictCache(int64(cacheMaxBytes), admittedTTL, flaggedTTL)
		go c.cache.sweepEvery(c.cache.sweepInterval(), c.done)
	}

	return c
}

// Close stops background work. It does not stop Run; cancel its context.
func (c *Core) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Name implements interfaces.Classifier.
func (c *Core) Name() string {
	if c.remote != nil {
		return "denylist+" + c.remote.Name()
	}
	return "denylist"
}

// On registers event handlers.
func (c *Core) On(event EventName, handler EventHandler) error {
	if handler == nil {
		return errors.New("core: handler is nil")
	}
	c.eventsMu.Lock()
	c.events[event] = append(c.events[event], handler)
	c.eventsMu.Unlock()
	return nil
}

// OnAdmitted registers a handler for content that was not flagged.
func (c *Core) OnAdmitted(handler EventHandler) error {
	return c.On(EventAdmitted, handler)
}

// OnFlagged registers a handler for flagged content.
func (c *Core) OnFlagged(handler EventHandler) error {
	return c.On(EventFlagged, handler)
}

// OnClassifierFailure registers a handler for remote classifier failures.
func (c *Core) OnClassifierFailure(handler EventHandler) error {
	return c.On(EventClassifierFailure, handler)
}

// Run loads stored terms and re-syncs periodically until context cancellation.
func (c *Core) Run(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.SyncOnce(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.SyncOnce(ctx); err != nil {
				c.logWarn("sync failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// SyncOnce installs the base denylist followed by the stored terms.
func (c *Core) SyncOnce(ctx context.Context) error {
	if c.storage == nil {
		return errors.New("core: storage is nil")
	}
	stored, err := c.storage.GetTerms(ctx)
	if err != nil {
		return err
	}
	stored = append([]string(nil), stored...)
	sort.Strings(stored)

	c.pendingMu.Lock()
	c.pending = unsaved(c.pending, stored)
	c.engine.ReplaceAll(c.base.Union(append(stored, c.pending...)).Terms())
	pending := len(c.pending)
	c.pendingMu.Unlock()

	c.logDebug("denylist synced", map[string]any{"terms": c.engine.Count(), "stored": len(stored), "pending": pending})
	return nil
}

func unsaved(pending, stored []string) []string {
	if len(pending) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(stored))
	for _, t := range stored {
		seen[t] = struct{}{}
	}
	out := pending[:0]
	for _, t := range pending {
		if _, ok := seen[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Scan checks text against the installed denylist.
func (c *Core) Scan(text string) models.ScanResult {
	return c.engine.Scan(text)
}

// Classify returns the moderation verdict for text. Remote classifier
// failures are resolved by the failure policy and never returned; the error
// is reserved for invalid configuration.
func (c *Core) Classify(ctx context.Context, text string) (models.Verdict, error) {
	res, err := c.classify(ctx, text)
	if err != nil {
		return models.Verdict{}, err
	}
	return res.verdict, nil
}

// ClassifyMessage screens one message and dispatches events.
func (c *Core) ClassifyMessage(ctx context.Context, message models.Message) (models.Screening, error) {
	res, err := c.classify(ctx, message.Text)
	if err != nil {
		return models.Screening{}, err
	}

	e := ScreeningEvent{
		MessageID: message.ID,
		Author:    message.Author,
		Kind:      message.Kind,
		Verdict:   res.verdict,
	}
	if res.remoteErr != nil {
		fe := e
		fe.Err = res.remoteErr
		c.dispatch(ctx, EventClassifierFailure, fe)
	}
	if res.verdict.Flagged {
		c.dispatch(ctx, EventFlagged, e)
	} else {
		c.dispatch(ctx, EventAdmitted, e)
	}

	return models.Screening{Message: message, Scan: res.scan, Verdict: res.verdict}, nil
}

// ClassifyBatch screens messages concurrently. Results keep input order.
func (c *Core) ClassifyBatch(ctx context.Context, messages []models.Message) ([]models.Screening, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}

	out := make([]models.Screening, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)
	for i, msg := range messages {
		g.Go(func() error {
			s, err := c.ClassifyMessage(gctx, msg)
			if err != nil {
				return fmt.Errorf("core: message %d: %w", msg.ID, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type classification struct {
	verdict   models.Verdict
	scan      models.ScanResult
	remoteErr error
}

func (c *Core) classify(ctx context.Context, text string) (classification, error) {
	if ctx == nil {
		return classification{}, errors.New("core: context is nil")
	}
	if err := c.validate(); err != nil {
		return classification{}, err
	}

	scan := c.engine.Scan(text)
	res := classification{scan: scan, verdict: models.DenylistVerdict(scan.MatchedTerms)}
	if c.remote != nil && (!scan.Found || c.alwaysConsultRemote) {
		res.verdict, res.remoteErr = c.consultRemote(ctx, text, res.verdict)
	}

	res.verdict.Flagged = res.verdict.Overall > c.actionThreshold
	c.metrics.ObserveScreening(res.verdict.Flagged, scan.Found)
	return res, nil
}

func (c *Core) consultRemote(ctx context.Context, text string, local models.Verdict) (models.Verdict, error) {
	payload := truncate(text, c.maxMessageSize)
	key := cacheKey(c.engine.Fold, payload)
	if cached, ok := c.cache.lookup(key, time.Now()); ok {
		c.metrics.IncrementCacheHit()
		return models.Merge(local, cached), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.classifierTimeout)
	start := time.Now()
	remote, err := c.remote.Classify(callCtx, payload)
	timedOut := errors.Is(callCtx.Err(), context.DeadlineExceeded)
	cancel()
	c.metrics.ObserveClassifier(start)

	if err == nil {
		if verr := remote.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", interfaces.ErrClassifierMalformedResponse, verr)
		}
	}
	if err != nil {
		if timedOut && !errors.Is(err, interfaces.ErrClassifierTimeout) {
			err = fmt.Errorf("%w: %v", interfaces.ErrClassifierTimeout, err)
		}
		kind := interfaces.FailureKind(err)
		c.metrics.IncrementClassifierFailure(c.remote.Name(), kind)
		c.logWarn("classifier failed", map[string]any{
			"classifier": c.remote.Name(),
			"kind":       kind,
			"policy":     string(c.policy),
			"error":      err.Error(),
		})
		return c.onFailure(local), err
	}

	remote.Source = models.SourceRemote
	c.cache.store(key, remote, remote.Overall > c.actionThreshold, time.Now())
	c.learn(remote)
	return models.Merge(local, remote), nil
}

func (c *Core) onFailure(local models.Verdict) models.Verdict {
	var v models.Verdict
	switch c.policy {
	case PolicyFailClosed:
		v = models.Merge(local, models.ReviewVerdict("classifier unavailable, held for review"))
	default:
		v = local
	}
	v.Source = models.SourceFallback
	return v
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// learn installs high-confidence terms from a remote verdict and saves them
// in the background. A term stays pending until a sync finds it in storage,
// so a reload never drops it in between.
func (c *Core) learn(v models.Verdict) {
	if !c.autoLearn || c.storage == nil || v.Overall < c.learnThreshold {
		return
	}
	for _, raw := range v.MatchedTerms {
		term := denylist.Normalize(raw)
		if term == "" {
			continue
		}
		if len(term) > c.maxLearnTermLength {
			c.logWarn("learned term too long", map[string]any{"term": term, "max_length": c.maxLearnTermLength})
			continue
		}

		c.pendingMu.Lock()
		added := c.engine.AddTerm(term)
		if added {
			c.pending = append(c.pending, term)
		}
		c.pendingMu.Unlock()

		if added {
			go c.persist(term)
		}
	}
}

func (c *Core) persist(term string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.storage.AddTerm(ctx, term); err != nil {
		c.logWarn("learned term not saved", map[string]any{"error": err.Error(), "term": term})
	}
}

// TermCount returns the number of installed terms.
func (c *Core) TermCount() int {
	return c.engine.Count()
}

// Stats returns matching engine statistics.
func (c *Core) Stats() engine.Stats {
	return c.engine.Stats()
}

func (c *Core) dispatch(ctx context.Context, event EventName, e ScreeningEvent) {
	c.eventsMu.RLock()
	handlers := append([]EventHandler(nil), c.events[event]...)
	c.eventsMu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			c.logWarn("event handler failed", map[string]any{"error": err.Error(), "event": string(event)})
		}
	}
}

func (c *Core) validate() error {
	if !c.policy.Valid() {
		return fmt.Errorf("core: unknown failure policy: %q", c.policy)
	}
	if c.actionThreshold >= models.DenylistOverall {
		return fmt.Errorf("core: action threshold %v must be below %v", c.actionThreshold, models.DenylistOverall)
	}
	if c.maxMessageSize <= 0 {
		return fmt.Errorf("core: invalid max message size: %d", c.maxMessageSize)
	}
	return nil
}

func (c *Core) logWarn(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}

func (c *Core) logDebug(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
