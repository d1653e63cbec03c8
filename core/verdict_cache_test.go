package core

import (
	"strings"
	"testing"
	"time"

	"github.com/ummet-social/censor/models"
)

func TestVerdictCacheExpiresByOutcome(t *testing.T) {
	c := newVerdictCache(int64(MB), time.Minute, time.Hour)
	now := time.Now()
	c.store("temiz", models.Verdict{Overall: 0.1}, false, now)
	c.store("kirli", models.Verdict{Overall: 0.9, Flagged: true}, true, now)

	if _, ok := c.lookup("temiz", now.Add(59*time.Second)); !ok {
		t.Fatalf("admitted verdict expired early")
	}
	if _, ok := c.lookup("temiz", now.Add(time.Minute)); ok {
		t.Fatalf("admitted verdict must expire after its TTL")
	}
	if _, ok := c.lookup("kirli", now.Add(30*time.Minute)); !ok {
		t.Fatalf("flagged verdict must outlive the admitted TTL")
	}
	if c.len() != 1 {
		t.Fatalf("expired lookup must drop the entry, len=%d", c.len())
	}
}

func TestVerdictCacheZeroTTLSkipsClass(t *testing.T) {
	c := newVerdictCache(int64(MB), 0, time.Hour)
	now := time.Now()
	c.store("temiz", models.Verdict{}, false, now)
	if c.len() != 0 {
		t.Fatalf("admitted verdicts must not be cached without a TTL")
	}
	c.store("kirli", models.Verdict{Overall: 1}, true, now)
	if c.len() != 1 {
		t.Fatalf("flagged verdict must be cached")
	}

	if newVerdictCache(int64(MB), 0, 0) != nil {
		t.Fatalf("cache without any TTL must be disabled")
	}
	if newVerdictCache(0, time.Minute, time.Minute) != nil {
		t.Fatalf("cache without a budget must be disabled")
	}
}

func TestVerdictSizeCountsContent(t *testing.T) {
	bare := verdictSize("k", models.Verdict{})
	rich := verdictSize("k", models.Verdict{Reason: "küfür", MatchedTerms: []string{"siktir", "ahmak"}})
	if rich <= bare+int64(len("küfür")+len("siktir")+len("ahmak")) {
		t.Fatalf("size must include reason and terms: bare=%d rich=%d", bare, rich)
	}
}

func TestVerdictCacheEvictsLeastRecentlyUsed(t *testing.T) {
	entry := verdictSize("a", models.Verdict{})
	c := newVerdictCache(2*entry, time.Hour, time.Hour)
	now := time.Now()

	c.store("a", models.Verdict{}, false, now)
	c.store("b", models.Verdict{}, false, now)
	if _, ok := c.lookup("a", now); !ok {
		t.Fatalf("expected a")
	}
	c.store("c", models.Verdict{}, false, now)

	if _, ok := c.lookup("b", now); ok {
		t.Fatalf("least recently used entry must be evicted")
	}
	if _, ok := c.lookup("a", now); !ok {
		t.Fatalf("recently used entry must survive")
	}
	if c.bytes() != 2*entry {
		t.Fatalf("unexpected used bytes %d", c.bytes())
	}

	big := models.Verdict{Reason: strings.Repeat("x", int(3*entry))}
	c.store("big", big, false, now)
	if _, ok := c.lookup("big", now); ok {
		t.Fatalf("entry larger than the budget must not be cached")
	}
}

func TestVerdictCacheReplaceAndSweep(t *testing.T) {
	c := newVerdictCache(int64(MB), time.Minute, time.Hour)
	now := time.Now()
	c.store("k", models.Verdict{Overall: 0.1}, false, now)
	c.store("k", models.Verdict{Overall: 0.9}, true, now)
	if c.len() != 1 {
		t.Fatalf("replace must keep one entry")
	}
	if removed := c.sweep(now.Add(2 * time.Minute)); removed != 0 {
		t.Fatalf("replaced entry must use the flagged TTL, removed=%d", removed)
	}
	if removed := c.sweep(now.Add(2 * time.Hour)); removed != 1 || c.bytes() != 0 {
		t.Fatalf("sweep must drop expired entries, removed=%d bytes=%d", removed, c.bytes())
	}
	if got := c.sweepInterval(); got != time.Minute {
		t.Fatalf("unexpected sweep interval %v", got)
	}
}

func TestCacheKeyFoldsCaseAndSpacing(t *testing.T) {
	fold := strings.ToLower
	if cacheKey(fold, "  Selam\tDOSTUM ") != cacheKey(fold, "selam dostum") {
		t.Fatalf("case and spacing variants must share a key")
	}
	if cacheKey(fold, "selam") == cacheKey(fold, "selamlar") {
		t.Fatalf("different texts must not share a key")
	}
}

func TestNilVerdictCache(t *testing.T) {
	var c *verdictCache
	c.store("k", models.Verdict{}, false, time.Now())
	if _, ok := c.lookup("k", time.Now()); ok {
		t.Fatalf("nil cache must miss")
	}
	if c.len() != 0 || c.bytes() != 0 || c.sweep(time.Now()) != 0 {
		t.Fatalf("nil cache must be empty")
	}
}
