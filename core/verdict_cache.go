package core

import (
	"container/list"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/ummet-social/censor/models"
)

// verdictCache remembers remote verdicts so reposted or copy-pasted texts do
// not cost another classifier round-trip. Keys are the folded payload with
// whitespace collapsed, so "SELAM  dostum" and "selam dostum" share an entry.
// Flagged and admitted verdicts expire on separate clocks. When the byte
// budget is exhausted the least recently used verdict is dropped.
type verdictCache struct {
	mu          sync.Mutex
	budget      int64
	used        int64
	admittedTTL time.Duration
	flaggedTTL  time.Duration
	entries     map[string]*list.Element
	recency     *list.List // front is the most recently used
}

type cachedVerdict struct {
	key     string
	verdict models.Verdict
	flagged bool
	expires time.Time
	size    int64
}

func newVerdictCache(budget int64, admittedTTL, flaggedTTL time.Duration) *verdictCache {
	if budget <= 0 || (admittedTTL <= 0 && flaggedTTL <= 0) {
		return nil
	}
	return &verdictCache{
		budget:      budget,
		admittedTTL: admittedTTL,
		flaggedTTL:  flaggedTTL,
		entries:     make(map[string]*list.Element),
		recency:     list.New(),
	}
}

// cacheKey is the lookup key for a remote payload.
func cacheKey(fold func(string) string, payload string) string {
	return strings.Join(strings.Fields(fold(payload)), " ")
}

// verdictSize is the memory held by one entry: the struct itself plus the
// strings and term slice it points to.
func verdictSize(key string, v models.Verdict) int64 {
	size := int64(unsafe.Sizeof(cachedVerdict{})) + int64(len(key))
	size += int64(len(v.Reason) + len(v.Source))
	for _, term := range v.MatchedTerms {
		size += int64(unsafe.Sizeof(term)) + int64(len(term))
	}
	return size
}

func (c *verdictCache) lookup(key string, now time.Time) (models.Verdict, bool) {
	if c == nil || key == "" {
		return models.Verdict{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return models.Verdict{}, false
	}
	cv := elem.Value.(*cachedVerdict)
	if !now.Before(cv.expires) {
		c.drop(elem)
		return models.Verdict{}, false
	}
	c.recency.MoveToFront(elem)
	return cv.verdict, true
}

// store keeps v until the TTL of its class runs out. A class with a zero TTL
// is not cached.
func (c *verdictCache) store(key string, v models.Verdict, flagged bool, now time.Time) {
	if c == nil || key == "" {
		return
	}
	ttl := c.admittedTTL
	if flagged {
		ttl = c.flaggedTTL
	}
	if ttl <= 0 {
		return
	}
	size := verdictSize(key, v)
	if size > c.budget {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.drop(elem)
	}
	cv := &cachedVerdict{key: key, verdict: v, flagged: flagged, expires: now.Add(ttl), size: size}
	c.entries[key] = c.recency.PushFront(cv)
	c.used += size

	for c.used > c.budget {
		c.drop(c.recency.Back())
	}
}

// sweep drops expired entries and returns how many were removed.
func (c *verdictCache) sweep(now time.Time) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.recency.Front(); elem != nil; {
		next := elem.Next()
		if !now.Before(elem.Value.(*cachedVerdict).expires) {
			c.drop(elem)
			removed++
		}
		elem = next
	}
	return removed
}

func (c *verdictCache) drop(elem *list.Element) {
	cv := c.recency.Remove(elem).(*cachedVerdict)
	delete(c.entries, cv.key)
	c.used -= cv.size
}

// sweepEvery runs sweep until done is closed.
func (c *verdictCache) sweepEvery(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

// sweepInterval is the shorter TTL, capped at one minute.
func (c *verdictCache) sweepInterval() time.Duration {
	interval := time.Minute
	for _, ttl := range []time.Duration{c.admittedTTL, c.flaggedTTL} {
		if ttl > 0 && ttl < interval {
			interval = ttl
		}
	}
	return interval
}

func (c *verdictCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}

func (c *verdictCache) bytes() int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}
