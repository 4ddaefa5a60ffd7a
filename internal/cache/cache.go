// Package cache holds the short-lived per-content result cache for the
// secondary extraction backend. Entries exist only to spare a follow-up
// delivery request the cost of a second subprocess round trip; they are never
// persisted and expire after a fixed TTL.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 10 * time.Minute

type entry struct {
	created time.Time
	formats []extractor.SecondaryFormat
}

// ResultCache maps a content identifier to the secondary backend's raw
// format list. Expiry is evaluated lazily on lookup; an expired entry is
// removed as a side effect of the Get that observed it. There is no
// background sweeper, the population is bounded by recently requested
// distinct content identifiers.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	logger  *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration, logger *slog.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		logger:  observability.WithComponent(logger, "cache"),
		now:     time.Now,
	}
}

// Put stores the raw format list for a content identifier, replacing any
// previous entry.
func (c *ResultCache) Put(contentID string, formats []extractor.SecondaryFormat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[contentID] = entry{created: c.now(), formats: formats}
}

// Get returns the cached format list for a content identifier. An entry past
// its TTL is treated as absent and evicted before returning.
func (c *ResultCache) Get(contentID string) ([]extractor.SecondaryFormat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[contentID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.created) > c.ttl {
		delete(c.entries, contentID)
		c.logger.Debug("evicted expired entry", slog.String("content_id", contentID))
		return nil, false
	}
	return e.formats, true
}

// Delete removes the entry for a content identifier, if any. Used when a
// cached source URL turns out to be dead upstream before its TTL ran out.
func (c *ResultCache) Delete(contentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, contentID)
}

// Len returns the number of entries currently stored, including any that
// have expired but not yet been observed by a Get.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
