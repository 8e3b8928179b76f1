package launches

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type cachedFetch struct {
	records []LaunchRecord
	stats   LoadStats
	at      time.Time
}

// FetchCache keeps the last parsed result of each remote source for TTL, so
// repeated reloads do not refetch an unchanged upstream file.
// Local files are never cached.
type FetchCache struct {
	TTL time.Duration

	mu      sync.Mutex
	entries map[string]cachedFetch
	now     func() time.Time
}

// NewFetchCache returns a cache holding entries for ttl. A zero ttl disables it.
func NewFetchCache(ttl time.Duration) *FetchCache {
	return &FetchCache{TTL: ttl, entries: make(map[string]cachedFetch), now: time.Now}
}

// Fetch returns the cached records for source when they are fresh, and calls
// FetchCSV otherwise. Failed fetches are not cached.
func (c *FetchCache) Fetch(ctx context.Context, client *http.Client, source string) ([]LaunchRecord, LoadStats, bool, error) {
	if c == nil || c.TTL <= 0 || !IsRemote(source) {
		records, stats, err := FetchCSV(ctx, client, source)
		return records, stats, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[source]; ok && c.now().Sub(e.at) < c.TTL {
		return e.records, e.stats, true, nil
	}

	records, stats, err := FetchCSV(ctx, client, source)
	if err != nil {
		return nil, stats, false, err
	}
	c.entries[source] = cachedFetch{records: records, stats: stats, at: c.now()}
	return records, stats, false, nil
}

// Invalidate drops the cached entry for source.
func (c *FetchCache) Invalidate(source string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, source)
	c.mu.Unlock()
}
