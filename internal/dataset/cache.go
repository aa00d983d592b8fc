package dataset

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeronista/retailops/internal/model"
)

// DefaultTTL is how long a cached dataset stays fresh.
const DefaultTTL = time.Hour

// entry is one cached dataset with its own refresh timestamp. The two
// datasets never share a freshness clock: refreshing one cannot make
// the other's stale copy look fresh.
type entry struct {
	records   []model.Invoice
	report    Report
	refreshed time.Time
}

// Cache memoizes parsed datasets in memory with time-based
// invalidation, bounding file I/O to one read per dataset per TTL
// window.
type Cache struct {
	mu      sync.RWMutex
	loader  *Loader
	ttl     time.Duration
	now     func() time.Time
	entries map[Dataset]*entry
	log     zerolog.Logger
}

// NewCache creates a cache over the given loader. A non-positive ttl
// falls back to DefaultTTL.
func NewCache(loader *Loader, ttl time.Duration, log zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		loader:  loader,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Dataset]*entry),
		log:     log.With().Str("component", "dataset_cache").Logger(),
	}
}

// WithClock replaces the wall clock. Tests use this to control TTL
// expiry deterministically.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Load returns the requested dataset, reading from disk only when the
// cached entry is absent or older than the TTL. The returned slice is
// always a defensive copy: callers on either path cannot mutate the
// cache's backing list.
func (c *Cache) Load(ds Dataset) ([]model.Invoice, Report, error) {
	c.mu.RLock()
	if e, ok := c.entries[ds]; ok && c.now().Sub(e.refreshed) < c.ttl {
		records := copyRecords(e.records)
		rep := e.report
		rep.FromCache = true
		c.mu.RUnlock()
		return records, rep, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if e, ok := c.entries[ds]; ok && c.now().Sub(e.refreshed) < c.ttl {
		rep := e.report
		rep.FromCache = true
		return copyRecords(e.records), rep, nil
	}

	records, rep, err := c.loader.Read(ds)
	if err != nil {
		// Cache stays at its prior state; the next call retries.
		return nil, rep, err
	}
	if rep.Path == "" {
		// Missing file: a miss does not poison the cache.
		return records, rep, nil
	}

	rep.LoadedAt = c.now()
	c.entries[ds] = &entry{
		records:   copyRecords(records),
		report:    rep,
		refreshed: rep.LoadedAt,
	}
	c.log.Debug().Str("dataset", string(ds)).Int("rows", rep.RowsKept).Msg("Cache entry refreshed")

	return records, rep, nil
}

// Clear unconditionally discards both cached datasets, forcing the
// next load of either to re-read from disk.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Dataset]*entry)
	c.mu.Unlock()
	c.log.Info().Msg("Dataset cache cleared")
}

// Age returns how long ago the dataset was refreshed, and whether a
// cached entry exists at all.
func (c *Cache) Age(ds Dataset) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ds]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.refreshed), true
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func copyRecords(in []model.Invoice) []model.Invoice {
	out := make([]model.Invoice, len(in))
	copy(out, in)
	return out
}
