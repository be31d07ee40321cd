// Package cache keeps keyword analysis payloads in a two-tier cache: a
// TTL-bounded in-memory map in front of a durable store.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/seoscope/seoscope/models"
)

// DefaultTTL bounds how long a memory entry is served without consulting
// the durable tier again.
const DefaultTTL = 5 * time.Minute

// Store is the durable tier behind the in-memory map. A read that finds
// nothing returns (nil, nil).
type Store interface {
	ReadKeywordAnalysis(key string) (*models.KeywordAnalysis, error)
	WriteKeywordAnalysis(key string, analysis *models.KeywordAnalysis) error
	DeleteKeywordAnalysis(key string) error
}

type entry struct {
	analysis *models.KeywordAnalysis
	storedAt time.Time
}

type Cache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry

	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a cache over the given durable store. A nil store leaves the
// cache memory-only. The background sweeper starts immediately; call Stop
// when done.
func New(store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached payload for key, or nil on a miss. A fresh memory
// entry is served directly; otherwise the durable tier is consulted and a
// hit repopulates memory. A durable read failure is logged and treated as
// a miss so callers recompute instead of failing.
func (c *Cache) Get(key string) *models.KeywordAnalysis {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if time.Since(e.storedAt) < c.ttl {
			c.mu.Unlock()
			return e.analysis
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}

	analysis, err := c.store.ReadKeywordAnalysis(key)
	if err != nil {
		c.logger.Warn("durable cache read failed, treating as miss", "key", key, "error", err)
		return nil
	}
	if analysis == nil {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = entry{analysis: analysis, storedAt: time.Now()}
	c.mu.Unlock()
	return analysis
}

// Set writes the payload through to both tiers. A durable write failure
// propagates; the memory tier is updated first so the payload is at least
// served for the current TTL window.
func (c *Cache) Set(key string, analysis *models.KeywordAnalysis) error {
	c.mu.Lock()
	c.entries[key] = entry{analysis: analysis, storedAt: time.Now()}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.WriteKeywordAnalysis(key, analysis)
}

// Invalidate removes the key from both tiers.
func (c *Cache) Invalidate(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.DeleteKeywordAnalysis(key)
}

// Stale reports whether the cached payload was computed from a different
// corpus than the one identified by contentHash.
func (c *Cache) Stale(analysis *models.KeywordAnalysis, contentHash string) bool {
	return analysis == nil || analysis.ContentHash != contentHash
}

// Stop halts the background sweeper. Idempotent.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, e := range c.entries {
				if now.Sub(e.storedAt) >= c.ttl {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
