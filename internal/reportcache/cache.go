// Package reportcache keeps finished batch reports in memory so their series can
// be fetched after the run. Entries expire; nothing is written to disk.
package reportcache

import (
	"context"
	"sync"
	"time"

	"dd-planner/internal/montecarlo"

	"github.com/google/uuid"
)

const defaultTTL = time.Hour

// SizeObserver is notified of the entry count after every change.
type SizeObserver interface {
	SetCachedReports(n int)
}

// Entry is a cached report.
type Entry struct {
	ID        string
	Name      string
	Report    *montecarlo.AggregateReport
	CreatedAt time.Time
	ExpiresAt time.Time

	seq uint64
}

type Cache struct {
	mu       sync.RWMutex
	store    map[string]*Entry
	ttl      time.Duration
	max      int
	seq      uint64
	now      func() time.Time
	observer SizeObserver
}

// New creates a cache. ttl <= 0 uses one hour. maxEntries <= 0 means no limit;
// otherwise Put evicts the oldest entries to stay within it.
func New(ttl time.Duration, maxEntries int, observer SizeObserver) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		store:    make(map[string]*Entry),
		ttl:      ttl,
		max:      maxEntries,
		now:      time.Now,
		observer: observer,
	}
}

// Put stores a report under a fresh ID.
func (c *Cache) Put(name string, r *montecarlo.AggregateReport) *Entry {
	now := c.now()
	e := &Entry{
		ID:        uuid.NewString(),
		Name:      name,
		Report:    r,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.seq++
	e.seq = c.seq
	c.store[e.ID] = e
	for c.max > 0 && len(c.store) > c.max {
		c.evictOldest()
	}
	n := len(c.store)
	c.mu.Unlock()

	c.notify(n)
	return e
}

// Get retrieves a report if available and not expired.
func (c *Cache) Get(id string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[id]
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	now := c.now()
	dropped := 0
	for id, e := range c.store {
		if now.After(e.ExpiresAt) {
			delete(c.store, id)
			dropped++
		}
	}
	n := len(c.store)
	c.mu.Unlock()

	if dropped > 0 {
		c.notify(n)
	}
	return dropped
}

// Run sweeps periodically until ctx is done.
func (c *Cache) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// evictOldest drops the earliest inserted entry. Callers hold c.mu.
func (c *Cache) evictOldest() {
	var oldest *Entry
	for _, e := range c.store {
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest != nil {
		delete(c.store, oldest.ID)
	}
}

func (c *Cache) notify(n int) {
	if c.observer != nil {
		c.observer.SetCachedReports(n)
	}
}
