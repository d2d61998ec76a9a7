// Package cache implements the C1 fetcher's two-tier cache (§4.1): a
// memory LRU backed by an on-disk mirror, with promotion of disk hits back
// into memory and write-through on every Set. Grounded on
// internal/platform/cache/store.go's Store type (entry map + TTL +
// SingleFlight-guarded GetOrLoad), extended with the disk tier spec.md
// requires for stale-fallback to survive a process restart.
package cache

import (
	"context"
	"time"

	"github.com/ledmatrix/scoreboard/internal/platform/resilience"
)

// Cache is the fetcher's two-tier cache. Zero value is not usable; build
// one with New.
type Cache struct {
	memory *memoryTier
	disk   *diskTier
	flight resilience.SingleFlight
	now    func() time.Time
}

// Options configures a Cache.
type Options struct {
	MemoryCapacity int
	DiskDir        string
}

func New(opts Options) *Cache {
	return &Cache{
		memory: newMemoryTier(opts.MemoryCapacity),
		disk:   newDiskTier(opts.DiskDir),
		now:    time.Now,
	}
}

// Get checks memory, then disk (promoting a disk hit back into memory),
// per §4.1's "Writes go to both tiers; reads check memory, then disk,
// promoting disk hits to memory." It does not apply freshness — callers
// decide what "fresh enough" means (fresh hit vs. stale fallback).
func (c *Cache) Get(key string) (Entry, bool) {
	if e, ok := c.memory.get(key); ok {
		return e, true
	}
	if e, ok := c.disk.get(key); ok {
		c.memory.set(key, e)
		return e, true
	}
	return Entry{}, false
}

// Fresh returns a cached entry only if it's still within its TTL.
func (c *Cache) Fresh(key string) (Entry, bool) {
	e, ok := c.Get(key)
	if !ok || !e.Fresh(c.now()) {
		return Entry{}, false
	}
	return e, true
}

// Set writes value to both tiers. Disk write failures are swallowed (the
// memory tier still has the value; §7 never lets a cache-layer failure
// propagate to the fetcher's caller).
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	entry := Entry{Key: key, Value: value, CreatedAt: c.now(), TTL: ttl}
	c.memory.set(key, entry)
	_ = c.disk.set(key, entry)
}

// Entries reports the number of items currently held in the memory tier,
// feeding the fetcher's cache_entries observability field (§4.1).
func (c *Cache) Entries() int {
	return c.memory.len()
}

func (c *Cache) Delete(key string) {
	c.memory.delete(key)
	c.disk.delete(key)
}

// GetOrLoad dedupes concurrent loads of the same key via SingleFlight, the
// same shape as the teacher's Store.GetOrLoad.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if e, ok := c.Fresh(key); ok {
		return e.Value, nil
	}

	value, err, _ := c.flight.Do(key, func() (any, error) {
		if e, ok := c.Fresh(key); ok {
			return e.Value, nil
		}
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		c.Set(key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}
