package assets

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/cockroachdb/errors"
)

// Prefetcher warms Cache entries off the render path using a bounded
// worker pool, so a cold variant cache never stalls a tick waiting on a
// resize. Grounded on original_source's lack of an equivalent (the
// Python original resizes synchronously inside get_logo, tolerable there
// because the LRU cache is process-lifetime and rarely cold); this is a
// supplemented feature — see DESIGN.md — using
// github.com/panjf2000/ants/v2 the same way the pack's own worker-pool
// examples size a bounded goroutine pool instead of an unbounded
// "one goroutine per item" fan-out.
type Prefetcher struct {
	cache *Cache
	pool  *ants.Pool
}

// NewPrefetcher builds a pool capped at concurrency workers.
func NewPrefetcher(cache *Cache, concurrency int) (*Prefetcher, error) {
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, errors.Wrap(err, "assets: create prefetch pool")
	}
	return &Prefetcher{cache: cache, pool: pool}, nil
}

// Warm submits one Logo lookup per (abbr, size) pair and blocks until
// every submitted lookup has run; once ctx is cancelled it submits no
// further lookups, still waits for those already submitted, and returns
// ctx.Err(), matching
// spec.md §10's "async prefetch pool" supplemented feature.
func (p *Prefetcher) Warm(ctx context.Context, leagueCode string, abbrs []string, sizes []int) error {
	var wg sync.WaitGroup
	for _, abbr := range abbrs {
		for _, size := range sizes {
			if ctx.Err() != nil {
				wg.Wait()
				return ctx.Err()
			}
			abbr, size := abbr, size
			wg.Add(1)
			if err := p.pool.Submit(func() {
				defer wg.Done()
				p.cache.Logo(leagueCode, abbr, size)
			}); err != nil {
				wg.Done()
			}
		}
	}
	wg.Wait()
	return ctx.Err()
}

// Release shuts down the worker pool. Call once at orchestrator shutdown.
func (p *Prefetcher) Release() { p.pool.Release() }
