package lexical

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/bookfinder/internal/domain/book"
)

// DefaultLoadTimeout bounds one shared corpus load, independent of any single caller.
const DefaultLoadTimeout = 30 * time.Second

// Loader fetches the full, tokenized corpus.
type Loader func(ctx context.Context) ([]book.Document, error)

// Cache hands out corpus snapshots. With a zero TTL every call reloads the corpus;
// concurrent loads are collapsed into one either way. The shared load does not
// inherit the cancellation of whichever caller started it.
type Cache struct {
	load        Loader
	params      Params
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	snap    *Snapshot
	builtAt time.Time

	group singleflight.Group
}

// NewCache creates a snapshot cache over load.
func NewCache(load Loader, p Params, ttl time.Duration) *Cache {
	return &Cache{load: load, params: p, ttl: ttl, loadTimeout: DefaultLoadTimeout, now: time.Now}
}

// Snapshot returns a fresh-enough corpus snapshot.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := c.cached(); snap != nil {
		return snap, nil
	}

	ch := c.group.DoChan("corpus", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		docs, err := c.load(lctx)
		if err != nil {
			return nil, err
		}
		snap := NewSnapshot(docs, c.params)
		if c.ttl > 0 {
			c.mu.Lock()
			c.snap, c.builtAt = snap, c.now()
			c.mu.Unlock()
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck // caller classifies deadline errors
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the cached snapshot so the next call reloads the corpus.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *Cache) cached() *Snapshot {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.builtAt) >= c.ttl {
		return nil
	}
	return c.snap
}
