package application

import (
	"context"
	"sync"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Coordinator sits between the canonical store and the cache: reads go through
// the cache, writes invalidate every entry that could have been derived from the
// written entity, including list aggregates.
type Coordinator struct {
	store       *Store
	counters    *Counters
	ttl         time.Duration
	loadTimeout time.Duration
	group       singleflight.Group

	mu       sync.Mutex
	inflight map[string]map[*flight]struct{}
}

// flight is one running load. It goes stale when its key is invalidated
// before the load finishes.
type flight struct {
	stale bool
}

// DefaultLoadTimeout bounds a shared load once every waiter has given up.
const DefaultLoadTimeout = 30 * time.Second

// NewCoordinator creates a coordinator. ttl is the lifetime of every snapshot it
// populates.
func NewCoordinator(store *Store, counters *Counters, ttl time.Duration) *Coordinator {
	return &Coordinator{
		store:       store,
		counters:    counters,
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		inflight:    make(map[string]map[*flight]struct{}),
	}
}

// WithLoadTimeout sets the deadline of shared loads, usually the database
// timeout. Call it before the coordinator is used.
func (c *Coordinator) WithLoadTimeout(d time.Duration) *Coordinator {
	if d > 0 {
		c.loadTimeout = d
	}
	return c
}

func (c *Coordinator) Store() *Store { return c.store }

func (c *Coordinator) Counters() *Counters { return c.counters }

// TTL is the snapshot lifetime used on read-through population.
func (c *Coordinator) TTL() time.Duration { return c.ttl }

// ReadThrough serves key from the cache and falls back to load on a miss or when
// the cache is unavailable. A successful load is cached unless key was
// invalidated while it ran; a failed load is returned as is and nothing is
// cached. Concurrent misses on the same key share one load, which runs detached
// from any single caller: each caller stops waiting when its own ctx is done.
func ReadThrough[T any](ctx context.Context, c *Coordinator, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := cached[T](ctx, c.store, key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		if v, ok := cached[T](loadCtx, c.store, key); ok {
			return v, nil
		}
		f := c.begin(key)
		fresh, err := load(loadCtx)
		if err != nil || c.isStale(f) {
			c.end(key, f)
			return fresh, err
		}
		c.store.Set(loadCtx, key, fresh, c.ttl)
		// An invalidation that raced the Set may have deleted the key before it was written.
		if c.end(key, f) {
			logrus.Debugf("[Coordinator] Dropping %s, invalidated during load", key)
			c.store.Delete(loadCtx, key)
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		if r.Shared {
			logrus.Debugf("[Coordinator] Shared load for %s", key)
		}
		out, _ := r.Val.(T)
		return out, r.Err
	}
}

// begin registers a load of key.
func (c *Coordinator) begin(key string) *flight {
	f := &flight{}
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.inflight[key]
	if !ok {
		set = make(map[*flight]struct{})
		c.inflight[key] = set
	}
	set[f] = struct{}{}
	return f
}

func (c *Coordinator) isStale(f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.stale
}

// end unregisters f and reports whether key was invalidated since begin.
func (c *Coordinator) end(key string, f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.inflight[key]; ok {
		delete(set, f)
		if len(set) == 0 {
			delete(c.inflight, key)
		}
	}
	return f.stale
}

// markStale flags every running load of keys.
func (c *Coordinator) markStale(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		for f := range c.inflight[key] {
			f.stale = true
		}
	}
}

// cached decodes a live entry of key into T.
func cached[T any](ctx context.Context, store *Store, key string) (T, bool) {
	var out T
	lookup := store.Get(ctx, key)
	if !lookup.Found() {
		return out, false
	}
	if err := lookup.Decode(&out); err != nil {
		logrus.WithError(err).Warnf("[Coordinator] Ignoring undecodable snapshot %s", key)
		store.Delete(ctx, key)
		var zero T
		return zero, false
	}
	return out, true
}

// Put stores a snapshot the caller already has, e.g. right after a write.
func (c *Coordinator) Put(ctx context.Context, key string, value any) domain.Result {
	return c.store.Set(ctx, key, value, c.ttl)
}

// InvalidateOnWrite deletes the entity's own snapshot and every named aggregate
// of its namespace that could include it, e.g. "article:recent".
func (c *Coordinator) InvalidateOnWrite(ctx context.Context, ref domain.EntityRef, aggregates ...string) domain.Result {
	keys := make([]string, 0, len(aggregates)+1)
	keys = append(keys, ref.Key())
	for _, name := range aggregates {
		keys = append(keys, domain.Key(ref.Namespace, name))
	}
	c.markStale(keys)
	for _, key := range keys {
		c.group.Forget(key)
	}
	return c.store.Delete(ctx, keys...)
}

// Purge is InvalidateOnWrite for deleted entities: counters go as well.
func (c *Coordinator) Purge(ctx context.Context, ref domain.EntityRef, aggregates ...string) domain.Result {
	res := c.InvalidateOnWrite(ctx, ref, aggregates...)
	if c.counters != nil {
		if cres := c.counters.Forget(ctx, ref); cres.Degraded() && res.OK() {
			res = cres
		}
	}
	return res
}
