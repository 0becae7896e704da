package application

import (
	"context"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/sirupsen/logrus"
)

// deleteBatch bounds the number of keys sent in one DEL during bulk deletes.
const deleteBatch = 100

// Store is the TTL cache store for entity snapshots and list aggregates.
// It never returns an error to its callers: backend failures come back as
// degraded results and reads degrade to misses.
type Store struct {
	backend domain.Backend
	clock   domain.Clock
}

// NewStore creates a store on backend. A nil clock uses the wall clock; it must be
// the same clock the backend uses when the backend is process-local.
func NewStore(backend domain.Backend, clock domain.Clock) *Store {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Store{backend: backend, clock: clock}
}

// Set stores value under key until now+ttl, overwriting any previous entry.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) domain.Result {
	entry, err := domain.NewEntry(key, value, s.clock.Now(), ttl)
	if err != nil {
		// Unserializable values are a programming error, not an outage.
		logrus.WithError(err).Errorf("[CacheStore] Refusing to cache %s", key)
		return domain.Degraded(err)
	}
	raw, err := domain.EncodeEntry(entry)
	if err != nil {
		return domain.Degraded(err)
	}
	if err := s.backend.Set(ctx, key, raw, ttl); err != nil {
		return absorb("CacheStore", "SET", key, err)
	}
	return domain.Result{}
}

// Get returns the live entry stored under key. Entries past their expiry are
// reported as misses even when the backend still holds them.
func (s *Store) Get(ctx context.Context, key string) domain.Lookup {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		res := absorb("CacheStore", "GET", key, err)
		return domain.Lookup{Status: domain.StatusDegraded, Err: res.Err}
	}
	if !ok {
		return domain.Lookup{Status: domain.StatusMiss}
	}

	entry, err := domain.DecodeEntry(raw)
	if err != nil {
		logrus.WithError(err).Warnf("[CacheStore] Dropping unreadable entry %s", key)
		s.Delete(ctx, key)
		return domain.Lookup{Status: domain.StatusMiss}
	}
	if entry.Expired(s.clock.Now()) {
		return domain.Lookup{Status: domain.StatusMiss}
	}
	return domain.Lookup{Entry: entry, Status: domain.StatusHit}
}

// Delete removes keys immediately. Deleting absent keys is not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) domain.Result {
	if len(keys) == 0 {
		return domain.Result{}
	}
	if _, err := s.backend.Delete(ctx, keys...); err != nil {
		return absorb("CacheStore", "DEL", keys[0], err)
	}
	return domain.Result{}
}

// Keys lists the keys matching a glob pattern such as "article_likes:*".
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, domain.Result) {
	keys, err := s.backend.Scan(ctx, pattern)
	if err != nil {
		return nil, absorb("CacheStore", "SCAN", pattern, err)
	}
	return keys, domain.Result{}
}

// DeleteNamespace removes every key of ns and returns how many were deleted.
func (s *Store) DeleteNamespace(ctx context.Context, ns domain.Namespace) (int64, domain.Result) {
	return deleteMatching(ctx, s.backend, domain.Pattern(ns))
}

func deleteMatching(ctx context.Context, backend domain.Backend, pattern string) (int64, domain.Result) {
	keys, err := backend.Scan(ctx, pattern)
	if err != nil {
		return 0, absorb("CacheStore", "SCAN", pattern, err)
	}

	var deleted int64
	for start := 0; start < len(keys); start += deleteBatch {
		end := start + deleteBatch
		if end > len(keys) {
			end = len(keys)
		}
		n, err := backend.Delete(ctx, keys[start:end]...)
		if err != nil {
			return deleted, absorb("CacheStore", "DEL", pattern, err)
		}
		deleted += n
	}
	if deleted > 0 {
		logrus.Infof("[CacheStore] Deleted %d keys matching %s", deleted, pattern)
	}
	return deleted, domain.Result{}
}
