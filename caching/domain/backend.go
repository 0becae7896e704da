package domain

import (
	"context"
	"time"
)

// Backend is the set of primitives the cache components need from the shared key
// value store. Implementations return raw errors; absorbing them is the job of the
// application layer. Every per-key mutation must be atomic in the backend itself.
type Backend interface {
	// Set stores value under key, replacing any previous value. A ttl <= 0 keeps
	// the key until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns (nil, false, nil) when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Delete removes keys and returns how many existed. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) (int64, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Scan lists keys matching a glob pattern without blocking the store.
	Scan(ctx context.Context, pattern string) ([]string, error)

	// IncrWithTTL increments the integer at key. The increment that creates the
	// key sets its value to 1 and assigns ttl.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Counter reads the integer at key; absent keys report (0, false, nil).
	Counter(ctx context.Context, key string) (int64, bool, error)

	// ToggleMember adds member to the set at key when absent, removes it when
	// present, and returns whether it is a member afterwards.
	ToggleMember(ctx context.Context, key, member string) (bool, error)

	IsMember(ctx context.Context, key, member string) (bool, error)

	// Cardinality returns the size of the set at key (0 when absent).
	Cardinality(ctx context.Context, key string) (int64, error)

	Ping(ctx context.Context) error
}
