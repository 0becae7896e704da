package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type articleSnapshot struct {
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

func TestStore_SetGetUntilExpiry(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	res := store.Set(ctx, "article:5", map[string]string{"title": "x"}, 3600*time.Second)
	require.True(t, res.OK())

	lookup := store.Get(ctx, "article:5")
	require.True(t, lookup.Found())
	var got map[string]string
	require.NoError(t, lookup.Decode(&got))
	assert.Equal(t, map[string]string{"title": "x"}, got)

	clock.Advance(3601 * time.Second)
	lookup = store.Get(ctx, "article:5")
	assert.False(t, lookup.Found())
	assert.Equal(t, domain.StatusMiss, lookup.Status)
}

func TestStore_ExpiryBoundaryIsExclusive(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	store.Set(ctx, "user:1", "alice", time.Minute)
	clock.Advance(time.Minute - time.Nanosecond)
	assert.True(t, store.Get(ctx, "user:1").Found())

	clock.Advance(time.Nanosecond)
	assert.False(t, store.Get(ctx, "user:1").Found())
}

// A backend that ignores TTLs must still never leak an expired snapshot.
func TestStore_EnvelopeExpiryWinsOverBackend(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	entry, err := domain.NewEntry("article:9", "stale", clock.Now(), time.Second)
	require.NoError(t, err)
	raw, err := domain.EncodeEntry(entry)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, "article:9", raw, 0))

	clock.Advance(2 * time.Second)
	assert.False(t, store.Get(ctx, "article:9").Found())
}

func TestStore_TimestampsRoundTripAsRFC3339(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	in := articleSnapshot{Title: "hello", UpdatedAt: epoch.Add(90 * time.Minute)}
	store.Set(ctx, "article:1", in, time.Hour)

	raw, ok, err := backend.Get(ctx, "article:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"updated_at":"2026-03-01T13:30:00Z"`)
	assert.Contains(t, string(raw), `"v":1`)

	var out articleSnapshot
	require.NoError(t, store.Get(ctx, "article:1").Decode(&out))
	assert.True(t, in.UpdatedAt.Equal(out.UpdatedAt))
}

func TestStore_UnknownVersionIsAMiss(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "comment:3", []byte(`{"v":99,"data":{}}`), time.Hour))
	assert.Equal(t, domain.StatusMiss, store.Get(ctx, "comment:3").Status)

	exists, _ := backend.Exists(ctx, "comment:3")
	assert.False(t, exists, "unreadable entries are dropped")
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	store.Set(ctx, "user:7", "bob", time.Hour)
	assert.True(t, store.Delete(ctx, "user:7").OK())
	assert.True(t, store.Delete(ctx, "user:7").OK())
	assert.True(t, store.Delete(ctx, "never-set").OK())
	assert.False(t, store.Get(ctx, "user:7").Found())
}

func TestStore_KeysAndDeleteNamespace(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		store.Set(ctx, fmt.Sprintf("comment:%d", i), i, time.Hour)
	}
	store.Set(ctx, "article:1", "keep", time.Hour)

	keys, res := store.Keys(ctx, "comment:*")
	require.True(t, res.OK())
	assert.Len(t, keys, 250)

	n, res := store.DeleteNamespace(ctx, domain.NamespaceComment)
	require.True(t, res.OK())
	assert.EqualValues(t, 250, n)

	keys, _ = store.Keys(ctx, "*")
	assert.Equal(t, []string{"article:1"}, keys)
}

func TestStore_UnavailableBackendDegrades(t *testing.T) {
	store := NewStore(downBackend{}, nil)
	ctx := context.Background()

	res := store.Set(ctx, "article:1", "x", time.Hour)
	assert.True(t, res.Degraded())
	assert.True(t, errors.Is(res.Err, domain.ErrUnavailable))

	lookup := store.Get(ctx, "article:1")
	assert.False(t, lookup.Found())
	assert.Equal(t, domain.StatusDegraded, lookup.Status)
	assert.ErrorIs(t, lookup.Err, domain.ErrUnavailable)

	assert.True(t, store.Delete(ctx, "article:1").Degraded())

	keys, res := store.Keys(ctx, "*")
	assert.Nil(t, keys)
	assert.True(t, res.Degraded())
}
