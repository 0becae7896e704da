package application

import (
	"context"
	"testing"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance_StatsAndClear(t *testing.T) {
	backend, clock := newMemory()
	store := NewStore(backend, clock)
	counters := NewCounters(backend, 24*time.Hour)
	m := NewMaintenance("memory", backend, store, counters)
	ctx := context.Background()

	store.Set(ctx, "article:1", map[string]string{"title": "x"}, time.Hour)
	store.Set(ctx, "article:recent", []int{1}, time.Hour)
	counters.ToggleLike(ctx, domain.ArticleLike, 1, 10)
	counters.ToggleLike(ctx, domain.CommentLike, 3, 10)
	counters.ToggleLike(ctx, domain.CommentLike, 4, 10)

	stats := m.Stats(ctx)
	assert.True(t, stats.Healthy)
	assert.Equal(t, 5, stats.Total)
	assert.Contains(t, stats.Namespaces, NamespaceStats{Namespace: domain.NamespaceCommentLikes, Keys: 2})

	kinds, err := ParseLikeKinds("comment")
	require.NoError(t, err)
	n, res := m.ClearLikes(ctx, kinds...)
	assert.True(t, res.OK())
	assert.Equal(t, int64(2), n)

	n, res = m.ClearNamespace(ctx, domain.NamespaceArticle)
	assert.True(t, res.OK())
	assert.Equal(t, int64(2), n)

	assert.Equal(t, 1, m.Stats(ctx).Total)

	_, res = m.ClearNamespace(ctx, "session")
	assert.True(t, res.Degraded())
	_, err = ParseLikeKinds("users")
	assert.Error(t, err)
}

func TestMaintenance_UnavailableBackend(t *testing.T) {
	backend := downBackend{}
	m := NewMaintenance("valkey", backend, NewStore(backend, nil), NewCounters(backend, time.Hour))

	stats := m.Stats(context.Background())
	assert.False(t, stats.Healthy)
	assert.Zero(t, stats.Total)
}
