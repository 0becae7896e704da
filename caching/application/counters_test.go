package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_FirstViewIsOne(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, 24*time.Hour)
	ctx := context.Background()

	n, res := counters.IncrementView(ctx, 42)
	require.True(t, res.OK())
	assert.EqualValues(t, 1, n)

	for i := 2; i <= 10; i++ {
		n, _ = counters.IncrementView(ctx, 42)
		assert.EqualValues(t, i, n)
	}
	views, _ := counters.Views(ctx, 42)
	assert.EqualValues(t, 10, views)

	likes, _ := counters.LikeCount(ctx, domain.ArticleLike, 42)
	assert.Zero(t, likes, "views never touch the like-set")
}

func TestCounters_ViewsResetAfterIdlePeriod(t *testing.T) {
	backend, clock := newMemory()
	counters := NewCounters(backend, 24*time.Hour)
	ctx := context.Background()

	counters.IncrementView(ctx, 1)
	clock.Advance(12 * time.Hour)
	n, _ := counters.IncrementView(ctx, 1)
	assert.EqualValues(t, 2, n)

	// TTL is assigned by the first increment only.
	clock.Advance(12 * time.Hour)
	views, _ := counters.Views(ctx, 1)
	assert.Zero(t, views)

	n, _ = counters.IncrementView(ctx, 1)
	assert.EqualValues(t, 1, n)
}

func TestCounters_ConcurrentViews(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counters.IncrementView(ctx, 7)
		}()
	}
	wg.Wait()

	views, _ := counters.Views(ctx, 7)
	assert.EqualValues(t, 50, views)
}

func TestCounters_ToggleLikeTwiceRestoresState(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	counters.ToggleLike(ctx, domain.ArticleLike, 5, 100)
	before, _ := counters.LikeCount(ctx, domain.ArticleLike, 5)
	wasLiked, _ := counters.IsLiked(ctx, domain.ArticleLike, 5, 200)

	liked, _ := counters.ToggleLike(ctx, domain.ArticleLike, 5, 200)
	assert.True(t, liked, "a user with no history ends up liking")
	liked, _ = counters.ToggleLike(ctx, domain.ArticleLike, 5, 200)
	assert.False(t, liked)

	after, _ := counters.LikeCount(ctx, domain.ArticleLike, 5)
	isLiked, _ := counters.IsLiked(ctx, domain.ArticleLike, 5, 200)
	assert.Equal(t, before, after)
	assert.Equal(t, wasLiked, isLiked)
}

func TestCounters_InterleavedUsers(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	// like, like, unlike from three users on entity 42
	counters.ToggleLike(ctx, domain.ArticleLike, 42, 1)
	counters.ToggleLike(ctx, domain.ArticleLike, 42, 2)
	counters.ToggleLike(ctx, domain.ArticleLike, 42, 3)
	counters.ToggleLike(ctx, domain.ArticleLike, 42, 2)

	n, res := counters.LikeCount(ctx, domain.ArticleLike, 42)
	require.True(t, res.OK())
	assert.EqualValues(t, 2, n)
}

func TestCounters_ConcurrentTogglesFromDifferentUsers(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for user := int64(1); user <= 100; user++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			counters.ToggleLike(ctx, domain.CommentLike, 9, u)
		}(user)
	}
	wg.Wait()

	n, _ := counters.LikeCount(ctx, domain.CommentLike, 9)
	assert.EqualValues(t, 100, n)
}

func TestCounters_KindsAreSeparate(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	counters.ToggleLike(ctx, domain.ArticleLike, 1, 10)
	counters.ToggleLike(ctx, domain.CommentLike, 1, 10)

	keys, _ := backend.Scan(ctx, "*")
	assert.ElementsMatch(t, []string{"article_likes:1", "comment_like_count:1"}, keys)
}

func TestCounters_ClearLikesAndForget(t *testing.T) {
	backend, _ := newMemory()
	counters := NewCounters(backend, time.Hour)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		counters.ToggleLike(ctx, domain.ArticleLike, id, 1)
		counters.ToggleLike(ctx, domain.CommentLike, id, 1)
		counters.IncrementView(ctx, id)
	}

	n, res := counters.ClearLikes(ctx, domain.CommentLike)
	require.True(t, res.OK())
	assert.EqualValues(t, 3, n)

	counters.Forget(ctx, domain.EntityRef{Namespace: domain.NamespaceArticle, ID: 2})
	views, _ := counters.Views(ctx, 2)
	assert.Zero(t, views)
	likes, _ := counters.LikeCount(ctx, domain.ArticleLike, 2)
	assert.Zero(t, likes)

	n, _ = counters.ClearLikes(ctx)
	assert.EqualValues(t, 2, n)

	views, _ = counters.Views(ctx, 1)
	assert.EqualValues(t, 1, views, "clearing likes keeps views")
}

func TestCounters_UnavailableBackendDegrades(t *testing.T) {
	counters := NewCounters(downBackend{}, time.Hour)
	ctx := context.Background()

	n, res := counters.IncrementView(ctx, 1)
	assert.Zero(t, n)
	assert.True(t, res.Degraded())

	liked, res := counters.ToggleLike(ctx, domain.ArticleLike, 1, 1)
	assert.False(t, liked)
	assert.ErrorIs(t, res.Err, domain.ErrUnavailable)

	count, res := counters.LikeCount(ctx, domain.ArticleLike, 1)
	assert.Zero(t, count)
	assert.True(t, res.Degraded())
}
