package application

import (
	"context"
	"strconv"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
)

// Counters keeps view counters and like-sets outside the canonical store.
// Per-entity linearizability comes from the backend's atomic primitives.
type Counters struct {
	backend domain.Backend
	viewTTL time.Duration
}

// NewCounters creates the counter store. viewTTL is the idle period after which a
// view counter resets.
func NewCounters(backend domain.Backend, viewTTL time.Duration) *Counters {
	return &Counters{backend: backend, viewTTL: viewTTL}
}

func viewKey(articleID int64) string {
	return domain.EntityKey(domain.NamespaceArticleViews, articleID)
}

func likeKey(kind domain.LikeKind, entityID int64) string {
	return domain.EntityKey(kind.Namespace(), entityID)
}

// IncrementView adds one view and returns the new total. The first view of an
// entity yields 1.
func (c *Counters) IncrementView(ctx context.Context, articleID int64) (int64, domain.Result) {
	key := viewKey(articleID)
	n, err := c.backend.IncrWithTTL(ctx, key, c.viewTTL)
	if err != nil {
		return 0, absorb("Counters", "INCR", key, err)
	}
	return n, domain.Result{}
}

// Views returns the current view total (0 when never viewed or reset).
func (c *Counters) Views(ctx context.Context, articleID int64) (int64, domain.Result) {
	key := viewKey(articleID)
	n, _, err := c.backend.Counter(ctx, key)
	if err != nil {
		return 0, absorb("Counters", "GET", key, err)
	}
	return n, domain.Result{}
}

// ToggleLike flips userID's membership in the entity's like-set and returns
// whether the user likes the entity afterwards.
func (c *Counters) ToggleLike(ctx context.Context, kind domain.LikeKind, entityID, userID int64) (bool, domain.Result) {
	key := likeKey(kind, entityID)
	liked, err := c.backend.ToggleMember(ctx, key, strconv.FormatInt(userID, 10))
	if err != nil {
		return false, absorb("Counters", "TOGGLE", key, err)
	}
	return liked, domain.Result{}
}

// IsLiked reports whether userID is in the entity's like-set.
func (c *Counters) IsLiked(ctx context.Context, kind domain.LikeKind, entityID, userID int64) (bool, domain.Result) {
	key := likeKey(kind, entityID)
	liked, err := c.backend.IsMember(ctx, key, strconv.FormatInt(userID, 10))
	if err != nil {
		return false, absorb("Counters", "SISMEMBER", key, err)
	}
	return liked, domain.Result{}
}

// LikeCount is the cardinality of the entity's like-set.
func (c *Counters) LikeCount(ctx context.Context, kind domain.LikeKind, entityID int64) (int64, domain.Result) {
	key := likeKey(kind, entityID)
	n, err := c.backend.Cardinality(ctx, key)
	if err != nil {
		return 0, absorb("Counters", "SCARD", key, err)
	}
	return n, domain.Result{}
}

// Forget drops every counter of a deleted entity.
func (c *Counters) Forget(ctx context.Context, ref domain.EntityRef) domain.Result {
	var keys []string
	switch ref.Namespace {
	case domain.NamespaceArticle:
		keys = []string{viewKey(ref.ID), likeKey(domain.ArticleLike, ref.ID)}
	case domain.NamespaceComment:
		keys = []string{likeKey(domain.CommentLike, ref.ID)}
	default:
		return domain.Result{}
	}
	if _, err := c.backend.Delete(ctx, keys...); err != nil {
		return absorb("Counters", "DEL", keys[0], err)
	}
	return domain.Result{}
}

// ClearLikes removes every like-set of the given kinds (all kinds when none are
// given) and returns the number of sets deleted.
func (c *Counters) ClearLikes(ctx context.Context, kinds ...domain.LikeKind) (int64, domain.Result) {
	if len(kinds) == 0 {
		kinds = []domain.LikeKind{domain.CommentLike, domain.ArticleLike}
	}
	var total int64
	for _, kind := range kinds {
		n, res := deleteMatching(ctx, c.backend, domain.Pattern(kind.Namespace()))
		total += n
		if res.Degraded() {
			return total, res
		}
	}
	return total, domain.Result{}
}
