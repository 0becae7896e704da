package domain

import "strconv"

// Namespace is the first segment of every cache key. Keys are shared with other
// processes through the backing store, so the values below must not change.
type Namespace string

const (
	NamespaceUser         Namespace = "user"
	NamespaceArticle      Namespace = "article"
	NamespaceComment      Namespace = "comment"
	NamespaceArticleViews Namespace = "article_views"
	NamespaceArticleLikes Namespace = "article_likes"
	NamespaceCommentLikes Namespace = "comment_like_count"
	NamespaceRevoked      Namespace = "blacklist_token"
)

// Named aggregates live in the article namespace, e.g. "article:recent".
const (
	AggregateRecent   = "recent"
	AggregateFeatured = "featured"
)

// Key builds "{namespace}:{id}".
func Key(ns Namespace, id string) string {
	return string(ns) + ":" + id
}

// EntityKey builds the key of a numeric entity id.
func EntityKey(ns Namespace, id int64) string {
	return Key(ns, strconv.FormatInt(id, 10))
}

// Pattern matches every key of the namespace.
func Pattern(ns Namespace) string {
	return string(ns) + ":*"
}

// EntityRef identifies the canonical record a cache entry was derived from.
type EntityRef struct {
	Namespace Namespace
	ID        int64
}

func (r EntityRef) Key() string {
	return EntityKey(r.Namespace, r.ID)
}

// LikeKind selects which like-set family a toggle applies to.
type LikeKind int

const (
	ArticleLike LikeKind = iota
	CommentLike
)

func (k LikeKind) Namespace() Namespace {
	if k == CommentLike {
		return NamespaceCommentLikes
	}
	return NamespaceArticleLikes
}

func (k LikeKind) String() string {
	if k == CommentLike {
		return "comment"
	}
	return "article"
}

// LikeState is a user's view of an entity's like-set after a toggle or query.
// Degraded means the counter store could not be reached: the toggle was not
// recorded and Liked and Count are zero values.
type LikeState struct {
	Liked    bool  `json:"liked"`
	Count    int64 `json:"count"`
	Degraded bool  `json:"degraded,omitempty"`
}
