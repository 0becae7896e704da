package application

import (
	"context"
	"fmt"

	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	"github.com/AzielCF/az-press/comments/domain"
	"github.com/sirupsen/logrus"
)

// Service serves comment threads and keeps the comment snapshots and like-sets
// consistent with the canonical store.
type Service struct {
	repo  domain.Repository
	cache *cacheApp.Coordinator
}

func NewService(repo domain.Repository, cache *cacheApp.Coordinator) *Service {
	return &Service{repo: repo, cache: cache}
}

func ref(id int64) cacheDomain.EntityRef {
	return cacheDomain.EntityRef{Namespace: cacheDomain.NamespaceComment, ID: id}
}

// Thread returns the reply tree of an article. Public threads hide unapproved
// and spam comments together with their replies.
func (s *Service) Thread(ctx context.Context, articleID int64, public bool) ([]*domain.Node, error) {
	flat, err := s.repo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of article %d: %w", articleID, err)
	}
	roots := domain.BuildTree(flat)
	if public {
		roots = domain.Prune(roots, domain.Visible)
	}
	return roots, nil
}

// Get reads one comment through the cache.
func (s *Service) Get(ctx context.Context, id int64) (domain.Comment, error) {
	return cacheApp.ReadThrough(ctx, s.cache, ref(id).Key(), func(ctx context.Context) (domain.Comment, error) {
		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Comment{}, err
		}
		return *c, nil
	})
}

func (s *Service) Create(ctx context.Context, c *domain.Comment) error {
	if c.ParentID != nil {
		parent, err := s.Get(ctx, *c.ParentID)
		if err != nil {
			return err
		}
		if parent.ArticleID != c.ArticleID {
			return domain.ErrCrossArticle
		}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	s.cache.Put(ctx, ref(c.ID).Key(), c)
	return nil
}

// Move re-parents a comment. Validation and the parent update run in one
// transaction in the repository; the snapshot is dropped only after the write.
func (s *Service) Move(ctx context.Context, id int64, newParentID *int64) (domain.Comment, error) {
	moved, err := s.repo.Move(ctx, id, newParentID)
	if err != nil {
		return domain.Comment{}, err
	}
	s.cache.InvalidateOnWrite(ctx, ref(id))
	logrus.Debugf("[Comments] Moved %d under %v", id, newParentID)
	return *moved, nil
}

// Moderate sets the approval and spam flags of a comment.
func (s *Service) Moderate(ctx context.Context, id int64, approved, spam bool) (domain.Comment, error) {
	c, err := s.repo.SetApproval(ctx, id, approved, spam)
	if err != nil {
		return domain.Comment{}, err
	}
	s.cache.InvalidateOnWrite(ctx, ref(id))
	return *c, nil
}

// Delete removes a comment, its snapshot and its like-set. Replies that moved
// up a level lose their stale snapshots too.
func (s *Service) Delete(ctx context.Context, id int64) error {
	reattached, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.Purge(ctx, ref(id))
	for _, child := range reattached {
		s.cache.InvalidateOnWrite(ctx, ref(child))
	}
	return nil
}

// ToggleLike flips userID's like on an existing comment.
func (s *Service) ToggleLike(ctx context.Context, id, userID int64) (cacheDomain.LikeState, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return cacheDomain.LikeState{}, err
	}
	counters := s.cache.Counters()
	liked, toggled := counters.ToggleLike(ctx, cacheDomain.CommentLike, id, userID)
	count, counted := counters.LikeCount(ctx, cacheDomain.CommentLike, id)
	return cacheDomain.LikeState{
		Liked:    liked,
		Count:    count,
		Degraded: toggled.Degraded() || counted.Degraded(),
	}, nil
}

// Likes reports the like count of a comment and whether userID is among them.
// A zero userID only counts.
func (s *Service) Likes(ctx context.Context, id, userID int64) cacheDomain.LikeState {
	counters := s.cache.Counters()
	count, counted := counters.LikeCount(ctx, cacheDomain.CommentLike, id)
	state := cacheDomain.LikeState{Count: count, Degraded: counted.Degraded()}
	if userID != 0 {
		var res cacheDomain.Result
		state.Liked, res = counters.IsLiked(ctx, cacheDomain.CommentLike, id, userID)
		state.Degraded = state.Degraded || res.Degraded()
	}
	return state
}
