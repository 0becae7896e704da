package application

import (
	"context"
	"fmt"
	"time"

	"github.com/AzielCF/az-press/articles/domain"
	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// RecentSize is the length of the cached recent and featured lists.
	RecentSize int
	// CountListViews makes list reads count a view for every listed article.
	CountListViews bool
}

// Service serves articles through the cache-aside coordinator. Detail reads
// count a view on every request, cache hit or miss.
type Service struct {
	repo  domain.Repository
	cache *cacheApp.Coordinator
	opts  Options
}

func NewService(repo domain.Repository, cache *cacheApp.Coordinator, opts Options) *Service {
	if opts.RecentSize <= 0 {
		opts.RecentSize = 10
	}
	return &Service{repo: repo, cache: cache, opts: opts}
}

func ref(id int64) cacheDomain.EntityRef {
	return cacheDomain.EntityRef{Namespace: cacheDomain.NamespaceArticle, ID: id}
}

// listAggregates are the list snapshots an article write can change.
var listAggregates = []string{cacheDomain.AggregateRecent, cacheDomain.AggregateFeatured}

func (s *Service) load(ctx context.Context, id int64) (domain.Article, error) {
	return cacheApp.ReadThrough(ctx, s.cache, ref(id).Key(), func(ctx context.Context) (domain.Article, error) {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Article{}, err
		}
		return *a, nil
	})
}

// Get serves the detail view of an article and counts the view. userID 0 is
// an anonymous reader.
func (s *Service) Get(ctx context.Context, id, userID int64) (domain.Detail, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return domain.Detail{}, err
	}

	counters := s.cache.Counters()
	detail := domain.Detail{Article: a}
	detail.Views, _ = counters.IncrementView(ctx, id)
	detail.Likes, _ = counters.LikeCount(ctx, cacheDomain.ArticleLike, id)
	if userID != 0 {
		detail.Liked, _ = counters.IsLiked(ctx, cacheDomain.ArticleLike, id, userID)
	}
	return detail, nil
}

// Recent serves the first page of published articles from "article:recent".
func (s *Service) Recent(ctx context.Context) ([]domain.Article, error) {
	return s.list(ctx, cacheDomain.AggregateRecent, s.repo.ListRecent)
}

// Featured serves "article:featured".
func (s *Service) Featured(ctx context.Context) ([]domain.Article, error) {
	return s.list(ctx, cacheDomain.AggregateFeatured, s.repo.ListFeatured)
}

func (s *Service) list(ctx context.Context, aggregate string, load func(context.Context, int) ([]domain.Article, error)) ([]domain.Article, error) {
	key := cacheDomain.Key(cacheDomain.NamespaceArticle, aggregate)
	list, err := cacheApp.ReadThrough(ctx, s.cache, key, func(ctx context.Context) ([]domain.Article, error) {
		return load(ctx, s.opts.RecentSize)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s articles: %w", aggregate, err)
	}
	if s.opts.CountListViews {
		for _, a := range list {
			s.cache.Counters().IncrementView(ctx, a.ID)
		}
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, a *domain.Article) error {
	if err := s.repo.Create(ctx, a); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	s.cache.InvalidateOnWrite(ctx, ref(a.ID), listAggregates...)
	return nil
}

// Update applies u to the canonical row, then drops the snapshot and the lists.
func (s *Service) Update(ctx context.Context, id int64, u domain.Update) (domain.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}
	u.Apply(a, time.Now().UTC())
	if err := s.repo.Update(ctx, a); err != nil {
		return domain.Article{}, err
	}
	if res := s.cache.InvalidateOnWrite(ctx, ref(id), listAggregates...); res.Degraded() {
		logrus.Warnf("[Articles] Snapshot of %d may be stale until it expires", id)
	}
	return *a, nil
}

// Delete removes the article, its snapshot, the lists and its counters.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Purge(ctx, ref(id), listAggregates...)
	return nil
}

// ToggleLike flips userID's like on an existing article.
func (s *Service) ToggleLike(ctx context.Context, id, userID int64) (cacheDomain.LikeState, error) {
	if _, err := s.load(ctx, id); err != nil {
		return cacheDomain.LikeState{}, err
	}
	counters := s.cache.Counters()
	liked, toggled := counters.ToggleLike(ctx, cacheDomain.ArticleLike, id, userID)
	count, counted := counters.LikeCount(ctx, cacheDomain.ArticleLike, id)
	return cacheDomain.LikeState{
		Liked:    liked,
		Count:    count,
		Degraded: toggled.Degraded() || counted.Degraded(),
	}, nil
}

// Stats reads the counters of an article without counting a view.
func (s *Service) Stats(ctx context.Context, id int64) (views, likes int64) {
	counters := s.cache.Counters()
	views, _ = counters.Views(ctx, id)
	likes, _ = counters.LikeCount(ctx, cacheDomain.ArticleLike, id)
	return views, likes
}
