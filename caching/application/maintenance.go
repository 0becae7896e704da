package application

import (
	"context"
	"fmt"

	"github.com/AzielCF/az-press/caching/domain"
)

// Namespaces lists every key family the application writes.
var Namespaces = []domain.Namespace{
	domain.NamespaceUser,
	domain.NamespaceArticle,
	domain.NamespaceComment,
	domain.NamespaceArticleViews,
	domain.NamespaceArticleLikes,
	domain.NamespaceCommentLikes,
	domain.NamespaceRevoked,
}

type NamespaceStats struct {
	Namespace domain.Namespace `json:"namespace"`
	Keys      int              `json:"keys"`
}

type Stats struct {
	Backend    string           `json:"backend"`
	Healthy    bool             `json:"healthy"`
	Total      int              `json:"total"`
	Namespaces []NamespaceStats `json:"namespaces"`
}

// Maintenance backs the cache administration endpoints and CLI.
type Maintenance struct {
	backend  domain.Backend
	name     string
	store    *Store
	counters *Counters
}

func NewMaintenance(name string, backend domain.Backend, store *Store, counters *Counters) *Maintenance {
	return &Maintenance{backend: backend, name: name, store: store, counters: counters}
}

// Stats counts live keys per namespace with SCAN. An unreachable backend
// yields an unhealthy report with zero counts.
func (m *Maintenance) Stats(ctx context.Context) Stats {
	stats := Stats{Backend: m.name, Namespaces: make([]NamespaceStats, 0, len(Namespaces))}
	if err := m.backend.Ping(ctx); err != nil {
		absorb("CacheMaintenance", "PING", "", err)
		return stats
	}
	stats.Healthy = true
	for _, ns := range Namespaces {
		keys, res := m.store.Keys(ctx, domain.Pattern(ns))
		if res.Degraded() {
			stats.Healthy = false
		}
		stats.Namespaces = append(stats.Namespaces, NamespaceStats{Namespace: ns, Keys: len(keys)})
		stats.Total += len(keys)
	}
	return stats
}

// ParseLikeKinds maps "article", "comment" or "all" to like kinds.
func ParseLikeKinds(target string) ([]domain.LikeKind, error) {
	switch target {
	case "", "all":
		return []domain.LikeKind{domain.CommentLike, domain.ArticleLike}, nil
	case "article", "articles":
		return []domain.LikeKind{domain.ArticleLike}, nil
	case "comment", "comments":
		return []domain.LikeKind{domain.CommentLike}, nil
	}
	return nil, fmt.Errorf("unknown like target %q", target)
}

// ClearLikes removes the like-sets of the given kinds.
func (m *Maintenance) ClearLikes(ctx context.Context, kinds ...domain.LikeKind) (int64, domain.Result) {
	return m.counters.ClearLikes(ctx, kinds...)
}

// KnownNamespace reports whether ns is one of Namespaces.
func KnownNamespace(ns domain.Namespace) bool {
	for _, known := range Namespaces {
		if known == ns {
			return true
		}
	}
	return false
}

// ClearNamespace removes every key of ns.
func (m *Maintenance) ClearNamespace(ctx context.Context, ns domain.Namespace) (int64, domain.Result) {
	if !KnownNamespace(ns) {
		return 0, domain.Degraded(fmt.Errorf("unknown namespace %q", ns))
	}
	return m.store.DeleteNamespace(ctx, ns)
}
