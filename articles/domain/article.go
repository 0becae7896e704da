package domain

import (
	"context"
	"errors"
	"time"
)

var ErrArticleNotFound = errors.New("article not found")

type Article struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content"`
	AuthorID    int64      `json:"author_id"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Detail is an article as served on its own page, with the counters that live
// outside the canonical store.
type Detail struct {
	Article
	Views int64 `json:"views"`
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

// Update carries the editable fields; nil means unchanged.
type Update struct {
	Title     *string `json:"title"`
	Summary   *string `json:"summary"`
	Content   *string `json:"content"`
	Featured  *bool   `json:"featured"`
	Published *bool   `json:"published"`
}

// Apply copies the set fields of u onto a.
func (u Update) Apply(a *Article, now time.Time) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Summary != nil {
		a.Summary = *u.Summary
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.Featured != nil {
		a.Featured = *u.Featured
	}
	if u.Published != nil {
		if *u.Published && !a.Published {
			a.PublishedAt = &now
		}
		a.Published = *u.Published
	}
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Article, error)
	// ListRecent returns published articles, newest first.
	ListRecent(ctx context.Context, limit int) ([]Article, error)
	ListFeatured(ctx context.Context, limit int) ([]Article, error)
	Create(ctx context.Context, a *Article) error
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id int64) error
}
