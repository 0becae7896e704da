package domain

import (
	"context"
	"time"
)

// Comment is one stored comment row.
type Comment struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"article_id"`
	ParentID   *int64    `json:"parent_id"`
	UserID     *int64    `json:"user_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	IsSpam     bool      `json:"is_spam"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsRoot reports whether the comment replies to the article directly.
func (c Comment) IsRoot() bool { return c.ParentID == nil }

// Node is a comment placed in a reply tree. Children keep the order of the
// flat input. Nodes are built per request and never persisted.
type Node struct {
	Comment
	Children []*Node `json:"children"`
}

// Ref is the minimal view of a comment needed to walk ancestors.
type Ref struct {
	ID        int64
	ArticleID int64
	ParentID  *int64
}

// AncestorLookup returns the Ref of a comment by id, typically from the
// canonical store. It returns ErrCommentNotFound for unknown ids.
type AncestorLookup func(ctx context.Context, id int64) (Ref, error)

// Repository is the canonical comment store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]Comment, error)
	Lookup(ctx context.Context, id int64) (Ref, error)
	Create(ctx context.Context, c *Comment) error
	// Delete removes a comment and returns the ids of the replies that were
	// re-attached to its parent.
	Delete(ctx context.Context, id int64) ([]int64, error)
	SetApproval(ctx context.Context, id int64, approved, spam bool) (*Comment, error)

	// Move validates and re-parents a comment in one transaction.
	Move(ctx context.Context, id int64, newParentID *int64) (*Comment, error)
}
