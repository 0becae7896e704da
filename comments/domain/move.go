package domain

import (
	"context"
	"fmt"
)

// ValidateMove checks that comment id may be re-parented under newParentID.
// A nil newParentID moves the comment to the top level and is always allowed
// once the comment exists.
//
// The walk goes upward from the new parent through lookup until it reaches a
// root. Meeting id on the way means the new parent is a descendant and the move
// would close a loop. A loop already present in storage ends the walk as well,
// since revisiting a node can never reach id.
func ValidateMove(ctx context.Context, id int64, newParentID *int64, lookup AncestorLookup) error {
	moving, err := lookup(ctx, id)
	if err != nil {
		return err
	}
	if newParentID == nil {
		return nil
	}
	if *newParentID == id {
		return ErrSelfParent
	}

	parent, err := lookup(ctx, *newParentID)
	if err != nil {
		return err
	}
	if parent.ArticleID != moving.ArticleID {
		return fmt.Errorf("%w (comment %d in article %d, parent %d in article %d)",
			ErrCrossArticle, id, moving.ArticleID, parent.ID, parent.ArticleID)
	}

	visited := map[int64]struct{}{parent.ID: {}}
	current := parent
	for current.ParentID != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := *current.ParentID
		if next == id {
			return fmt.Errorf("%w (comment %d under %d)", ErrCycle, id, *newParentID)
		}
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}

		current, err = lookup(ctx, next)
		if err != nil {
			return err
		}
	}
	return nil
}

// MapLookup serves AncestorLookup from comments already loaded in memory.
func MapLookup(comments []Comment) AncestorLookup {
	refs := make(map[int64]Ref, len(comments))
	for _, c := range comments {
		refs[c.ID] = Ref{ID: c.ID, ArticleID: c.ArticleID, ParentID: c.ParentID}
	}
	return func(_ context.Context, id int64) (Ref, error) {
		r, ok := refs[id]
		if !ok {
			return Ref{}, fmt.Errorf("%w: %d", ErrCommentNotFound, id)
		}
		return r, nil
	}
}
