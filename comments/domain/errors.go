package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvalidMove is the class of every rejected re-parenting.
	ErrInvalidMove = errors.New("invalid comment move")

	ErrSelfParent   = fmt.Errorf("%w: a comment cannot be its own parent", ErrInvalidMove)
	ErrCycle        = fmt.Errorf("%w: new parent is a descendant of the comment", ErrInvalidMove)
	ErrCrossArticle = fmt.Errorf("%w: parent belongs to another article", ErrInvalidMove)
)
