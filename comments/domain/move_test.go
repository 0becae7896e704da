package domain

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thread() []Comment {
	// 1
	// ├── 2
	// │   └── 3
	// │       └── 4
	// └── 5
	// 6
	// 9 (article 2)
	other := row(9, nil)
	other.ArticleID = 2
	return []Comment{
		row(1, nil),
		row(2, ptr(1)),
		row(3, ptr(2)),
		row(4, ptr(3)),
		row(5, ptr(1)),
		row(6, nil),
		other,
	}
}

func TestValidateMove(t *testing.T) {
	lookup := MapLookup(thread())
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int64
		newParent *int64
		wantErr   error
	}{
		{name: "to top level", id: 3, newParent: nil},
		{name: "under unrelated node", id: 2, newParent: ptr(6)},
		{name: "under sibling", id: 5, newParent: ptr(2)},
		{name: "under own parent", id: 3, newParent: ptr(2)},
		{name: "deeper leaf under root", id: 4, newParent: ptr(1)},
		{name: "self", id: 2, newParent: ptr(2), wantErr: ErrSelfParent},
		{name: "under child", id: 2, newParent: ptr(3), wantErr: ErrCycle},
		{name: "under grandchild", id: 1, newParent: ptr(4), wantErr: ErrCycle},
		{name: "other article", id: 2, newParent: ptr(9), wantErr: ErrCrossArticle},
		{name: "missing comment", id: 42, newParent: ptr(1), wantErr: ErrCommentNotFound},
		{name: "missing parent", id: 2, newParent: ptr(42), wantErr: ErrCommentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMove(ctx, tt.id, tt.newParent, lookup)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateMove_ErrorClasses(t *testing.T) {
	for _, err := range []error{ErrSelfParent, ErrCycle, ErrCrossArticle} {
		assert.ErrorIs(t, err, ErrInvalidMove)
	}
	assert.False(t, errors.Is(ErrCommentNotFound, ErrInvalidMove))
}

func TestValidateMove_TerminatesOnStoredLoop(t *testing.T) {
	// 2 and 3 point at each other; 1 is unrelated.
	lookup := MapLookup([]Comment{row(1, nil), row(2, ptr(3)), row(3, ptr(2))})

	err := ValidateMove(context.Background(), 1, ptr(2), lookup)
	assert.NoError(t, err)
}

func TestValidateMove_LookupFailurePropagates(t *testing.T) {
	boom := errors.New("db down")
	lookup := func(ctx context.Context, id int64) (Ref, error) {
		if id == 2 {
			return Ref{}, boom
		}
		return Ref{ID: id, ArticleID: 1}, nil
	}

	err := ValidateMove(context.Background(), 1, ptr(2), lookup)
	assert.ErrorIs(t, err, boom)
}

func TestValidateMove_RandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for round := 0; round < 30; round++ {
		// A chain 1 -> 2 -> 3 guarantees at least three levels.
		flat := []Comment{row(1, nil), row(2, ptr(1)), row(3, ptr(2))}
		for id := int64(4); id <= 60; id++ {
			var parent *int64
			if rng.Intn(5) != 0 {
				parent = ptr(int64(rng.Intn(int(id-1)) + 1))
			}
			flat = append(flat, row(id, parent))
		}
		lookup := MapLookup(flat)
		parents := make(map[int64]*int64, len(flat))
		for _, c := range flat {
			parents[c.ID] = c.ParentID
		}
		descendantOf := func(b, a int64) bool {
			for p := parents[b]; p != nil; p = parents[*p] {
				if *p == a {
					return true
				}
			}
			return false
		}

		for i := 0; i < 100; i++ {
			a := int64(rng.Intn(len(flat)) + 1)
			b := int64(rng.Intn(len(flat)) + 1)
			err := ValidateMove(ctx, a, ptr(b), lookup)
			switch {
			case a == b:
				assert.ErrorIs(t, err, ErrSelfParent)
			case descendantOf(b, a):
				require.ErrorIs(t, err, ErrCycle, "moving %d under descendant %d", a, b)
			default:
				require.NoError(t, err, "moving %d under %d", a, b)
			}
		}

		require.ErrorIs(t, ValidateMove(ctx, 1, ptr(3), lookup), ErrCycle)
	}
}
