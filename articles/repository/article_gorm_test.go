package repository

import (
	"context"
	"testing"
	"time"

	"github.com/AzielCF/az-press/articles/domain"
	"github.com/AzielCF/az-press/core/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *ArticleGormRepository {
	t.Helper()
	db, err := database.NewMemoryDatabase()
	require.NoError(t, err)
	repo := NewArticleGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestArticleGorm_CreateGetUpdateDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := &domain.Article{Title: "Hello", Slug: "hello", Content: "body", Published: true}
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)
	require.NotNil(t, a.PublishedAt)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	got.Title = "Hello again"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Title)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrArticleNotFound)
}

func TestArticleGorm_UpdateMissing(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), &domain.Article{ID: 9, Title: "x", Slug: "x"})
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestArticleGorm_Lists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, tc := range []struct {
		slug      string
		published bool
		featured  bool
	}{
		{"a", true, false},
		{"b", true, true},
		{"draft", false, true},
		{"c", true, true},
	} {
		at := base.Add(time.Duration(i) * time.Hour)
		a := &domain.Article{Title: tc.slug, Slug: tc.slug, Published: tc.published, Featured: tc.featured}
		if tc.published {
			a.PublishedAt = &at
		}
		require.NoError(t, repo.Create(ctx, a))
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Slug)
	assert.Equal(t, "b", recent[1].Slug)

	featured, err := repo.ListFeatured(ctx, 10)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "c", featured[0].Slug)
}
