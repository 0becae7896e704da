package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AzielCF/az-press/articles/domain"
	"gorm.io/gorm"
)

type articleModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Summary     string
	Content     string `gorm:"type:text"`
	AuthorID    int64  `gorm:"index"`
	Featured    bool   `gorm:"index:idx_articles_featured"`
	Published   bool   `gorm:"index:idx_articles_published"`
	PublishedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (articleModel) TableName() string {
	return "articles"
}

type ArticleGormRepository struct {
	db *gorm.DB
}

func NewArticleGormRepository(db *gorm.DB) *ArticleGormRepository {
	return &ArticleGormRepository{db: db}
}

func (r *ArticleGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&articleModel{})
}

func (r *ArticleGormRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	var m articleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", domain.ErrArticleNotFound, id)
		}
		return nil, err
	}
	a := fromArticleModel(m)
	return &a, nil
}

func (r *ArticleGormRepository) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("published = ?", true), limit)
}

func (r *ArticleGormRepository) ListFeatured(ctx context.Context, limit int) ([]domain.Article, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("published = ? AND featured = ?", true, true), limit)
}

func (r *ArticleGormRepository) list(ctx context.Context, query *gorm.DB, limit int) ([]domain.Article, error) {
	var models []articleModel
	query = query.Order("published_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	articles := make([]domain.Article, len(models))
	for i, m := range models {
		articles[i] = fromArticleModel(m)
	}
	return articles, nil
}

func (r *ArticleGormRepository) Create(ctx context.Context, a *domain.Article) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Published && a.PublishedAt == nil {
		a.PublishedAt = &now
	}

	m := toArticleModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

func (r *ArticleGormRepository) Update(ctx context.Context, a *domain.Article) error {
	a.UpdatedAt = time.Now().UTC()
	m := toArticleModel(a)

	result := r.db.WithContext(ctx).Model(&articleModel{ID: a.ID}).Select("*").Omit("created_at").Updates(&m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrArticleNotFound, a.ID)
	}
	return nil
}

func (r *ArticleGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&articleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrArticleNotFound, id)
	}
	return nil
}

func toArticleModel(a *domain.Article) articleModel {
	return articleModel{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Content:     a.Content,
		AuthorID:    a.AuthorID,
		Featured:    a.Featured,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func fromArticleModel(m articleModel) domain.Article {
	return domain.Article{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Summary:     m.Summary,
		Content:     m.Content,
		AuthorID:    m.AuthorID,
		Featured:    m.Featured,
		Published:   m.Published,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
