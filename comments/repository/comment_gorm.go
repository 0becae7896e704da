package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AzielCF/az-press/comments/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Persistence Model ---

type commentModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ArticleID  int64  `gorm:"index:idx_comments_article;not null"`
	ParentID   *int64 `gorm:"index:idx_comments_parent"`
	UserID     *int64
	AuthorName string
	Content    string    `gorm:"type:text;not null"`
	IsApproved bool      `gorm:"default:false"`
	IsSpam     bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"index:idx_comments_article;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (commentModel) TableName() string {
	return "comments"
}

// --- Repository Implementation ---

type CommentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) *CommentGormRepository {
	return &CommentGormRepository{db: db}
}

func (r *CommentGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&commentModel{})
}

func (r *CommentGormRepository) Create(ctx context.Context, c *domain.Comment) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	model := toCommentModel(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

func (r *CommentGormRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var m commentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", domain.ErrCommentNotFound, id)
		}
		return nil, err
	}
	c := fromCommentModel(m)
	return &c, nil
}

// ListByArticle returns every comment of the article, newest first.
func (r *CommentGormRepository) ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	var models []commentModel
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, len(models))
	for i, m := range models {
		comments[i] = fromCommentModel(m)
	}
	return comments, nil
}

// Lookup implements domain.AncestorLookup against the table.
func (r *CommentGormRepository) Lookup(ctx context.Context, id int64) (domain.Ref, error) {
	return lookupIn(ctx, r.db, id, false)
}

// refQuery selects the tree columns of one comment. With forUpdate the row
// stays locked until the surrounding transaction ends; SQLite has no row
// locks and serializes writers on its own.
func refQuery(db *gorm.DB, id int64, forUpdate bool) *gorm.DB {
	q := db.Model(&commentModel{}).Select("id", "article_id", "parent_id").Where("id = ?", id)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func lookupIn(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (domain.Ref, error) {
	var m commentModel
	err := refQuery(db.WithContext(ctx), id, forUpdate).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ref{}, fmt.Errorf("%w: %d", domain.ErrCommentNotFound, id)
		}
		return domain.Ref{}, err
	}
	return domain.Ref{ID: m.ID, ArticleID: m.ArticleID, ParentID: m.ParentID}, nil
}

// Move validates the new position and writes parent_id in one transaction.
// Every row read by the ancestor walk is locked, so of two crossing moves the
// second either sees the first one's parent_id or aborts on a deadlock.
func (r *CommentGormRepository) Move(ctx context.Context, id int64, newParentID *int64) (*domain.Comment, error) {
	var moved commentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := func(ctx context.Context, id int64) (domain.Ref, error) {
			return lookupIn(ctx, tx, id, true)
		}
		if err := domain.ValidateMove(ctx, id, newParentID, lookup); err != nil {
			return err
		}

		res := tx.Model(&commentModel{}).Where("id = ?", id).Updates(map[string]any{
			"parent_id":  newParentID,
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", domain.ErrCommentNotFound, id)
		}
		return tx.First(&moved, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	c := fromCommentModel(moved)
	return &c, nil
}

func (r *CommentGormRepository) SetApproval(ctx context.Context, id int64, approved, spam bool) (*domain.Comment, error) {
	res := r.db.WithContext(ctx).Model(&commentModel{}).Where("id = ?", id).Updates(map[string]any{
		"is_approved": approved,
		"is_spam":     spam,
		"updated_at":  time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrCommentNotFound, id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a comment. Direct replies move up to the deleted comment's
// parent so the rest of the thread stays attached; their ids are returned.
func (r *CommentGormRepository) Delete(ctx context.Context, id int64) ([]int64, error) {
	var reattached []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := lookupIn(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := tx.Model(&commentModel{}).Where("parent_id = ?", id).
			Pluck("id", &reattached).Error; err != nil {
			return err
		}
		if len(reattached) > 0 {
			if err := tx.Model(&commentModel{}).Where("id IN ?", reattached).
				Update("parent_id", ref.ParentID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&commentModel{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return reattached, nil
}

// --- Mappers ---

func toCommentModel(c *domain.Comment) commentModel {
	return commentModel{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		ParentID:   c.ParentID,
		UserID:     c.UserID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		IsApproved: c.IsApproved,
		IsSpam:     c.IsSpam,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromCommentModel(m commentModel) domain.Comment {
	return domain.Comment{
		ID:         m.ID,
		ArticleID:  m.ArticleID,
		ParentID:   m.ParentID,
		UserID:     m.UserID,
		AuthorName: m.AuthorName,
		Content:    m.Content,
		IsApproved: m.IsApproved,
		IsSpam:     m.IsSpam,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
