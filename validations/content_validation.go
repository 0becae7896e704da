package validations

import (
	"context"

	articleDomain "github.com/AzielCF/az-press/articles/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	userDomain "github.com/AzielCF/az-press/users/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateArticleRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	Featured  bool   `json:"featured"`
	Published bool   `json:"published"`
}

type CreateCommentRequest struct {
	ParentID   *int64 `json:"parent_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

type MoveCommentRequest struct {
	// ParentID nil moves the comment to the top level.
	ParentID *int64 `json:"parent_id"`
}

type ModerateCommentRequest struct {
	Approved bool `json:"approved"`
	Spam     bool `json:"spam"`
}

func ValidateCreateArticle(ctx context.Context, request CreateArticleRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&request.Slug, validation.Required, validation.Length(1, 200), validation.Match(slugPattern)),
		validation.Field(&request.Summary, validation.Length(0, 500)),
		validation.Field(&request.Content, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateUpdateArticle(ctx context.Context, request articleDomain.Update) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&request.Summary, validation.Length(0, 500)),
		validation.Field(&request.Content, validation.NilOrNotEmpty),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateCreateComment(ctx context.Context, request CreateCommentRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ParentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&request.AuthorName, validation.Length(0, 80)),
		validation.Field(&request.Content, validation.Required, validation.Length(1, 5000)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateMoveComment(ctx context.Context, request MoveCommentRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ParentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateProfileUpdate(ctx context.Context, request userDomain.ProfileUpdate) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.DisplayName, validation.NilOrNotEmpty, validation.Length(1, 80)),
		validation.Field(&request.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&request.Bio, validation.Length(0, 1000)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
