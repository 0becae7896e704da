package middleware

import (
	"errors"
	"fmt"

	articleDomain "github.com/AzielCF/az-press/articles/domain"
	authDomain "github.com/AzielCF/az-press/auth/domain"
	"github.com/AzielCF/az-press/auth/security"
	commentDomain "github.com/AzielCF/az-press/comments/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	userDomain "github.com/AzielCF/az-press/users/domain"
	"github.com/gofiber/fiber/v2"
)

// Classify maps domain errors to their HTTP representation. Unknown errors
// return nil.
func Classify(err error) pkgError.GenericError {
	var generic pkgError.GenericError
	switch {
	case errors.As(err, &generic):
		return generic
	case errors.Is(err, commentDomain.ErrCommentNotFound),
		errors.Is(err, articleDomain.ErrArticleNotFound),
		errors.Is(err, userDomain.ErrUserNotFound):
		return pkgError.NotFoundError(err.Error())
	case errors.Is(err, commentDomain.ErrInvalidMove),
		errors.Is(err, userDomain.ErrDuplicateUser):
		return pkgError.ConflictError(err.Error())
	case errors.Is(err, authDomain.ErrInvalidCredentials),
		errors.Is(err, authDomain.ErrTokenRevoked),
		errors.Is(err, security.ErrInvalidToken):
		return pkgError.UnauthorizedError(err.Error())
	case errors.Is(err, authDomain.ErrInactiveUser):
		return pkgError.ForbiddenError(err.Error())
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fiberError{err: fe}
	}
	return nil
}

type fiberError struct{ err *fiber.Error }

func (e fiberError) Error() string   { return e.err.Error() }
func (e fiberError) ErrCode() string { return fmt.Sprintf("HTTP_%d", e.err.Code) }
func (e fiberError) StatusCode() int { return e.err.Code }
