package infrastructure

import (
	"strings"

	"github.com/AzielCF/az-press/auth/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

func bearer(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// NewAuthMiddleware protects routes: the bearer token must verify and must not
// be in the revocation registry.
func NewAuthMiddleware(auth domain.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearer(c)
		if !ok {
			return pkgError.UnauthorizedError("missing or malformed authorization header")
		}

		session, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// NewOptionalAuthMiddleware attaches a session when a valid token is present
// and lets anonymous requests through otherwise.
func NewOptionalAuthMiddleware(auth domain.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearer(c); ok {
			if session, err := auth.Authenticate(c.UserContext(), token); err == nil {
				c.Locals(sessionKey, session)
			}
		}
		return c.Next()
	}
}

// RequireRole is an additional middleware for granular permissions. Admins
// pass every role check.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFrom(c)
		if session == nil {
			return pkgError.UnauthorizedError("authentication required")
		}
		if session.Role == "admin" {
			return c.Next()
		}
		for _, r := range roles {
			if session.Role == r {
				return c.Next()
			}
		}
		return pkgError.ForbiddenError("insufficient permissions")
	}
}

// SessionFrom returns the session set by the auth middlewares, if any.
func SessionFrom(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(sessionKey).(*domain.Session)
	return session
}

// UserID is the authenticated user's id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) int64 {
	if s := SessionFrom(c); s != nil {
		return s.UserID
	}
	return 0
}
