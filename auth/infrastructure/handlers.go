package infrastructure

import (
	"github.com/AzielCF/az-press/auth/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/AzielCF/az-press/validations"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService domain.IAuthService
}

func NewAuthHandler(service domain.IAuthService) *AuthHandler {
	return &AuthHandler{authService: service}
}

// RegisterRoutes mounts the auth routes. guard must be NewAuthMiddleware; it is
// attached per route so sibling routes under the same prefix stay public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Post("/auth/login", h.Login)
	router.Post("/auth/logout", guard, h.Logout)
	router.Get("/auth/me", guard, h.Me)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req validations.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkgError.ValidationError("invalid request body")
	}
	if err := validations.ValidateLogin(req); err != nil {
		return err
	}

	token, session, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return utils.Success(c, "Login success", fiber.Map{
		"token":      token,
		"expires_at": session.ExpiresAt,
		"user_id":    session.UserID,
		"role":       session.Role,
	})
}

// Logout revokes the bearer token of the current request
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session := SessionFrom(c)
	if session == nil {
		return pkgError.UnauthorizedError("authentication required")
	}
	if err := h.authService.Logout(c.UserContext(), session.Token); err != nil {
		return err
	}
	return utils.Success(c, "Logout success", nil)
}

// Me returns the session of the current request
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.Success(c, "Session retrieved", SessionFrom(c))
}
