package application

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-press/auth/domain"
	"github.com/AzielCF/az-press/auth/security"
	cacheApp "github.com/AzielCF/az-press/caching/application"
	userDomain "github.com/AzielCF/az-press/users/domain"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users    userDomain.Repository
	signer   *security.Signer
	registry *cacheApp.Registry
}

func NewAuthService(users userDomain.Repository, signer *security.Signer, registry *cacheApp.Registry) *AuthService {
	return &AuthService{users: users, signer: signer, registry: registry}
}

// Login verifies credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials // Do not reveal if user exists
		}
		return "", nil, err
	}
	if !security.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, domain.ErrInactiveUser
	}

	token, claims, err := s.signer.Issue(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		logrus.WithError(err).Warnf("[Auth] Failed to record login of user %d", user.ID)
	}

	return token, sessionOf(token, claims), nil
}

// Authenticate verifies the token and consults the revocation registry. A
// registry outage lets the request through.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, res := s.registry.Check(ctx, token)
	if res.Degraded() {
		logrus.Warnf("[Auth] Revocation check skipped for token %s", claims.ID)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}
	return sessionOf(token, claims), nil
}

// Logout revokes the token for the rest of its lifetime. Logging out with a
// token that is already invalid is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrInvalidToken) {
			return nil
		}
		return err
	}
	if res := s.registry.Revoke(ctx, token, s.signer.Remaining(claims)); res.Degraded() {
		logrus.Warnf("[Auth] Token %s could not be revoked and stays valid until it expires", claims.ID)
	}
	return nil
}

func sessionOf(token string, claims *security.Claims) *domain.Session {
	return &domain.Session{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}
}
