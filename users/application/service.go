package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/AzielCF/az-press/auth/security"
	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	"github.com/AzielCF/az-press/users/domain"
)

// Service caches "user:{id}" snapshots and keeps them in line with profile
// updates.
type Service struct {
	repo  domain.Repository
	cache *cacheApp.Coordinator
}

func NewService(repo domain.Repository, cache *cacheApp.Coordinator) *Service {
	return &Service{repo: repo, cache: cache}
}

func ref(id int64) cacheDomain.EntityRef {
	return cacheDomain.EntityRef{Namespace: cacheDomain.NamespaceUser, ID: id}
}

// Get reads a user through the cache. The snapshot carries no password hash.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return cacheApp.ReadThrough(ctx, s.cache, ref(id).Key(), func(ctx context.Context) (domain.User, error) {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.User{}, err
		}
		return *u, nil
	})
}

// Register creates an active account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, email, password string, role domain.Role) (domain.User, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if role == "" {
		role = domain.RoleReader
	}

	user := &domain.User{
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

// UpdateProfile writes the canonical row first and then drops the snapshot.
func (s *Service) UpdateProfile(ctx context.Context, id int64, u domain.ProfileUpdate) (domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.Apply(user)
	if err := s.repo.Update(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.cache.InvalidateOnWrite(ctx, ref(id))
	return *user, nil
}

// SetRole changes the access level of an account. Tokens already issued keep
// the role they were signed with until they expire or are revoked.
func (s *Service) SetRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("unknown role %q", role)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.cache.InvalidateOnWrite(ctx, ref(id))
	return *user, nil
}
