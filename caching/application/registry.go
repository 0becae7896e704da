package application

import (
	"context"
	"time"

	"github.com/AzielCF/az-press/caching/domain"
)

// Registry is the session revocation registry. Each entry lives exactly as long
// as the token it blacklists would have stayed valid.
type Registry struct {
	backend domain.Backend
}

func NewRegistry(backend domain.Backend) *Registry {
	return &Registry{backend: backend}
}

func revokedKey(token string) string {
	return domain.Key(domain.NamespaceRevoked, token)
}

// Revoke blacklists token for its remaining lifetime. Tokens that already
// expired are not tracked.
func (r *Registry) Revoke(ctx context.Context, token string, remaining time.Duration) domain.Result {
	if token == "" || remaining <= 0 {
		return domain.Result{}
	}
	if err := r.backend.Set(ctx, revokedKey(token), []byte("1"), remaining); err != nil {
		return absorb("RevocationRegistry", "REVOKE", "blacklist_token:<redacted>", err)
	}
	return domain.Result{}
}

// Check reports whether token is currently revoked. When the backend is
// unavailable the token is reported as not revoked and the result is degraded.
func (r *Registry) Check(ctx context.Context, token string) (bool, domain.Result) {
	if token == "" {
		return false, domain.Result{}
	}
	revoked, err := r.backend.Exists(ctx, revokedKey(token))
	if err != nil {
		return false, absorb("RevocationRegistry", "EXISTS", "blacklist_token:<redacted>", err)
	}
	return revoked, domain.Result{}
}

// IsRevoked is Check without the result.
func (r *Registry) IsRevoked(ctx context.Context, token string) bool {
	revoked, _ := r.Check(ctx, token)
	return revoked
}
