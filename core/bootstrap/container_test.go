package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/AzielCF/az-press/core/config"
	"github.com/AzielCF/az-press/core/database"
	userDomain "github.com/AzielCF/az-press/users/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend, address string) *config.Config {
	return &config.Config{
		App:      config.AppConfig{Version: "test"},
		Database: config.DatabaseConfig{Timeout: 5 * time.Second},
		Cache: config.CacheConfig{
			Backend:       backend,
			ValkeyAddress: address,
			Timeout:       200 * time.Millisecond,
			SnapshotTTL:   time.Hour,
			ViewTTL:       24 * time.Hour,
			RecentSize:    10,
		},
		Security: config.SecurityConfig{
			SecretKey: "bootstrap-test-secret-0123",
			TokenTTL:  30 * time.Minute,
		},
	}
}

func TestNewCacheBackend_UnknownBackend(t *testing.T) {
	_, _, err := NewCacheBackend(testConfig("memcached", ""), nil)
	assert.Error(t, err)
}

func TestOpen_UnreachableValkeyStillServes(t *testing.T) {
	db, err := database.NewMemoryDatabase()
	require.NoError(t, err)
	ctx := context.Background()

	c, err := Open(ctx, testConfig(config.CacheBackendValkey, "127.0.0.1:1"), db)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.CacheBackend.Ping(ctx))

	user, err := c.Users.Register(ctx, "alice", "alice@press.test", "password123", userDomain.RoleReader)
	require.NoError(t, err)
	got, err := c.Users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	token, _, err := c.Auth.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	session, err := c.Auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}
