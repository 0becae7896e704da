package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/AzielCF/az-press/infrastructure/valkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValkey(t *testing.T) *ValkeyBackend {
	t.Helper()
	addr := os.Getenv("VALKEY_TEST_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := valkey.NewClient(valkey.Config{
		Address:        addr,
		KeyPrefix:      "azpress-test",
		ConnectTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		t.Skip("No valkey")
	}
	t.Cleanup(client.Close)

	b := NewValkeyBackend(client)
	ctx := context.Background()
	keys, err := b.Scan(ctx, "*")
	require.NoError(t, err)
	_, err = b.Delete(ctx, keys...)
	require.NoError(t, err)
	return b
}

func TestValkeyBackend_SetGetDelete(t *testing.T) {
	b := newTestValkey(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "article:5", []byte(`{"title":"x"}`), time.Hour))
	data, ok, err := b.Get(ctx, "article:5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"title":"x"}`, string(data))

	n, err := b.Delete(ctx, "article:5", "article:missing")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, ok, err = b.Get(ctx, "article:5")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValkeyBackend_IncrAssignsTTLOnce(t *testing.T) {
	b := newTestValkey(t)
	ctx := context.Background()

	n, err := b.IncrWithTTL(ctx, "article_views:1", time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = b.IncrWithTTL(ctx, "article_views:1", time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	conn, err := b.client.Conn()
	require.NoError(t, err)
	ttlCmd := conn.B().Ttl().Key(b.fullKey("article_views:1")).Build()
	ttl, err := b.client.Do(ctx, ttlCmd).AsInt64()
	require.NoError(t, err)
	assert.Greater(t, ttl, int64(3500))

	views, ok, err := b.Counter(ctx, "article_views:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, views)
}

func TestValkeyBackend_ToggleMember(t *testing.T) {
	b := newTestValkey(t)
	ctx := context.Background()

	liked, err := b.ToggleMember(ctx, "article_likes:42", "1")
	require.NoError(t, err)
	assert.True(t, liked)
	b.ToggleMember(ctx, "article_likes:42", "2")
	liked, err = b.ToggleMember(ctx, "article_likes:42", "1")
	require.NoError(t, err)
	assert.False(t, liked)

	n, err := b.Cardinality(ctx, "article_likes:42")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	member, err := b.IsMember(ctx, "article_likes:42", "2")
	require.NoError(t, err)
	assert.True(t, member)
}

func TestValkeyBackend_ScanStripsPrefix(t *testing.T) {
	b := newTestValkey(t)
	ctx := context.Background()

	b.Set(ctx, "comment_like_count:1", []byte("x"), time.Minute)
	b.Set(ctx, "comment:1", []byte("x"), time.Minute)

	keys, err := b.Scan(ctx, "comment_like_count:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"comment_like_count:1"}, keys)
}

func TestValkeyBackend_UnreachableServerFails(t *testing.T) {
	client := valkey.Dial(valkey.Config{
		Address:        "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		RedialInterval: time.Hour,
	})
	t.Cleanup(client.Close)
	b := NewValkeyBackend(client)
	ctx := context.Background()

	assert.ErrorIs(t, b.Set(ctx, "article:1", []byte("x"), time.Minute), valkey.ErrUnavailable)
	_, _, err := b.Get(ctx, "article:1")
	assert.ErrorIs(t, err, valkey.ErrUnavailable)
	_, err = b.Delete(ctx, "article:1")
	assert.ErrorIs(t, err, valkey.ErrUnavailable)
	_, err = b.ToggleMember(ctx, "article_likes:1", "2")
	assert.ErrorIs(t, err, valkey.ErrUnavailable)
	assert.ErrorIs(t, b.Ping(ctx), valkey.ErrUnavailable)
}
