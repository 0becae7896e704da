package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AzielCF/az-press/infrastructure/valkey"
)

// First INCR creates the key with value 1; only that call assigns the TTL.
const incrWithTTLScript = `
local v = redis.call("incr", KEYS[1])
if v == 1 then
	redis.call("pexpire", KEYS[1], ARGV[1])
end
return v
`

// Membership flip in one round trip so two toggles by the same user cannot interleave.
const toggleMemberScript = `
if redis.call("sismember", KEYS[1], ARGV[1]) == 1 then
	redis.call("srem", KEYS[1], ARGV[1])
	return 0
end
redis.call("sadd", KEYS[1], ARGV[1])
return 1
`

const scanBatch = 100

// ValkeyBackend implements domain.Backend on a shared Valkey/Redis client.
// Logical keys are stored under the client's global prefix, if any.
type ValkeyBackend struct {
	client *valkey.Client
	prefix string
}

// NewValkeyBackend creates a backend on top of a client created via
// valkey.NewClient or valkey.Dial. While the client has no connection every
// call fails with valkey.ErrUnavailable.
func NewValkeyBackend(client *valkey.Client) *ValkeyBackend {
	return &ValkeyBackend{
		client: client,
		prefix: client.KeyPrefix(),
	}
}

func (b *ValkeyBackend) fullKey(key string) string {
	return b.prefix + key
}

// wholeSeconds rounds ttl up to the one-second resolution of SET EX.
func wholeSeconds(ttl time.Duration) time.Duration {
	if rem := ttl % time.Second; rem != 0 {
		ttl += time.Second - rem
	}
	return ttl
}

func (b *ValkeyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	conn, err := b.client.Conn()
	if err != nil {
		return err
	}
	if ttl > 0 {
		cmd := conn.B().Set().Key(b.fullKey(key)).Value(string(value)).Ex(wholeSeconds(ttl)).Build()
		err = b.client.Do(ctx, cmd).Error()
	} else {
		cmd := conn.B().Set().Key(b.fullKey(key)).Value(string(value)).Build()
		err = b.client.Do(ctx, cmd).Error()
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (b *ValkeyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return nil, false, err
	}
	cmd := conn.B().Get().Key(b.fullKey(key)).Build()
	data, err := b.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

func (b *ValkeyBackend) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	conn, err := b.client.Conn()
	if err != nil {
		return 0, err
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = b.fullKey(k)
	}
	cmd := conn.B().Del().Key(full...).Build()
	n, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d keys: %w", len(keys), err)
	}
	return n, nil
}

func (b *ValkeyBackend) Exists(ctx context.Context, key string) (bool, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return false, err
	}
	cmd := conn.B().Exists().Key(b.fullKey(key)).Build()
	count, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return count > 0, nil
}

// Scan walks the keyspace with SCAN (never KEYS) and strips the global prefix.
func (b *ValkeyBackend) Scan(ctx context.Context, pattern string) ([]string, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return nil, err
	}
	fullPattern := b.prefix + pattern
	var keys []string
	var cursor uint64

	for {
		cmd := conn.B().Scan().Cursor(cursor).Match(fullPattern).Count(scanBatch).Build()
		result, err := b.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}

		for _, k := range result.Elements {
			if len(k) >= len(b.prefix) {
				keys = append(keys, k[len(b.prefix):])
			}
		}

		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func (b *ValkeyBackend) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return 0, err
	}
	cmd := conn.B().Eval().
		Script(incrWithTTLScript).
		Numkeys(1).
		Key(b.fullKey(key)).
		Arg(strconv.FormatInt(ttl.Milliseconds(), 10)).
		Build()

	n, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return n, nil
}

func (b *ValkeyBackend) Counter(ctx context.Context, key string) (int64, bool, error) {
	data, ok, err := b.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("counter %s is not an integer: %w", key, err)
	}
	return n, true, nil
}

func (b *ValkeyBackend) ToggleMember(ctx context.Context, key, member string) (bool, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return false, err
	}
	cmd := conn.B().Eval().
		Script(toggleMemberScript).
		Numkeys(1).
		Key(b.fullKey(key)).
		Arg(member).
		Build()

	n, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to toggle %s in %s: %w", member, key, err)
	}
	return n == 1, nil
}

func (b *ValkeyBackend) IsMember(ctx context.Context, key, member string) (bool, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return false, err
	}
	cmd := conn.B().Sismember().Key(b.fullKey(key)).Member(member).Build()
	n, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check membership in %s: %w", key, err)
	}
	return n == 1, nil
}

func (b *ValkeyBackend) Cardinality(ctx context.Context, key string) (int64, error) {
	conn, err := b.client.Conn()
	if err != nil {
		return 0, err
	}
	cmd := conn.B().Scard().Key(b.fullKey(key)).Build()
	n, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", key, err)
	}
	return n, nil
}

func (b *ValkeyBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}
