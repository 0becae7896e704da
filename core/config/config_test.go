package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, "", cfg.Cache.ValkeyKeyPrefix)
	assert.Equal(t, 2*time.Second, cfg.Cache.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.SnapshotTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.ViewTTL)
	assert.Equal(t, 10, cfg.Cache.RecentSize)
	assert.False(t, cfg.Cache.CountListViews)
	assert.Equal(t, 30*time.Minute, cfg.Security.TokenTTL)
	assert.Same(t, cfg, Global)
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "valkey")
	t.Setenv("VALKEY_ADDRESS", "cache:6379")
	t.Setenv("CACHE_SNAPSHOT_TTL", "5m")
	t.Setenv("CACHE_COUNT_LIST_VIEWS", "true")

	cfg, err := LoadFrom(newEnv())
	require.NoError(t, err)

	assert.Equal(t, CacheBackendValkey, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.ValkeyAddress)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SnapshotTTL)
	assert.True(t, cfg.Cache.CountListViews)
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{name: "unknown backend", set: map[string]any{"cache_backend": "memcached"}},
		{name: "cache slower than db", set: map[string]any{"cache_timeout": 10 * time.Second}},
		{name: "views outlive snapshots", set: map[string]any{"cache_view_ttl": time.Minute}},
		{name: "short secret", set: map[string]any{"app_secret_key": "short"}},
		{name: "unknown driver", set: map[string]any{"db_driver": "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}
