package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// newEnv returns a viper instance reading APP_PORT and friends from the
// environment, keyed in lower case ("app_port").
func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_port", "3000")
	v.SetDefault("app_debug", false)
	v.SetDefault("app_env", "development")
	v.SetDefault("app_base_path", "")
	v.SetDefault("app_secret_key", "changeme_please_change_me_in_prod_12345")
	v.SetDefault("app_token_ttl", 30*time.Minute)

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", filepath.Join("storages", "press.db"))
	v.SetDefault("db_timeout", 10*time.Second)

	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("valkey_address", "localhost:6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_db", 0)
	v.SetDefault("valkey_key_prefix", "")
	v.SetDefault("cache_timeout", 2*time.Second)
	v.SetDefault("cache_snapshot_ttl", time.Hour)
	v.SetDefault("cache_view_ttl", 24*time.Hour)
	v.SetDefault("cache_recent_size", 10)
	v.SetDefault("cache_count_list_views", false)
}

// GetAllSettings returns the non-secret settings currently loaded in memory.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":              Global.App.Debug,
		"app_version":            Global.App.Version,
		"db_driver":              Global.Database.Driver,
		"cache_backend":          Global.Cache.Backend,
		"cache_timeout":          Global.Cache.Timeout.String(),
		"cache_snapshot_ttl":     Global.Cache.SnapshotTTL.String(),
		"cache_view_ttl":         Global.Cache.ViewTTL.String(),
		"cache_recent_size":      Global.Cache.RecentSize,
		"cache_count_list_views": Global.Cache.CountListViews,
	}
}
