package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Security SecurityConfig
}

type AppConfig struct {
	Version     string
	Port        string
	Debug       bool
	Environment string
	BasePath    string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB Name for Postgres
	Timeout  time.Duration
}

type CacheConfig struct {
	Backend         string // memory | valkey
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
	Timeout         time.Duration
	SnapshotTTL     time.Duration
	ViewTTL         time.Duration
	RecentSize      int
	CountListViews  bool
}

type SecurityConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

const (
	CacheBackendMemory = "memory"
	CacheBackendValkey = "valkey"
)

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadDotEnv loads a .env file from dir when present. A missing file is not an error.
func LoadDotEnv(dir string) {
	path := ".env"
	if dir != "" && dir != "." {
		path = dir + "/.env"
	}
	if err := godotenv.Load(path); err != nil {
		logrus.Debugf("[Config] No env file at %s", path)
	}
}

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	return LoadFrom(newEnv())
}

// LoadFrom builds the configuration from v. Tests pass their own instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Version:     "v1.0.0",
			Port:        v.GetString("app_port"),
			Debug:       v.GetBool("app_debug"),
			Environment: v.GetString("app_env"),
			BasePath:    v.GetString("app_base_path"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("db_driver"),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			Timeout:  v.GetDuration("db_timeout"),
		},
		Cache: CacheConfig{
			Backend:         v.GetString("cache_backend"),
			ValkeyAddress:   v.GetString("valkey_address"),
			ValkeyPassword:  v.GetString("valkey_password"),
			ValkeyDB:        v.GetInt("valkey_db"),
			ValkeyKeyPrefix: v.GetString("valkey_key_prefix"),
			Timeout:         v.GetDuration("cache_timeout"),
			SnapshotTTL:     v.GetDuration("cache_snapshot_ttl"),
			ViewTTL:         v.GetDuration("cache_view_ttl"),
			RecentSize:      v.GetInt("cache_recent_size"),
			CountListViews:  v.GetBool("cache_count_list_views"),
		},
		Security: SecurityConfig{
			SecretKey: v.GetString("app_secret_key"),
			TokenTTL:  v.GetDuration("app_token_ttl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	Global = cfg
	return cfg, nil
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In("sqlite", "postgres")),
		validation.Field(&c.Database.Name, validation.Required),
		validation.Field(&c.Database.Timeout, validation.Required),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Backend, validation.Required, validation.In(CacheBackendMemory, CacheBackendValkey)),
		validation.Field(&c.Cache.ValkeyAddress, validation.When(c.Cache.Backend == CacheBackendValkey, validation.Required)),
		validation.Field(&c.Cache.Timeout, validation.Required, validation.Max(c.Database.Timeout).Exclusive().Error("must be shorter than the database timeout")),
		validation.Field(&c.Cache.SnapshotTTL, validation.Required),
		validation.Field(&c.Cache.ViewTTL, validation.Required, validation.Min(c.Cache.SnapshotTTL).Error("must not be shorter than the snapshot TTL")),
		validation.Field(&c.Cache.RecentSize, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	return validation.ValidateStruct(&c.Security,
		validation.Field(&c.Security.SecretKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Security.TokenTTL, validation.Required),
	)
}
