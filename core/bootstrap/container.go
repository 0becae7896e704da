package bootstrap

import (
	"context"
	"fmt"

	articleApp "github.com/AzielCF/az-press/articles/application"
	articleRepo "github.com/AzielCF/az-press/articles/repository"
	authApp "github.com/AzielCF/az-press/auth/application"
	"github.com/AzielCF/az-press/auth/security"
	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	cacheRepo "github.com/AzielCF/az-press/caching/repository"
	commentApp "github.com/AzielCF/az-press/comments/application"
	commentRepo "github.com/AzielCF/az-press/comments/repository"
	"github.com/AzielCF/az-press/core/config"
	"github.com/AzielCF/az-press/infrastructure/valkey"
	userApp "github.com/AzielCF/az-press/users/application"
	userRepo "github.com/AzielCF/az-press/users/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container holds every service of the process, wired once at startup and
// shared by the REST server and the CLI commands.
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	CacheBackend cacheDomain.Backend
	Store        *cacheApp.Store
	Counters     *cacheApp.Counters
	Registry     *cacheApp.Registry
	Coordinator  *cacheApp.Coordinator
	Maintenance  *cacheApp.Maintenance

	Users    *userApp.Service
	Articles *articleApp.Service
	Comments *commentApp.Service
	Auth     *authApp.AuthService

	valkeyClient *valkey.Client
}

// NewCacheBackend opens the backend selected by cfg.Cache.Backend. The returned
// client is nil for the memory backend. An unreachable Valkey server is not an
// error: the backend degrades until the client reconnects.
func NewCacheBackend(cfg *config.Config, clock cacheDomain.Clock) (cacheDomain.Backend, *valkey.Client, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendValkey:
		client := valkey.Dial(valkey.Config{
			Address:        cfg.Cache.ValkeyAddress,
			Password:       cfg.Cache.ValkeyPassword,
			DB:             cfg.Cache.ValkeyDB,
			KeyPrefix:      cfg.Cache.ValkeyKeyPrefix,
			ConnectTimeout: cfg.Cache.Timeout,
			CommandTimeout: cfg.Cache.Timeout,
		})
		logrus.Infof("[Bootstrap] Cache backend: valkey at %s", cfg.Cache.ValkeyAddress)
		return cacheRepo.NewValkeyBackend(client), client, nil
	case config.CacheBackendMemory, "":
		logrus.Info("[Bootstrap] Cache backend: in-process memory")
		return cacheRepo.NewMemoryBackend(clock), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// New migrates the schema and wires the services on top of db and backend.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, backend cacheDomain.Backend, clock cacheDomain.Clock) (*Container, error) {
	users := userRepo.NewUserGormRepository(db)
	articles := articleRepo.NewArticleGormRepository(db)
	comments := commentRepo.NewCommentGormRepository(db)

	migrations := []struct {
		name string
		run  func(context.Context) error
	}{
		{"users", users.InitSchema},
		{"articles", articles.InitSchema},
		{"comments", comments.InitSchema},
	}
	for _, m := range migrations {
		if err := m.run(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate %s: %w", m.name, err)
		}
	}

	store := cacheApp.NewStore(backend, clock)
	counters := cacheApp.NewCounters(backend, cfg.Cache.ViewTTL)
	registry := cacheApp.NewRegistry(backend)
	coordinator := cacheApp.NewCoordinator(store, counters, cfg.Cache.SnapshotTTL).
		WithLoadTimeout(cfg.Database.Timeout)

	c := &Container{
		Config:       cfg,
		DB:           db,
		CacheBackend: backend,
		Store:        store,
		Counters:     counters,
		Registry:     registry,
		Coordinator:  coordinator,
		Maintenance:  cacheApp.NewMaintenance(cfg.Cache.Backend, backend, store, counters),
		Users:        userApp.NewService(users, coordinator),
		Articles: articleApp.NewService(articles, coordinator, articleApp.Options{
			RecentSize:     cfg.Cache.RecentSize,
			CountListViews: cfg.Cache.CountListViews,
		}),
		Comments: commentApp.NewService(comments, coordinator),
	}

	signer := security.NewSigner(cfg.Security.SecretKey, cfg.Security.TokenTTL)
	c.Auth = authApp.NewAuthService(users, signer, registry)
	return c, nil
}

// Open builds a container from cfg, connecting to the configured cache.
func Open(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Container, error) {
	backend, client, err := NewCacheBackend(cfg, nil)
	if err != nil {
		return nil, err
	}
	c, err := New(ctx, cfg, db, backend, nil)
	if err != nil {
		if client != nil {
			client.Close()
		}
		return nil, err
	}
	c.valkeyClient = client
	return c, nil
}

// Close releases the cache connection and the database pool.
func (c *Container) Close() {
	if c.valkeyClient != nil {
		c.valkeyClient.Close()
	}
	if sqlDB, err := c.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Warn("[Bootstrap] Failed to close database")
		}
	}
}
