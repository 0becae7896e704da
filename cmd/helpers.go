package cmd

import (
	"context"
	"fmt"

	"github.com/AzielCF/az-press/core/bootstrap"
	coreconfig "github.com/AzielCF/az-press/core/config"
	coreDB "github.com/AzielCF/az-press/core/database"
	"github.com/sirupsen/logrus"
)

// openContainer connects to the database and the cache and wires the services.
// The caller must Close the container.
func openContainer(ctx context.Context) (*bootstrap.Container, error) {
	cfg := coreconfig.Global
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	coreDB.GlobalDB = db

	c, err := bootstrap.Open(ctx, cfg, db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	logrus.Debugf("[APP] Services ready (db=%s, cache=%s)", cfg.Database.Driver, cfg.Cache.Backend)
	return c, nil
}
