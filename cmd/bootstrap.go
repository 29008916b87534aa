package cmd

import (
	"context"
	"fmt"

	"spellbook/core/config"
	"spellbook/core/database"
	"spellbook/core/logger"
	"spellbook/core/storage"
	"spellbook/feature/spellcount"
	"spellbook/feature/spellcount/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what every command needs: configuration, logger, database and store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  *spellcount.Store
}

// bootstrap loads the configuration, builds the logger and connects to the database.
// The num_spells maintainer is registered on the connection before it is returned.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Database.IsValidDriver() {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, models.All()...); err != nil {
			return nil, err
		}
		l.Info("Database schema migrated")
	}

	store, err := spellcount.NewStore(db, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &app{cfg: cfg, logger: l, db: db, store: store}, nil
}

// storageClient returns the report storage client, or nil when storage is disabled.
func (a *app) storageClient(ctx context.Context) (storage.Client, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureBucket(ctx, client, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
		return nil, err
	}
	return client, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
