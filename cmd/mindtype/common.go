package main

import (
	"context"
	"fmt"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/config"
	"github.com/jonathan/mindtype/internal/db"
	"github.com/jonathan/mindtype/internal/logger"
)

// loadConfig resolves the effective configuration from --config and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the service logger. Tool commands stay quiet unless --verbose is set.
func newLogger(cfg *config.Config, quiet bool) (*logger.Logger, error) {
	switch {
	case verbose:
		return logger.New(cfg.LogMode, "debug")
	case quiet:
		return logger.Nop(), nil
	default:
		return logger.New(cfg.LogMode, cfg.LogLevel)
	}
}

// catalogSource picks where the catalog comes from. An explicit path always means a seed file;
// otherwise the configured source is used. The returned DB is non-nil when a connection was
// opened and must be closed by the caller.
func catalogSource(ctx context.Context, cfg *config.Config, path string) (catalog.Source, *db.DB, error) {
	if path != "" {
		return catalog.FileSource{Path: path}, nil, nil
	}
	if cfg.CatalogSource == config.SourcePostgres {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.CatalogSource{DB: database}, database, nil
	}
	return catalog.FileSource{Path: cfg.CatalogPath}, nil, nil
}

// loadCatalog loads and validates a catalog snapshot.
func loadCatalog(ctx context.Context, cfg *config.Config, path string) (*catalog.Catalog, error) {
	src, database, err := catalogSource(ctx, cfg, path)
	if err != nil {
		return nil, err
	}
	if database != nil {
		defer database.Close()
	}
	return catalog.Load(ctx, src)
}
