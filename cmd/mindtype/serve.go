package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/config"
	"github.com/jonathan/mindtype/internal/db"
	"github.com/jonathan/mindtype/internal/server"
	"github.com/jonathan/mindtype/internal/server/ratelimit"
)

var (
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes keyword browsing and classification endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()

	var database *db.DB
	if cfg.DatabaseURL != "" {
		if database, err = db.Connect(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	var src catalog.Source = catalog.FileSource{Path: cfg.CatalogPath}
	if cfg.CatalogSource == config.SourcePostgres {
		src = db.CatalogSource{DB: database}
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return err
	}
	if missing := cat.MissingCombinations(); len(missing) > 0 {
		log.Warn("catalog has unmapped dominant combinations", "count", len(missing))
	}

	demo, err := cfg.DemoSelectionInput()
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		log.Warn("admin API disabled", "reason", err)
		jwtConfig = nil
	}

	srv, err := server.New(server.Options{
		Port:            cfg.Port,
		Store:           catalog.NewStore(cat),
		Source:          src,
		DB:              database,
		PersistResults:  cfg.PersistResults,
		ResultCacheSize: cfg.ResultCacheSize,
		DemoSelections:  demo,
		RateLimit:       ratelimit.LoadConfig(),
		JWT:             jwtConfig,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
