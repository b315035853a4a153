package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create database tables and optionally seed the catalog",
	Long: "Applies the schema to DATABASE_URL. With --seed, the seed file is validated as a complete " +
		"catalog and then replaces the catalog tables in one transaction.",
	RunE: runMigrate,
}

var (
	migrateSeed string
)

func init() {
	migrateCmd.Flags().StringVar(&migrateSeed, "seed", "", "Catalog seed file to load into the database")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()

	// Validate the seed before touching the database.
	var src catalog.FileSource
	if migrateSeed != "" {
		src = catalog.FileSource{Path: migrateSeed}
		if _, err := catalog.Load(ctx, src); err != nil {
			return err
		}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	log.Info("schema applied")

	if migrateSeed == "" {
		return nil
	}

	tables, err := src.LoadTables(ctx)
	if err != nil {
		return err
	}
	if err := database.SeedCatalog(ctx, tables); err != nil {
		return err
	}
	log.Info("catalog seeded",
		"file", migrateSeed,
		"version", tables.Version,
		"keywords", len(tables.SubKeywords),
		"combinations", len(tables.Combinations),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded catalog %q from %s\n", tables.Version, migrateSeed)
	return nil
}
