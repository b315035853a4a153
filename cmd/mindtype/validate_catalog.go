package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/observability"
)

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog",
	Short: "Validate catalog integrity and combination coverage",
	Long: "Loads the catalog, reports every integrity problem, and lists dominant type combinations " +
		"that have no final type mapped, even through the sorted fallback.",
	RunE: runValidateCatalog,
}

var (
	validateCatalogPath   string
	validateCatalogStrict bool
)

func init() {
	validateCatalogCmd.Flags().StringVarP(&validateCatalogPath, "catalog", "c", "", "Path to a catalog seed file (default: configured source)")
	validateCatalogCmd.Flags().BoolVar(&validateCatalogStrict, "strict", false, "Fail when any combination is unmapped")
	rootCmd.AddCommand(validateCatalogCmd)
}

func runValidateCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cmd.Context(), cfg, validateCatalogPath)
	if err != nil {
		return err
	}

	keywords := 0
	for _, c := range cat.Categories() {
		keywords += len(cat.KeywordsInCategory(c.ID))
	}

	missing := cat.MissingCombinations()
	observability.NewPrinter(cmd.OutOrStdout()).PrintCatalogReport(cat.Version(), keywords, missing)

	if validateCatalogStrict && len(missing) > 0 {
		return fmt.Errorf("%d dominant combinations are unmapped", len(missing))
	}
	return nil
}
