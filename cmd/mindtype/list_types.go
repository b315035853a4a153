package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/observability"
)

var listTypesCmd = &cobra.Command{
	Use:   "list-types",
	Short: "List final (or intermediate) types in the catalog",
	RunE:  runListTypes,
}

var (
	listTypesCatalog      string
	listTypesIntermediate bool
	listTypesJSON         bool
)

func init() {
	listTypesCmd.Flags().StringVarP(&listTypesCatalog, "catalog", "c", "", "Path to a catalog seed file (default: configured source)")
	listTypesCmd.Flags().BoolVar(&listTypesIntermediate, "intermediate", false, "List intermediate types instead of final types")
	listTypesCmd.Flags().BoolVar(&listTypesJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(listTypesCmd)
}

func runListTypes(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg, listTypesCatalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listTypesIntermediate {
		its := cat.IntermediateTypes()
		if listTypesJSON {
			return json.NewEncoder(out).Encode(its)
		}
		for _, it := range its {
			fmt.Fprintf(out, "%2d  %s\n", it.ID, it.Name)
		}
		return nil
	}

	finals := cat.FinalTypes()
	if listTypesJSON {
		return json.NewEncoder(out).Encode(finals)
	}
	observability.NewPrinter(out).PrintFinalTypes(finals)
	return nil
}
