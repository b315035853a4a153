package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/classify"
	"github.com/jonathan/mindtype/internal/observability"
	"github.com/jonathan/mindtype/internal/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one set of keyword selections",
	Long: `Classify ranked keyword selections against the catalog and print the final type.

Selections are a JSON object of category id to ordered sub-keyword ids, e.g.
  mindtype classify --selections '{"1":[101,102],"2":[201],"3":[301]}'`,
	RunE: runClassify,
}

var (
	classifyCatalog    string
	classifySelections string
	classifyDebug      bool
	classifyJSON       bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyCatalog, "catalog", "c", "", "Path to a catalog seed file (default: configured source)")
	classifyCmd.Flags().StringVarP(&classifySelections, "selections", "s", "", "Selections as JSON (required)")
	classifyCmd.Flags().BoolVar(&classifyDebug, "debug", false, "Include the step-by-step trace")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the result as JSON")

	if err := classifyCmd.MarkFlagRequired("selections"); err != nil {
		panic(fmt.Sprintf("failed to mark selections flag as required: %v", err))
	}

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	var input types.SelectionInput
	if err := json.Unmarshal([]byte(classifySelections), &input); err != nil {
		return fmt.Errorf("invalid --selections: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	cat, err := loadCatalog(cmd.Context(), cfg, classifyCatalog)
	if err != nil {
		return err
	}

	engine := classify.NewEngine(catalog.NewStore(cat), log)
	result, err := engine.Classify(input, classifyDebug)
	if err != nil {
		return fmt.Errorf("classification failed (%s): %w", classify.ErrorCode(err), err)
	}

	if classifyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintResult(result)
	printer.PrintTrace(result.Trace)
	return nil
}
