// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/mindtype/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// formatVector lists the non-zero entries of v as "t<id>=<score>".
func formatVector(v types.Vector) string {
	var parts []string
	for i, score := range v {
		if score != 0 {
			parts = append(parts, fmt.Sprintf("t%d=%.3f", i+1, score))
		}
	}
	if len(parts) == 0 {
		return "(all zero)"
	}
	return strings.Join(parts, " ")
}

// PrintResult outputs a human-readable summary of a classification.
func (p *Printer) PrintResult(result *types.ClassificationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	name := ""
	if result.FinalType != nil {
		name = result.FinalType.Name
	}
	sb.WriteString(fmt.Sprintf("Final type:  #%d %s\n", result.FinalTypeID, name))
	if result.FinalType != nil && result.FinalType.OneLiner != "" {
		sb.WriteString(fmt.Sprintf("             %s\n", result.FinalType.OneLiner))
	}
	sb.WriteString(fmt.Sprintf("Dominant:    %v\n", result.DominantIntermediateIDs))
	sb.WriteString(fmt.Sprintf("Primary:     #%d %s (%.3f)\n", result.Primary.ID, result.Primary.Name, result.Primary.Score))
	sb.WriteString(fmt.Sprintf("Secondary:   #%d %s (%.3f)\n", result.Secondary.ID, result.Secondary.Name, result.Secondary.Score))
	if result.CatalogVersion != "" {
		sb.WriteString(fmt.Sprintf("Catalog:     %s\n", result.CatalogVersion))
	}

	if len(result.CategoryScores) > 0 {
		sb.WriteString("\nCategory scores:\n")
		for _, cs := range result.CategoryScores {
			sb.WriteString(fmt.Sprintf("  [%d] dominant %d: %s\n", cs.CategoryID, cs.Dominant, formatVector(cs.Scores)))
		}
	}

	p.printBox("CLASSIFICATION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTrace outputs every step of a debug classification.
func (p *Printer) PrintTrace(trace *types.Trace) {
	if trace == nil || len(trace.Entries) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Weights: 1=%.2f 2=%.2f 3=%.2f\n\n", trace.Weights[1], trace.Weights[2], trace.Weights[3]))

	for _, e := range trace.Entries {
		switch e.Kind {
		case types.TraceSelection:
			s := e.Selection
			sb.WriteString(fmt.Sprintf("• [%d] rank %d: %s (#%d) x%.2f\n", s.CategoryID, s.Rank, s.SubKeywordName, s.SubKeywordID, s.Weight))
			sb.WriteString(fmt.Sprintf("  %s\n", formatVector(s.Weighted)))
		case types.TraceCombined:
			sb.WriteString(fmt.Sprintf("\nCombined: %s\n", formatVector(*e.Combined)))
		case types.TraceLookup:
			l := e.Lookup
			sb.WriteString(fmt.Sprintf("\nLookup %v\n", l.Dominant))
			for _, a := range l.Attempts {
				mode := "ordered"
				if a.Sorted {
					mode = "sorted"
				}
				outcome := "miss"
				if a.Found {
					outcome = fmt.Sprintf("final %d", a.FinalTypeID)
				}
				sb.WriteString(fmt.Sprintf("  %-7s %v -> %s\n", mode, a.Key, outcome))
			}
			if !l.Resolved {
				sb.WriteString("  ⚠ unresolved\n")
			}
		}
	}

	p.printBox("CLASSIFICATION TRACE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFinalTypes outputs the final type catalog as a compact list.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFinalTypes(finals []types.FinalType) {
	for _, ft := range finals {
		fmt.Fprintf(p.out, "%2d  %s", ft.ID, ft.Name)
		if ft.GroupName != "" {
			fmt.Fprintf(p.out, "  [%s]", ft.GroupName)
		}
		if ft.OneLiner != "" {
			fmt.Fprintf(p.out, "  %s", ft.OneLiner)
		}
		fmt.Fprintln(p.out)
	}
}

// PrintCatalogReport outputs a catalog validation summary with a sample of unmapped tuples.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCatalogReport(version string, keywordCount int, missing [][]int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Version:   %s\n", version))
	sb.WriteString(fmt.Sprintf("Keywords:  %d\n", keywordCount))

	if len(missing) == 0 {
		sb.WriteString("\n✅ every dominant combination is mapped")
		p.printBox("CATALOG REPORT", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("\n⚠ %d dominant combinations are unmapped:\n", len(missing)))
	count := min(len(missing), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %v\n", missing[i]))
	}
	if len(missing) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more", len(missing)-maxItemsToShow))
	}
	p.printBox("CATALOG REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
