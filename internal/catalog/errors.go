// Package catalog holds the immutable reference data used to classify keyword selections.
package catalog

import (
	"fmt"
	"strings"
)

// InvalidRankError indicates a weight lookup for a rank outside 1..3.
type InvalidRankError struct {
	Rank int
}

func (e *InvalidRankError) Error() string {
	return fmt.Sprintf("invalid selection rank: %d", e.Rank)
}

// UnmappedCombinationError indicates no final type is mapped for a dominant-type tuple.
// Sorted is set when the order-insensitive fallback was also tried.
type UnmappedCombinationError struct {
	Key    []int
	Sorted []int
}

func (e *UnmappedCombinationError) Error() string {
	if e.Sorted != nil {
		return fmt.Sprintf("no final type mapped for combination %s (sorted %s)", FormatKey(e.Key), FormatKey(e.Sorted))
	}
	return fmt.Sprintf("no final type mapped for combination %s", FormatKey(e.Key))
}

// ValidationError lists every integrity problem found while building a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid catalog:\n")
	for i, p := range e.Problems {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, p))
	}
	return sb.String()
}

// LoadError represents a failure reading catalog tables from a source.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load catalog from %s: %v", e.Source, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
