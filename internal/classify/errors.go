// Package classify turns validated keyword selections into a final character type.
package classify

import (
	"errors"
	"fmt"

	"github.com/jonathan/mindtype/internal/catalog"
)

// Machine-readable error codes surfaced to callers.
const (
	CodeMissingCategory       = "missing_category"
	CodeInvalidSelectionCount = "invalid_selection_count"
	CodeDuplicateKeyword      = "duplicate_keyword"
	CodeUnknownKeyword        = "unknown_keyword"
	CodeCategoryMismatch      = "category_mismatch"
	CodeInvalidRank           = "invalid_rank"
	CodeUnmappedCombination   = "unmapped_combination"
	CodeInternal              = "internal"
)

// InputError is implemented by every error caused by malformed selections. The caller should
// re-prompt the user; no partial result exists.
type InputError interface {
	error
	Code() string
}

// MissingCategoryError indicates the input does not cover exactly the catalog's categories.
type MissingCategoryError struct {
	Missing    []int
	Unexpected []int
}

func (e *MissingCategoryError) Error() string {
	switch {
	case len(e.Missing) > 0 && len(e.Unexpected) > 0:
		return fmt.Sprintf("missing categories %v, unexpected categories %v", e.Missing, e.Unexpected)
	case len(e.Unexpected) > 0:
		return fmt.Sprintf("unexpected categories %v", e.Unexpected)
	default:
		return fmt.Sprintf("missing categories %v", e.Missing)
	}
}

// Code implements InputError.
func (e *MissingCategoryError) Code() string { return CodeMissingCategory }

// InvalidSelectionCountError indicates a category list with fewer than 1 or more than 3 entries.
type InvalidSelectionCountError struct {
	CategoryID int
	Count      int
}

func (e *InvalidSelectionCountError) Error() string {
	return fmt.Sprintf("category %d has %d selections, expected 1 to 3", e.CategoryID, e.Count)
}

// Code implements InputError.
func (e *InvalidSelectionCountError) Code() string { return CodeInvalidSelectionCount }

// DuplicateKeywordError indicates the same sub-keyword was picked twice within one category.
type DuplicateKeywordError struct {
	CategoryID int
	KeywordID  int
}

func (e *DuplicateKeywordError) Error() string {
	return fmt.Sprintf("keyword %d selected more than once in category %d", e.KeywordID, e.CategoryID)
}

// Code implements InputError.
func (e *DuplicateKeywordError) Code() string { return CodeDuplicateKeyword }

// UnknownKeywordError indicates a sub-keyword id that is not in the catalog.
type UnknownKeywordError struct {
	CategoryID int
	KeywordID  int
}

func (e *UnknownKeywordError) Error() string {
	return fmt.Sprintf("unknown keyword %d in category %d", e.KeywordID, e.CategoryID)
}

// Code implements InputError.
func (e *UnknownKeywordError) Code() string { return CodeUnknownKeyword }

// CategoryMismatchError indicates a sub-keyword submitted under a category it does not belong to.
type CategoryMismatchError struct {
	CategoryID       int
	KeywordID        int
	ActualCategoryID int
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("keyword %d belongs to category %d, not %d", e.KeywordID, e.ActualCategoryID, e.CategoryID)
}

// Code implements InputError.
func (e *CategoryMismatchError) Code() string { return CodeCategoryMismatch }

// ErrorCode maps any error returned by Classify to its code.
func ErrorCode(err error) string {
	var inputErr InputError
	if errors.As(err, &inputErr) {
		return inputErr.Code()
	}
	var rankErr *catalog.InvalidRankError
	if errors.As(err, &rankErr) {
		return CodeInvalidRank
	}
	var comboErr *catalog.UnmappedCombinationError
	if errors.As(err, &comboErr) {
		return CodeUnmappedCombination
	}
	return CodeInternal
}
