package classify

import (
	"sort"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/types"
)

// ValidateSelections checks raw input against the catalog and returns ranked selections ordered
// by category display order, then rank. Each rule is applied to every category before the next
// rule runs, so the reported error is the first failing rule.
func ValidateSelections(cat *catalog.Catalog, input types.SelectionInput) ([]types.Selection, error) {
	categories := cat.Categories()

	if err := checkCategories(categories, input); err != nil {
		return nil, err
	}

	for _, c := range categories {
		if n := len(input[c.ID]); n < 1 || n > types.MaxSelectionsPerCat {
			return nil, &InvalidSelectionCountError{CategoryID: c.ID, Count: n}
		}
	}

	for _, c := range categories {
		seen := make(map[int]bool, len(input[c.ID]))
		for _, kw := range input[c.ID] {
			if seen[kw] {
				return nil, &DuplicateKeywordError{CategoryID: c.ID, KeywordID: kw}
			}
			seen[kw] = true
		}
	}

	selections := make([]types.Selection, 0, types.CategoryCount*types.MaxSelectionsPerCat)
	for _, c := range categories {
		for i, kw := range input[c.ID] {
			owner, ok := cat.CategoryOfKeyword(kw)
			if !ok {
				return nil, &UnknownKeywordError{CategoryID: c.ID, KeywordID: kw}
			}
			if owner != c.ID {
				return nil, &CategoryMismatchError{CategoryID: c.ID, KeywordID: kw, ActualCategoryID: owner}
			}
			selections = append(selections, types.Selection{
				CategoryID:   c.ID,
				Rank:         i + 1,
				SubKeywordID: kw,
			})
		}
	}

	return selections, nil
}

func checkCategories(categories []types.Category, input types.SelectionInput) error {
	known := make(map[int]bool, len(categories))
	var missing, unexpected []int
	for _, c := range categories {
		known[c.ID] = true
		if _, ok := input[c.ID]; !ok {
			missing = append(missing, c.ID)
		}
	}
	for id := range input {
		if !known[id] {
			unexpected = append(unexpected, id)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	sort.Ints(missing)
	sort.Ints(unexpected)
	return &MissingCategoryError{Missing: missing, Unexpected: unexpected}
}
