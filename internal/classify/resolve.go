package classify

import (
	"errors"
	"slices"
	"sort"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/types"
)

// resolution is the resolver's output before it is folded into a ClassificationResult.
type resolution struct {
	finalType *types.FinalType
	dominant  []int
}

// resolve picks each category's dominant type and looks the ordered tuple up in the combination
// table, falling back to the ascending tuple before giving up.
func resolve(cat *catalog.Catalog, agg *aggregation, rec recorder) (resolution, error) {
	dominant := make([]int, len(agg.categories))
	for i := range agg.categories {
		agg.categories[i].Dominant = agg.categories[i].Scores.Dominant()
		dominant[i] = agg.categories[i].Dominant
	}

	lt := types.LookupTrace{Dominant: slices.Clone(dominant)}

	ft, err := tryLookup(cat, dominant, false, &lt)
	sorted := catalog.SortedKey(dominant)
	if err != nil && !slices.Equal(sorted, dominant) {
		ft, err = tryLookup(cat, sorted, true, &lt)
	}
	if err != nil {
		rec.lookup(lt)
		var unmapped *catalog.UnmappedCombinationError
		if errors.As(err, &unmapped) {
			return resolution{}, &catalog.UnmappedCombinationError{Key: dominant, Sorted: sorted}
		}
		return resolution{}, err
	}

	lt.Resolved = true
	lt.FinalTypeID = ft.ID
	rec.lookup(lt)

	return resolution{finalType: ft, dominant: dominant}, nil
}

func tryLookup(cat *catalog.Catalog, key []int, sorted bool, lt *types.LookupTrace) (*types.FinalType, error) {
	ft, err := cat.CombinationFinalType(key)
	attempt := types.LookupAttempt{Key: slices.Clone(key), Sorted: sorted, Found: err == nil}
	if ft != nil {
		attempt.FinalTypeID = ft.ID
	}
	lt.Attempts = append(lt.Attempts, attempt)
	return ft, err
}

// topTwo ranks the combined vector descending; equal scores keep the lower id first.
func topTwo(cat *catalog.Catalog, combined types.Vector) (types.RankedType, types.RankedType) {
	ids := make([]int, types.IntermediateTypeCount)
	for i := range ids {
		ids[i] = i + 1
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return combined.Get(ids[i]) > combined.Get(ids[j])
	})

	ranked := func(id int) types.RankedType {
		it, _ := cat.IntermediateTypeByID(id)
		return types.RankedType{ID: id, Name: it.Name, Score: combined.Get(id)}
	}
	return ranked(ids[0]), ranked(ids[1])
}
