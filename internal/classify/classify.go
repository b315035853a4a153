package classify

import (
	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/types"
)

// Classify validates input against cat, aggregates weighted keyword scores and resolves the
// final type. With debug set the result carries a trace of every step. Classify has no side
// effects and is safe to call concurrently on a shared catalog.
func Classify(cat *catalog.Catalog, input types.SelectionInput, debug bool) (*types.ClassificationResult, error) {
	selections, err := ValidateSelections(cat, input)
	if err != nil {
		return nil, err
	}

	var rec recorder = nopRecorder{}
	if debug {
		rec = newTraceRecorder(cat.Weights())
	}

	agg, err := aggregate(cat, selections, rec)
	if err != nil {
		return nil, err
	}

	res, err := resolve(cat, &agg, rec)
	if err != nil {
		return nil, err
	}

	primary, secondary := topTwo(cat, agg.combined)

	return &types.ClassificationResult{
		FinalTypeID:             res.finalType.ID,
		FinalType:               res.finalType,
		IntermediateScores:      agg.combined,
		CategoryScores:          agg.categories,
		DominantIntermediateIDs: res.dominant,
		Primary:                 primary,
		Secondary:               secondary,
		Selections:              selections,
		CatalogVersion:          cat.Version(),
		Trace:                   rec.result(),
	}, nil
}
