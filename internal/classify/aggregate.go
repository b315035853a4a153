package classify

import (
	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/types"
)

// aggregation holds the per-category vectors (in category display order) and their sum.
type aggregation struct {
	categories []types.CategoryScore
	combined   types.Vector
}

// aggregate applies rank weights to each selection's keyword scores. Categories with fewer than
// three picks simply contribute fewer terms; nothing is normalized.
func aggregate(cat *catalog.Catalog, selections []types.Selection, rec recorder) (aggregation, error) {
	var agg aggregation
	index := make(map[int]int)

	for _, c := range cat.Categories() {
		index[c.ID] = len(agg.categories)
		agg.categories = append(agg.categories, types.CategoryScore{CategoryID: c.ID})
	}

	for _, sel := range selections {
		weight, err := cat.WeightForRank(sel.Rank)
		if err != nil {
			return aggregation{}, err
		}

		var raw, weighted types.Vector
		for t := 1; t <= types.IntermediateTypeCount; t++ {
			raw[t-1] = cat.ScoreOf(sel.SubKeywordID, t)
			weighted[t-1] = raw[t-1] * weight
		}

		cs := &agg.categories[index[sel.CategoryID]]
		cs.Scores = cs.Scores.Add(weighted)

		kw, _ := cat.KeywordByID(sel.SubKeywordID)
		rec.selection(types.SelectionTrace{
			CategoryID:      sel.CategoryID,
			Rank:            sel.Rank,
			SubKeywordID:    sel.SubKeywordID,
			SubKeywordName:  kw.Name,
			Weight:          weight,
			Raw:             raw,
			Weighted:        weighted,
			RunningCategory: cs.Scores,
		})
	}

	for i := range agg.categories {
		agg.combined = agg.combined.Add(agg.categories[i].Scores)
	}
	rec.combined(agg.combined)

	return agg, nil
}
