// Package catalogtest builds small, fully valid catalogs for tests.
package catalogtest

import (
	"fmt"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/types"
)

// Category ids used by the fixture.
const (
	Mind      = 1
	DailyLife = 2
	Leisure   = 3
)

// Sub-keyword ids used by the fixture. KeywordA and KeywordALeisure carry the same scores so a
// test can pick "A" in two categories.
const (
	KeywordA        = 101 // mind: type3 0.8
	KeywordMindTie  = 102 // mind: type1 0.5, type2 0.5
	KeywordMindFive = 103 // mind: type5 1.0
	KeywordMindTwo  = 104 // mind: type2 0.3

	KeywordB          = 201 // daily-life: type3 0.5, type7 0.9
	KeywordDailyEight = 202 // daily-life: type7 0.2, type8 0.6
	KeywordDailyFour  = 203 // daily-life: type4 1.0
	KeywordDailyNone  = 204 // daily-life: no scores

	KeywordALeisure     = 301 // leisure: type3 0.8
	KeywordLeisureNine  = 302 // leisure: type9 0.7
	KeywordLeisureTen   = 303 // leisure: type10 0.4, type3 0.1
	KeywordLeisureSixTn = 304 // leisure: type16 0.9
)

// Final types the fixture maps explicitly.
const (
	FinalForScenario = 5  // (3,7,3)
	FinalForSorted   = 9  // (4,5,9): reached from (5,4,9) through the sorted fallback
	FinalForExact    = 12 // (5,8,3) exact
	FinalForDecoy    = 20 // (3,5,8): sorted form of (5,8,3), must lose to the exact match
)

// Tables returns a catalog with a deliberately sparse combination table.
func Tables() *types.CatalogTables {
	t := &types.CatalogTables{
		Version: "test-1",
		Categories: []types.Category{
			{ID: Mind, Name: "마음", EnglishName: "Mind", DisplayOrder: 1},
			{ID: DailyLife, Name: "일상", EnglishName: "Daily Life", DisplayOrder: 2},
			{ID: Leisure, Name: "여유", EnglishName: "Leisure", DisplayOrder: 3},
		},
		MainKeywords: []types.MainKeyword{
			{ID: 10, CategoryID: Mind, Name: "feelings", DisplayOrder: 1},
			{ID: 20, CategoryID: DailyLife, Name: "routine", DisplayOrder: 1},
			{ID: 30, CategoryID: Leisure, Name: "rest", DisplayOrder: 1},
		},
		SubKeywords: []types.SubKeyword{
			{ID: KeywordA, MainKeywordID: 10, Name: "A", DisplayOrder: 1},
			{ID: KeywordMindTie, MainKeywordID: 10, Name: "tie", DisplayOrder: 2},
			{ID: KeywordMindFive, MainKeywordID: 10, Name: "five", DisplayOrder: 3},
			{ID: KeywordMindTwo, MainKeywordID: 10, Name: "two", DisplayOrder: 4},
			{ID: KeywordB, MainKeywordID: 20, Name: "B", DisplayOrder: 1},
			{ID: KeywordDailyEight, MainKeywordID: 20, Name: "eight", DisplayOrder: 2},
			{ID: KeywordDailyFour, MainKeywordID: 20, Name: "four", DisplayOrder: 3},
			{ID: KeywordDailyNone, MainKeywordID: 20, Name: "none", DisplayOrder: 4},
			{ID: KeywordALeisure, MainKeywordID: 30, Name: "A", DisplayOrder: 1},
			{ID: KeywordLeisureNine, MainKeywordID: 30, Name: "nine", DisplayOrder: 2},
			{ID: KeywordLeisureTen, MainKeywordID: 30, Name: "ten", DisplayOrder: 3},
			{ID: KeywordLeisureSixTn, MainKeywordID: 30, Name: "sixteen", DisplayOrder: 4},
		},
		Scores: []types.KeywordTypeScore{
			{SubKeywordID: KeywordA, IntermediateTypeID: 3, Score: 0.8},
			{SubKeywordID: KeywordMindTie, IntermediateTypeID: 1, Score: 0.5},
			{SubKeywordID: KeywordMindTie, IntermediateTypeID: 2, Score: 0.5},
			{SubKeywordID: KeywordMindFive, IntermediateTypeID: 5, Score: 1.0},
			{SubKeywordID: KeywordMindTwo, IntermediateTypeID: 2, Score: 0.3},
			{SubKeywordID: KeywordB, IntermediateTypeID: 3, Score: 0.5},
			{SubKeywordID: KeywordB, IntermediateTypeID: 7, Score: 0.9},
			{SubKeywordID: KeywordDailyEight, IntermediateTypeID: 7, Score: 0.2},
			{SubKeywordID: KeywordDailyEight, IntermediateTypeID: 8, Score: 0.6},
			{SubKeywordID: KeywordDailyFour, IntermediateTypeID: 4, Score: 1.0},
			{SubKeywordID: KeywordALeisure, IntermediateTypeID: 3, Score: 0.8},
			{SubKeywordID: KeywordLeisureNine, IntermediateTypeID: 9, Score: 0.7},
			{SubKeywordID: KeywordLeisureTen, IntermediateTypeID: 10, Score: 0.4},
			{SubKeywordID: KeywordLeisureTen, IntermediateTypeID: 3, Score: 0.1},
			{SubKeywordID: KeywordLeisureSixTn, IntermediateTypeID: 16, Score: 0.9},
		},
		Combinations: []types.TypeCombination{
			{IntermediateTypeIDs: []int{3, 7, 3}, FinalTypeID: FinalForScenario},
			{IntermediateTypeIDs: []int{4, 5, 9}, FinalTypeID: FinalForSorted},
			{IntermediateTypeIDs: []int{5, 8, 3}, FinalTypeID: FinalForExact},
			{IntermediateTypeIDs: []int{3, 5, 8}, FinalTypeID: FinalForDecoy},
		},
		Weights: []types.CalculationWeight{
			{Rank: 1, Weight: 0.4},
			{Rank: 2, Weight: 0.3},
			{Rank: 3, Weight: 0.2},
		},
	}

	for id := 1; id <= types.IntermediateTypeCount; id++ {
		t.IntermediateTypes = append(t.IntermediateTypes, types.IntermediateType{
			ID: id, Name: fmt.Sprintf("intermediate-%d", id), DisplayOrder: id,
		})
	}
	for id := 1; id <= types.FinalTypeCount; id++ {
		t.FinalTypes = append(t.FinalTypes, types.FinalType{
			ID: id, Name: fmt.Sprintf("final-%d", id),
		})
	}
	return t
}

// FullTables returns Tables with every sorted 3-tuple mapped, so no dominant tuple is unmapped.
func FullTables() *types.CatalogTables {
	t := Tables()
	mapped := make(map[string]bool)
	for _, c := range t.Combinations {
		mapped[catalog.FormatKey(c.IntermediateTypeIDs)] = true
	}
	n := types.IntermediateTypeCount
	for a := 1; a <= n; a++ {
		for b := a; b <= n; b++ {
			for c := b; c <= n; c++ {
				key := []int{a, b, c}
				if mapped[catalog.FormatKey(key)] {
					continue
				}
				t.Combinations = append(t.Combinations, types.TypeCombination{
					IntermediateTypeIDs: key,
					FinalTypeID:         (a+b+c)%types.FinalTypeCount + 1,
				})
			}
		}
	}
	return t
}

// New builds a catalog from Tables and panics if the fixture is invalid.
func New() *catalog.Catalog {
	return mustBuild(Tables())
}

// NewFull builds a catalog from FullTables.
func NewFull() *catalog.Catalog {
	return mustBuild(FullTables())
}

func mustBuild(t *types.CatalogTables) *catalog.Catalog {
	c, err := catalog.New(t)
	if err != nil {
		panic(fmt.Sprintf("catalogtest fixture is invalid: %v", err))
	}
	return c
}
