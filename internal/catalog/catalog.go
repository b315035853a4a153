package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/mindtype/internal/types"
)

// DefaultWeights are applied when the weight table is empty.
var DefaultWeights = map[int]float64{1: 0.4, 2: 0.3, 3: 0.2}

// Catalog is an immutable snapshot of the reference tables. All methods are safe for
// concurrent use because nothing mutates a Catalog after New returns.
type Catalog struct {
	version string

	categories   []types.Category
	categoryByID map[int]int

	mainKeywords       map[int]types.MainKeyword
	subKeywords        map[int]types.SubKeyword
	keywordCategory    map[int]int
	keywordsByCategory map[int][]types.SubKeyword

	intermediate []types.IntermediateType
	finalTypes   []types.FinalType
	scores       map[int]types.Vector
	combinations map[string]int
	weights      map[int]float64
}

// New validates the tables and builds a snapshot. Every problem found is reported at once.
func New(t *types.CatalogTables) (*Catalog, error) {
	if t == nil {
		return nil, &ValidationError{Problems: []string{"catalog tables are nil"}}
	}

	b := &builder{c: &Catalog{
		version:            t.Version,
		categoryByID:       make(map[int]int),
		mainKeywords:       make(map[int]types.MainKeyword),
		subKeywords:        make(map[int]types.SubKeyword),
		keywordCategory:    make(map[int]int),
		keywordsByCategory: make(map[int][]types.SubKeyword),
		scores:             make(map[int]types.Vector),
		combinations:       make(map[string]int),
		weights:            make(map[int]float64),
	}}

	b.categories(t.Categories)
	b.keywords(t.MainKeywords, t.SubKeywords)
	b.intermediateTypes(t.IntermediateTypes)
	b.finalTypes(t.FinalTypes)
	b.scores(t.Scores)
	b.combinations(t.Combinations)
	b.weights(t.Weights)

	if len(b.problems) > 0 {
		return nil, &ValidationError{Problems: b.problems}
	}
	return b.c, nil
}

// Version returns the version label the tables were loaded with.
func (c *Catalog) Version() string {
	return c.version
}

// Categories returns the categories in display order (mind, daily-life, leisure).
func (c *Catalog) Categories() []types.Category {
	return slices.Clone(c.categories)
}

// CategoryByID returns the category with the given id.
func (c *Catalog) CategoryByID(id int) (types.Category, bool) {
	idx, ok := c.categoryByID[id]
	if !ok {
		return types.Category{}, false
	}
	return c.categories[idx], true
}

// KeywordByID returns the sub-keyword with the given id.
func (c *Catalog) KeywordByID(id int) (types.SubKeyword, bool) {
	k, ok := c.subKeywords[id]
	return k, ok
}

// CategoryOfKeyword returns the category id the sub-keyword belongs to.
func (c *Catalog) CategoryOfKeyword(id int) (int, bool) {
	cat, ok := c.keywordCategory[id]
	return cat, ok
}

// MainKeywordByID returns the main keyword with the given id.
func (c *Catalog) MainKeywordByID(id int) (types.MainKeyword, bool) {
	m, ok := c.mainKeywords[id]
	return m, ok
}

// KeywordsInCategory returns the category's sub-keywords ordered by main keyword then
// sub-keyword display order.
func (c *Catalog) KeywordsInCategory(categoryID int) []types.SubKeyword {
	return slices.Clone(c.keywordsByCategory[categoryID])
}

// CategoryKeywords returns the category joined with its selectable keywords for browsing.
func (c *Catalog) CategoryKeywords(categoryID int) (types.CategoryKeywords, bool) {
	cat, ok := c.CategoryByID(categoryID)
	if !ok {
		return types.CategoryKeywords{}, false
	}
	out := types.CategoryKeywords{
		ID:          cat.ID,
		Name:        cat.Name,
		EnglishName: cat.EnglishName,
		Description: cat.Description,
		Instruction: cat.Instruction,
		Keywords:    make([]types.KeywordItem, 0, len(c.keywordsByCategory[categoryID])),
	}
	for _, kw := range c.keywordsByCategory[categoryID] {
		out.Keywords = append(out.Keywords, types.KeywordItem{
			ID:          kw.ID,
			Name:        kw.Name,
			MainKeyword: c.mainKeywords[kw.MainKeywordID].Name,
		})
	}
	return out, true
}

// IntermediateTypes returns the intermediate types ordered by id 1..16.
func (c *Catalog) IntermediateTypes() []types.IntermediateType {
	return slices.Clone(c.intermediate)
}

// IntermediateTypeByID returns the intermediate type with the given id.
func (c *Catalog) IntermediateTypeByID(id int) (types.IntermediateType, bool) {
	if id < 1 || id > len(c.intermediate) {
		return types.IntermediateType{}, false
	}
	return c.intermediate[id-1], true
}

// FinalTypes returns the final types ordered by id.
func (c *Catalog) FinalTypes() []types.FinalType {
	return slices.Clone(c.finalTypes)
}

// FinalTypeByID returns the final type with the given id.
func (c *Catalog) FinalTypeByID(id int) (types.FinalType, bool) {
	if id < 1 || id > len(c.finalTypes) {
		return types.FinalType{}, false
	}
	return c.finalTypes[id-1], true
}

// ScoreOf returns the score of a sub-keyword toward an intermediate type. Missing pairs score 0.
func (c *Catalog) ScoreOf(subKeywordID, intermediateTypeID int) float64 {
	v, ok := c.scores[subKeywordID]
	if !ok {
		return 0
	}
	return v.Get(intermediateTypeID)
}

// WeightForRank returns the multiplier for a 1-based selection rank.
func (c *Catalog) WeightForRank(rank int) (float64, error) {
	w, ok := c.weights[rank]
	if !ok {
		return 0, &InvalidRankError{Rank: rank}
	}
	return w, nil
}

// Weights returns a copy of the rank -> weight table.
func (c *Catalog) Weights() map[int]float64 {
	out := make(map[int]float64, len(c.weights))
	for k, v := range c.weights {
		out[k] = v
	}
	return out
}

// CombinationFinalType resolves the exact tuple to its final type.
func (c *Catalog) CombinationFinalType(ids []int) (*types.FinalType, error) {
	finalID, ok := c.combinations[FormatKey(ids)]
	if !ok {
		return nil, &UnmappedCombinationError{Key: slices.Clone(ids)}
	}
	ft := c.finalTypes[finalID-1]
	return &ft, nil
}

// MissingCombinations returns every ordered dominant tuple that resolves neither exactly nor
// through its sorted form.
func (c *Catalog) MissingCombinations() [][]int {
	var missing [][]int
	n := len(c.intermediate)
	for a := 1; a <= n; a++ {
		for b := 1; b <= n; b++ {
			for d := 1; d <= n; d++ {
				key := []int{a, b, d}
				if _, ok := c.combinations[FormatKey(key)]; ok {
					continue
				}
				if _, ok := c.combinations[FormatKey(SortedKey(key))]; ok {
					continue
				}
				missing = append(missing, key)
			}
		}
	}
	return missing
}

// FormatKey renders a combination tuple as "3-7-3".
func FormatKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "-")
}

// SortedKey returns an ascending copy of ids.
func SortedKey(ids []int) []int {
	out := slices.Clone(ids)
	sort.Ints(out)
	return out
}

type builder struct {
	c        *Catalog
	problems []string
}

func (b *builder) fail(format string, args ...any) {
	b.problems = append(b.problems, fmt.Sprintf(format, args...))
}

func (b *builder) categories(cats []types.Category) {
	if len(cats) != types.CategoryCount {
		b.fail("expected %d categories, got %d", types.CategoryCount, len(cats))
	}
	sorted := slices.Clone(cats)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	for _, cat := range sorted {
		if _, dup := b.c.categoryByID[cat.ID]; dup {
			b.fail("duplicate category id %d", cat.ID)
			continue
		}
		b.c.categoryByID[cat.ID] = len(b.c.categories)
		b.c.categories = append(b.c.categories, cat)
	}
}

func (b *builder) keywords(mains []types.MainKeyword, subs []types.SubKeyword) {
	for _, m := range mains {
		if _, dup := b.c.mainKeywords[m.ID]; dup {
			b.fail("duplicate main keyword id %d", m.ID)
			continue
		}
		if _, ok := b.c.categoryByID[m.CategoryID]; !ok {
			b.fail("main keyword %d references unknown category %d", m.ID, m.CategoryID)
			continue
		}
		b.c.mainKeywords[m.ID] = m
	}

	for _, s := range subs {
		if _, dup := b.c.subKeywords[s.ID]; dup {
			b.fail("duplicate sub keyword id %d", s.ID)
			continue
		}
		main, ok := b.c.mainKeywords[s.MainKeywordID]
		if !ok {
			b.fail("sub keyword %d references unknown main keyword %d", s.ID, s.MainKeywordID)
			continue
		}
		b.c.subKeywords[s.ID] = s
		b.c.keywordCategory[s.ID] = main.CategoryID
		b.c.keywordsByCategory[main.CategoryID] = append(b.c.keywordsByCategory[main.CategoryID], s)
	}

	for catID, list := range b.c.keywordsByCategory {
		sort.SliceStable(list, func(i, j int) bool {
			mi, mj := b.c.mainKeywords[list[i].MainKeywordID], b.c.mainKeywords[list[j].MainKeywordID]
			if mi.DisplayOrder != mj.DisplayOrder {
				return mi.DisplayOrder < mj.DisplayOrder
			}
			if mi.ID != mj.ID {
				return mi.ID < mj.ID
			}
			if list[i].DisplayOrder != list[j].DisplayOrder {
				return list[i].DisplayOrder < list[j].DisplayOrder
			}
			return list[i].ID < list[j].ID
		})
		b.c.keywordsByCategory[catID] = list
	}
}

func (b *builder) intermediateTypes(its []types.IntermediateType) {
	if len(its) != types.IntermediateTypeCount {
		b.fail("expected %d intermediate types, got %d", types.IntermediateTypeCount, len(its))
		return
	}
	b.c.intermediate = make([]types.IntermediateType, types.IntermediateTypeCount)
	seen := make(map[int]bool)
	for _, it := range its {
		if it.ID < 1 || it.ID > types.IntermediateTypeCount {
			b.fail("intermediate type id %d out of range 1..%d", it.ID, types.IntermediateTypeCount)
			continue
		}
		if seen[it.ID] {
			b.fail("duplicate intermediate type id %d", it.ID)
			continue
		}
		seen[it.ID] = true
		b.c.intermediate[it.ID-1] = it
	}
}

func (b *builder) finalTypes(fts []types.FinalType) {
	if len(fts) != types.FinalTypeCount {
		b.fail("expected %d final types, got %d", types.FinalTypeCount, len(fts))
		return
	}
	b.c.finalTypes = make([]types.FinalType, types.FinalTypeCount)
	seen := make(map[int]bool)
	for _, ft := range fts {
		if ft.ID < 1 || ft.ID > types.FinalTypeCount {
			b.fail("final type id %d out of range 1..%d", ft.ID, types.FinalTypeCount)
			continue
		}
		if seen[ft.ID] {
			b.fail("duplicate final type id %d", ft.ID)
			continue
		}
		seen[ft.ID] = true
		b.c.finalTypes[ft.ID-1] = ft
	}
}

func (b *builder) scores(rows []types.KeywordTypeScore) {
	seen := make(map[[2]int]bool)
	for _, row := range rows {
		if _, ok := b.c.subKeywords[row.SubKeywordID]; !ok {
			b.fail("score references unknown sub keyword %d", row.SubKeywordID)
			continue
		}
		if row.IntermediateTypeID < 1 || row.IntermediateTypeID > types.IntermediateTypeCount {
			b.fail("score for sub keyword %d references unknown intermediate type %d", row.SubKeywordID, row.IntermediateTypeID)
			continue
		}
		pair := [2]int{row.SubKeywordID, row.IntermediateTypeID}
		if seen[pair] {
			b.fail("duplicate score for sub keyword %d and intermediate type %d", row.SubKeywordID, row.IntermediateTypeID)
			continue
		}
		seen[pair] = true
		v := b.c.scores[row.SubKeywordID]
		v[row.IntermediateTypeID-1] = row.Score
		b.c.scores[row.SubKeywordID] = v
	}
}

func (b *builder) combinations(rows []types.TypeCombination) {
	for _, row := range rows {
		if len(row.IntermediateTypeIDs) == 0 {
			b.fail("combination for final type %d has an empty key", row.FinalTypeID)
			continue
		}
		valid := true
		for _, id := range row.IntermediateTypeIDs {
			if id < 1 || id > types.IntermediateTypeCount {
				b.fail("combination %s references unknown intermediate type %d", FormatKey(row.IntermediateTypeIDs), id)
				valid = false
			}
		}
		if row.FinalTypeID < 1 || row.FinalTypeID > types.FinalTypeCount {
			b.fail("combination %s references unknown final type %d", FormatKey(row.IntermediateTypeIDs), row.FinalTypeID)
			valid = false
		}
		if !valid {
			continue
		}
		key := FormatKey(row.IntermediateTypeIDs)
		if existing, dup := b.c.combinations[key]; dup {
			b.fail("combination %s mapped twice (final types %d and %d)", key, existing, row.FinalTypeID)
			continue
		}
		b.c.combinations[key] = row.FinalTypeID
	}
}

func (b *builder) weights(rows []types.CalculationWeight) {
	if len(rows) == 0 {
		for rank, w := range DefaultWeights {
			b.c.weights[rank] = w
		}
		return
	}
	for _, row := range rows {
		if row.Rank < 1 || row.Rank > types.MaxSelectionsPerCat {
			b.fail("weight rank %d out of range 1..%d", row.Rank, types.MaxSelectionsPerCat)
			continue
		}
		if _, dup := b.c.weights[row.Rank]; dup {
			b.fail("duplicate weight for rank %d", row.Rank)
			continue
		}
		b.c.weights[row.Rank] = row.Weight
	}
	for rank := 1; rank <= types.MaxSelectionsPerCat; rank++ {
		if _, ok := b.c.weights[rank]; !ok {
			b.fail("weight table is missing rank %d", rank)
		}
	}
}
