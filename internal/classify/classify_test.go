package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mindtype/internal/catalog"
	ct "github.com/jonathan/mindtype/internal/catalog/catalogtest"
	"github.com/jonathan/mindtype/internal/types"
)

const delta = 1e-9

func scenarioInput() types.SelectionInput {
	return types.SelectionInput{
		ct.Mind:      {ct.KeywordA},
		ct.DailyLife: {ct.KeywordB},
		ct.Leisure:   {ct.KeywordALeisure},
	}
}

func TestClassify_Scenario(t *testing.T) {
	cat := ct.New()

	result, err := Classify(cat, scenarioInput(), false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.InDelta(t, 0.84, result.IntermediateScores.Get(3), delta)
	assert.InDelta(t, 0.36, result.IntermediateScores.Get(7), delta)
	assert.Equal(t, []int{3, 7, 3}, result.DominantIntermediateIDs)
	assert.Equal(t, ct.FinalForScenario, result.FinalTypeID)
	require.NotNil(t, result.FinalType)
	assert.Equal(t, "final-5", result.FinalType.Name)
	assert.Equal(t, "test-1", result.CatalogVersion)
	assert.Nil(t, result.Trace)

	require.Len(t, result.CategoryScores, 3)
	assert.Equal(t, ct.Mind, result.CategoryScores[0].CategoryID)
	assert.InDelta(t, 0.32, result.CategoryScores[0].Scores.Get(3), delta)
	assert.InDelta(t, 0.2, result.CategoryScores[1].Scores.Get(3), delta)
	assert.InDelta(t, 0.36, result.CategoryScores[1].Scores.Get(7), delta)
	assert.Equal(t, 7, result.CategoryScores[1].Dominant)

	assert.Equal(t, 3, result.Primary.ID)
	assert.Equal(t, "intermediate-3", result.Primary.Name)
	assert.InDelta(t, 0.84, result.Primary.Score, delta)
	assert.Equal(t, 7, result.Secondary.ID)
}

func TestClassify_SelectionsAreRanked(t *testing.T) {
	input := scenarioInput()
	input[ct.Mind] = []int{ct.KeywordA, ct.KeywordMindFive, ct.KeywordMindTwo}

	result, err := Classify(ct.New(), input, false)
	require.NoError(t, err)

	want := []types.Selection{
		{CategoryID: ct.Mind, Rank: 1, SubKeywordID: ct.KeywordA},
		{CategoryID: ct.Mind, Rank: 2, SubKeywordID: ct.KeywordMindFive},
		{CategoryID: ct.Mind, Rank: 3, SubKeywordID: ct.KeywordMindTwo},
		{CategoryID: ct.DailyLife, Rank: 1, SubKeywordID: ct.KeywordB},
		{CategoryID: ct.Leisure, Rank: 1, SubKeywordID: ct.KeywordALeisure},
	}
	assert.Equal(t, want, result.Selections)

	mind := result.CategoryScores[0].Scores
	assert.InDelta(t, 0.32, mind.Get(3), delta)
	assert.InDelta(t, 0.3, mind.Get(5), delta)
	assert.InDelta(t, 0.06, mind.Get(2), delta)
	assert.Equal(t, ct.FinalForScenario, result.FinalTypeID)
}

func TestClassify_RankOrderChangesWeights(t *testing.T) {
	cat := ct.NewFull()

	first := scenarioInput()
	first[ct.Mind] = []int{ct.KeywordA, ct.KeywordMindFive}
	second := scenarioInput()
	second[ct.Mind] = []int{ct.KeywordMindFive, ct.KeywordA}

	a, err := Classify(cat, first, false)
	require.NoError(t, err)
	b, err := Classify(cat, second, false)
	require.NoError(t, err)

	assert.Equal(t, 3, a.CategoryScores[0].Dominant)
	assert.Equal(t, 5, b.CategoryScores[0].Dominant)
	assert.InDelta(t, 0.4, b.CategoryScores[0].Scores.Get(5), delta)
	assert.InDelta(t, 0.24, b.CategoryScores[0].Scores.Get(3), delta)
}

func TestClassify_SingleSelectionUsesRankOneWeightOnly(t *testing.T) {
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordMindFive},
		ct.DailyLife: {ct.KeywordDailyFour},
		ct.Leisure:   {ct.KeywordLeisureNine},
	}

	result, err := Classify(ct.New(), input, false)
	require.NoError(t, err)

	assert.InDelta(t, 0.4, result.IntermediateScores.Get(5), delta)
	assert.InDelta(t, 0.4, result.IntermediateScores.Get(4), delta)
	assert.InDelta(t, 0.28, result.IntermediateScores.Get(9), delta)
}

func TestClassify_TieResolvesToLowestID(t *testing.T) {
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordMindTie},
		ct.DailyLife: {ct.KeywordDailyNone},
		ct.Leisure:   {ct.KeywordLeisureNine},
	}

	result, err := Classify(ct.NewFull(), input, false)
	require.NoError(t, err)

	// type1 and type2 tie in mind; daily-life scores nothing at all.
	assert.Equal(t, []int{1, 1, 9}, result.DominantIntermediateIDs)
	assert.Equal(t, 9, result.Primary.ID)
	assert.Equal(t, 1, result.Secondary.ID)
}

func TestClassify_SortedFallback(t *testing.T) {
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordMindFive},
		ct.DailyLife: {ct.KeywordDailyFour},
		ct.Leisure:   {ct.KeywordLeisureNine},
	}

	result, err := Classify(ct.New(), input, true)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 4, 9}, result.DominantIntermediateIDs)
	assert.Equal(t, ct.FinalForSorted, result.FinalTypeID)

	lookup := result.Trace.Entries[len(result.Trace.Entries)-1].Lookup
	require.NotNil(t, lookup)
	want := []types.LookupAttempt{
		{Key: []int{5, 4, 9}, Sorted: false, Found: false},
		{Key: []int{4, 5, 9}, Sorted: true, Found: true, FinalTypeID: ct.FinalForSorted},
	}
	assert.Equal(t, want, lookup.Attempts)
	assert.True(t, lookup.Resolved)
}

func TestClassify_ExactMatchWinsOverSorted(t *testing.T) {
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordMindFive},
		ct.DailyLife: {ct.KeywordDailyEight},
		ct.Leisure:   {ct.KeywordALeisure},
	}

	result, err := Classify(ct.New(), input, true)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 8, 3}, result.DominantIntermediateIDs)
	assert.Equal(t, ct.FinalForExact, result.FinalTypeID)
	assert.NotEqual(t, ct.FinalForDecoy, result.FinalTypeID)

	lookup := result.Trace.Entries[len(result.Trace.Entries)-1].Lookup
	require.Len(t, lookup.Attempts, 1)
	assert.False(t, lookup.Attempts[0].Sorted)
}

func TestClassify_Unmapped(t *testing.T) {
	tests := []struct {
		name   string
		input  types.SelectionInput
		key    []int
		sorted []int
	}{
		{
			name: "unsorted key",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordMindFive},
				ct.DailyLife: {ct.KeywordDailyFour},
				ct.Leisure:   {ct.KeywordLeisureSixTn},
			},
			key:    []int{5, 4, 16},
			sorted: []int{4, 5, 16},
		},
		{
			name: "already sorted key",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordMindTie},
				ct.DailyLife: {ct.KeywordDailyNone},
				ct.Leisure:   {ct.KeywordLeisureSixTn},
			},
			key:    []int{1, 1, 16},
			sorted: []int{1, 1, 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Classify(ct.New(), tt.input, true)
			assert.Nil(t, result)

			var unmapped *catalog.UnmappedCombinationError
			require.ErrorAs(t, err, &unmapped)
			assert.Equal(t, tt.key, unmapped.Key)
			assert.Equal(t, tt.sorted, unmapped.Sorted)
			assert.Equal(t, CodeUnmappedCombination, ErrorCode(err))
		})
	}
}

func TestClassify_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		input types.SelectionInput
		code  string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing category",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordA},
				ct.DailyLife: {ct.KeywordB},
			},
			code: CodeMissingCategory,
			check: func(t *testing.T, err error) {
				var e *MissingCategoryError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, []int{ct.Leisure}, e.Missing)
				assert.Empty(t, e.Unexpected)
			},
		},
		{
			name: "unexpected category",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordA},
				ct.DailyLife: {ct.KeywordB},
				ct.Leisure:   {ct.KeywordALeisure},
				9:            {ct.KeywordA},
			},
			code: CodeMissingCategory,
			check: func(t *testing.T, err error) {
				var e *MissingCategoryError
				require.ErrorAs(t, err, &e)
				assert.Empty(t, e.Missing)
				assert.Equal(t, []int{9}, e.Unexpected)
				assert.Contains(t, err.Error(), "unexpected categories [9]")
			},
		},
		{
			name: "empty category",
			input: types.SelectionInput{
				ct.Mind:      {},
				ct.DailyLife: {ct.KeywordB},
				ct.Leisure:   {ct.KeywordALeisure},
			},
			code: CodeInvalidSelectionCount,
			check: func(t *testing.T, err error) {
				var e *InvalidSelectionCountError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, ct.Mind, e.CategoryID)
				assert.Equal(t, 0, e.Count)
			},
		},
		{
			name: "too many selections",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordA, ct.KeywordMindTie, ct.KeywordMindFive, ct.KeywordMindTwo},
				ct.DailyLife: {ct.KeywordB},
				ct.Leisure:   {ct.KeywordALeisure},
			},
			code: CodeInvalidSelectionCount,
			check: func(t *testing.T, err error) {
				var e *InvalidSelectionCountError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 4, e.Count)
			},
		},
		{
			name: "duplicate keyword",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordA},
				ct.DailyLife: {ct.KeywordB, ct.KeywordB},
				ct.Leisure:   {ct.KeywordALeisure},
			},
			code: CodeDuplicateKeyword,
			check: func(t *testing.T, err error) {
				var e *DuplicateKeywordError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, ct.DailyLife, e.CategoryID)
				assert.Equal(t, ct.KeywordB, e.KeywordID)
			},
		},
		{
			name: "unknown keyword",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordA},
				ct.DailyLife: {ct.KeywordB},
				ct.Leisure:   {999},
			},
			code: CodeUnknownKeyword,
			check: func(t *testing.T, err error) {
				var e *UnknownKeywordError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, ct.Leisure, e.CategoryID)
				assert.Equal(t, 999, e.KeywordID)
			},
		},
		{
			name: "keyword from another category",
			input: types.SelectionInput{
				ct.Mind:      {ct.KeywordB},
				ct.DailyLife: {ct.KeywordDailyFour},
				ct.Leisure:   {ct.KeywordALeisure},
			},
			code: CodeCategoryMismatch,
			check: func(t *testing.T, err error) {
				var e *CategoryMismatchError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, ct.Mind, e.CategoryID)
				assert.Equal(t, ct.KeywordB, e.KeywordID)
				assert.Equal(t, ct.DailyLife, e.ActualCategoryID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Classify(ct.New(), tt.input, false)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.code, ErrorCode(err))

			var inputErr InputError
			assert.ErrorAs(t, err, &inputErr)
			tt.check(t, err)
		})
	}
}

func TestClassify_CountCheckedBeforeDuplicates(t *testing.T) {
	// Mind has a duplicate but daily-life is empty; the count rule runs over every category first.
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordA, ct.KeywordA},
		ct.DailyLife: {},
		ct.Leisure:   {ct.KeywordALeisure},
	}

	_, err := Classify(ct.New(), input, false)
	var e *InvalidSelectionCountError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ct.DailyLife, e.CategoryID)
}

func TestClassify_Deterministic(t *testing.T) {
	cat := ct.NewFull()
	input := types.SelectionInput{
		ct.Mind:      {ct.KeywordMindTwo, ct.KeywordA},
		ct.DailyLife: {ct.KeywordDailyEight, ct.KeywordB, ct.KeywordDailyNone},
		ct.Leisure:   {ct.KeywordLeisureTen, ct.KeywordLeisureNine},
	}

	first, err := Classify(cat, input, true)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Classify(cat, input, true)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("classification not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestClassify_DebugDoesNotChangeResult(t *testing.T) {
	cat := ct.New()

	plain, err := Classify(cat, scenarioInput(), false)
	require.NoError(t, err)
	traced, err := Classify(cat, scenarioInput(), true)
	require.NoError(t, err)

	require.NotNil(t, traced.Trace)
	traced.Trace = nil
	if diff := cmp.Diff(plain, traced); diff != "" {
		t.Errorf("debug changed the result (-plain +traced):\n%s", diff)
	}
}

func TestClassify_TraceShape(t *testing.T) {
	input := scenarioInput()
	input[ct.DailyLife] = []int{ct.KeywordB, ct.KeywordDailyEight}

	result, err := Classify(ct.New(), input, true)
	require.NoError(t, err)
	require.NotNil(t, result.Trace)

	trace := result.Trace
	assert.Equal(t, map[int]float64{1: 0.4, 2: 0.3, 3: 0.2}, trace.Weights)

	// one entry per selection, then the combined vector, then the lookup
	require.Len(t, trace.Entries, 6)
	for i := 0; i < 4; i++ {
		assert.Equal(t, types.TraceSelection, trace.Entries[i].Kind)
		assert.NotNil(t, trace.Entries[i].Selection)
		assert.Nil(t, trace.Entries[i].Combined)
	}
	assert.Equal(t, types.TraceCombined, trace.Entries[4].Kind)
	assert.Equal(t, types.TraceLookup, trace.Entries[5].Kind)

	second := trace.Entries[2].Selection
	assert.Equal(t, ct.DailyLife, second.CategoryID)
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, "eight", second.SubKeywordName)
	assert.InDelta(t, 0.3, second.Weight, delta)
	assert.InDelta(t, 0.6, second.Raw.Get(8), delta)
	assert.InDelta(t, 0.18, second.Weighted.Get(8), delta)
	assert.InDelta(t, 0.36+0.06, second.RunningCategory.Get(7), delta)

	require.NotNil(t, trace.Entries[4].Combined)
	assert.Equal(t, result.IntermediateScores, *trace.Entries[4].Combined)

	lookup := trace.Entries[5].Lookup
	assert.Equal(t, []int{3, 7, 3}, lookup.Dominant)
	assert.True(t, lookup.Resolved)
	assert.Equal(t, ct.FinalForScenario, lookup.FinalTypeID)
}

func TestClassify_SharedCatalogConcurrently(t *testing.T) {
	cat := ct.NewFull()
	done := make(chan *types.ClassificationResult, 16)

	for i := 0; i < 16; i++ {
		go func() {
			r, err := Classify(cat, scenarioInput(), i%2 == 0)
			if err != nil {
				done <- nil
				return
			}
			done <- r
		}()
	}
	for i := 0; i < 16; i++ {
		r := <-done
		require.NotNil(t, r)
		assert.Equal(t, ct.FinalForScenario, r.FinalTypeID)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeInvalidRank, ErrorCode(&catalog.InvalidRankError{Rank: 4}))
	assert.Equal(t, CodeUnmappedCombination, ErrorCode(&catalog.UnmappedCombinationError{Key: []int{1, 2, 3}}))
	assert.Equal(t, CodeDuplicateKeyword, ErrorCode(&DuplicateKeywordError{}))
	assert.Equal(t, CodeInternal, ErrorCode(assert.AnError))
}
