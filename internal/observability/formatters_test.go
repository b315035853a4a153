package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/mindtype/internal/types"
)

func sampleResult() *types.ClassificationResult {
	var combined types.Vector
	combined[2] = 0.84
	combined[6] = 0.36
	return &types.ClassificationResult{
		FinalTypeID:             5,
		FinalType:               &types.FinalType{ID: 5, Name: "Quiet Fox", OneLiner: "thinks before it leaps"},
		IntermediateScores:      combined,
		DominantIntermediateIDs: []int{3, 7, 3},
		Primary:                 types.RankedType{ID: 3, Name: "Observer", Score: 0.84},
		Secondary:               types.RankedType{ID: 7, Name: "Planner", Score: 0.36},
		CategoryScores: []types.CategoryScore{
			{CategoryID: 1, Scores: combined, Dominant: 3},
		},
		CatalogVersion: "v1",
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(sampleResult())
	output := buf.String()

	assert.Contains(t, output, "CLASSIFICATION RESULT")
	assert.Contains(t, output, "#5 Quiet Fox")
	assert.Contains(t, output, "thinks before it leaps")
	assert.Contains(t, output, "[3 7 3]")
	assert.Contains(t, output, "Observer (0.840)")
	assert.Contains(t, output, "t3=0.840 t7=0.360")
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintTrace(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var weighted types.Vector
	weighted[2] = 0.32
	combined := weighted
	trace := &types.Trace{
		Weights: map[int]float64{1: 0.4, 2: 0.3, 3: 0.2},
		Entries: []types.TraceEntry{
			{Kind: types.TraceSelection, Selection: &types.SelectionTrace{
				CategoryID: 1, Rank: 1, SubKeywordID: 101, SubKeywordName: "calm", Weight: 0.4, Weighted: weighted,
			}},
			{Kind: types.TraceCombined, Combined: &combined},
			{Kind: types.TraceLookup, Lookup: &types.LookupTrace{
				Dominant: []int{5, 4, 9},
				Attempts: []types.LookupAttempt{
					{Key: []int{5, 4, 9}},
					{Key: []int{4, 5, 9}, Sorted: true, Found: true, FinalTypeID: 9},
				},
				Resolved:    true,
				FinalTypeID: 9,
			}},
		},
	}

	p.PrintTrace(trace)
	output := buf.String()

	assert.Contains(t, output, "CLASSIFICATION TRACE")
	assert.Contains(t, output, "Weights: 1=0.40 2=0.30 3=0.20")
	assert.Contains(t, output, "calm (#101) x0.40")
	assert.Contains(t, output, "Combined: t3=0.320")
	assert.Contains(t, output, "ordered [5 4 9] -> miss")
	assert.Contains(t, output, "sorted  [4 5 9] -> final 9")
	assert.NotContains(t, output, "unresolved")
}

func TestPrintTrace_Unresolved(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTrace(&types.Trace{Entries: []types.TraceEntry{
		{Kind: types.TraceLookup, Lookup: &types.LookupTrace{Dominant: []int{1, 1, 16}, Attempts: []types.LookupAttempt{{Key: []int{1, 1, 16}}}}},
	}})
	assert.Contains(t, buf.String(), "unresolved")
}

func TestPrintTrace_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTrace(nil)
	assert.Empty(t, buf.String())
}

func TestPrintFinalTypes(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFinalTypes([]types.FinalType{
		{ID: 1, Name: "Owl", GroupName: "thinkers"},
		{ID: 12, Name: "Otter", OneLiner: "plays first"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, " 1  Owl  [thinkers]", lines[0])
	assert.Equal(t, "12  Otter  plays first", lines[1])
}

func TestPrintCatalogReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCatalogReport("v1", 12, nil)
	assert.Contains(t, buf.String(), "every dominant combination is mapped")

	buf.Reset()
	missing := [][]int{{1, 1, 1}, {1, 1, 2}, {1, 1, 3}, {1, 1, 4}, {1, 1, 5}, {1, 1, 6}, {1, 1, 7}}
	p.PrintCatalogReport("v1", 12, missing)
	output := buf.String()
	assert.Contains(t, output, "7 dominant combinations are unmapped")
	assert.Contains(t, output, "[1 1 1]")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "[1 1 6]")
}
