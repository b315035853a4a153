package types

// TraceEntryKind identifies what a trace entry records.
type TraceEntryKind string

// Trace entry kinds, in the order they appear in a trace.
const (
	TraceSelection TraceEntryKind = "selection"
	TraceCombined  TraceEntryKind = "combined"
	TraceLookup    TraceEntryKind = "lookup"
)

// Trace is the ordered record of a debug classification.
type Trace struct {
	Weights map[int]float64 `json:"weights_used"`
	Entries []TraceEntry    `json:"entries"`
}

// TraceEntry is one step. Exactly one of the payload fields is set, matching Kind.
type TraceEntry struct {
	Kind      TraceEntryKind  `json:"kind"`
	Selection *SelectionTrace `json:"selection,omitempty"`
	Combined  *Vector         `json:"combined,omitempty"`
	Lookup    *LookupTrace    `json:"lookup,omitempty"`
}

// SelectionTrace records how one selection contributed to its category vector.
type SelectionTrace struct {
	CategoryID      int     `json:"category_id"`
	Rank            int     `json:"rank"`
	SubKeywordID    int     `json:"sub_keyword_id"`
	SubKeywordName  string  `json:"sub_keyword_name"`
	Weight          float64 `json:"weight"`
	Raw             Vector  `json:"raw_scores"`
	Weighted        Vector  `json:"weighted_scores"`
	RunningCategory Vector  `json:"running_category_scores"`
}

// LookupAttempt is one try against the combination table.
type LookupAttempt struct {
	Key         []int `json:"key"`
	Sorted      bool  `json:"sorted"`
	Found       bool  `json:"found"`
	FinalTypeID int   `json:"final_type_id,omitempty"`
}

// LookupTrace records the dominant tuple and every combination lookup attempt.
type LookupTrace struct {
	Dominant    []int           `json:"dominant_intermediate_ids"`
	Attempts    []LookupAttempt `json:"attempts"`
	Resolved    bool            `json:"resolved"`
	FinalTypeID int             `json:"final_type_id,omitempty"`
}
