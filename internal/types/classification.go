package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Vector holds one score per intermediate type; index i is intermediate type id i+1.
type Vector [IntermediateTypeCount]float64

// Get returns the score of the given intermediate type id, or 0 for ids out of range.
func (v Vector) Get(typeID int) float64 {
	if typeID < 1 || typeID > IntermediateTypeCount {
		return 0
	}
	return v[typeID-1]
}

// Add returns the element-wise sum of v and other.
func (v Vector) Add(other Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out
}

// Dominant returns the id of the highest-scoring intermediate type. Ties resolve to the lowest id.
func (v Vector) Dominant() int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best + 1
}

// SelectionInput is the raw user input: category id -> ordered sub-keyword ids.
type SelectionInput map[int][]int

// UnmarshalJSON decodes the category object, rejecting a category that appears twice
// ("1" and "01" included) instead of letting the last one win.
func (s *SelectionInput) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("selections must be an object keyed by category id")
	}

	out := SelectionInput{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		categoryID, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("category id %q is not an integer", key)
		}
		if _, dup := out[categoryID]; dup {
			return fmt.Errorf("duplicate category %d", categoryID)
		}
		var ids []int
		if err := dec.Decode(&ids); err != nil {
			return fmt.Errorf("category %d: %w", categoryID, err)
		}
		out[categoryID] = ids
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Selection is one validated, ranked pick within a category.
type Selection struct {
	CategoryID   int `json:"category_id"`
	Rank         int `json:"rank"`
	SubKeywordID int `json:"sub_keyword_id"`
}

// RankedType is an intermediate type together with its combined score.
type RankedType struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// CategoryScore is the score vector accumulated from one category's selections.
type CategoryScore struct {
	CategoryID int    `json:"category_id"`
	Scores     Vector `json:"scores"`
	Dominant   int    `json:"dominant_intermediate_id"`
}

// ClassificationResult is the output of one classification.
type ClassificationResult struct {
	FinalTypeID             int             `json:"final_type_id"`
	FinalType               *FinalType      `json:"final_type,omitempty"`
	IntermediateScores      Vector          `json:"intermediate_scores"`
	CategoryScores          []CategoryScore `json:"category_scores"`
	DominantIntermediateIDs []int           `json:"dominant_intermediate_ids"`
	Primary                 RankedType      `json:"primary_type"`
	Secondary               RankedType      `json:"secondary_type"`
	Selections              []Selection     `json:"selections"`
	CatalogVersion          string          `json:"catalog_version,omitempty"`
	Trace                   *Trace          `json:"trace,omitempty"`
}

// ClassifyRequest is the HTTP request body for a classification.
type ClassifyRequest struct {
	Selections SelectionInput `json:"selections" validate:"required"`
	Debug      bool           `json:"debug,omitempty"`
}

// Validate checks the request shape. Selection-level rules are enforced by the engine.
func (r *ClassifyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
