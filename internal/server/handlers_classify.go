package server

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/mindtype/internal/types"
)

// maxRequestBytes bounds the calculate request body.
const maxRequestBytes = 64 << 10

// calculateResponse is a classification result plus its stored id when persistence is on.
type calculateResponse struct {
	*types.ClassificationResult
	ResultID string `json:"result_id,omitempty"`
}

// finalTypeCount is one row of the stats endpoint.
type finalTypeCount struct {
	FinalTypeID int    `json:"final_type_id"`
	Name        string `json:"name"`
	Count       int    `json:"count"`
}

// handleCalculate classifies the posted selections. ?debug=true attaches the trace.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req types.ClassifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if _, err := dec.Token(); err != io.EOF {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "unexpected data after JSON object"})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "selections", Message: "selections are required"})
		return
	}

	debug := req.Debug
	if raw := r.URL.Query().Get("debug"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Field: "debug", Message: "must be a boolean"})
			return
		}
		debug = v
	}

	s.classify(w, r, req.Selections, debug, "Personality calculated successfully")
}

// handleDemo classifies the configured demo selections, or the first keyword of every category.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	input := s.demo
	if input == nil {
		cat := s.store.Current()
		input = firstKeywords(cat.Categories(), cat.KeywordsInCategory)
	}
	s.classify(w, r, input, false, "Demo personality calculated")
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request, input types.SelectionInput, debug bool, message string) {
	cat := s.engine.Catalog()
	key := cacheKey{cat: cat, input: canonicalInput(input), debug: debug}

	var result *types.ClassificationResult
	if s.cache != nil {
		if result, _ = s.cache.get(key); result != nil {
			s.engine.Record(result)
		}
	}
	if result == nil {
		var err error
		result, err = s.engine.ClassifyWith(cat, input, debug)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if s.cache != nil {
			s.cache.add(key, result)
		}
	}

	resp := calculateResponse{ClassificationResult: result}
	if s.persist {
		id, err := s.db.SaveClassification(r.Context(), result)
		if err != nil {
			s.log.Warn("failed to persist classification", "error", err, "final_type_id", result.FinalTypeID)
		} else {
			resp.ResultID = id.String()
		}
	}
	s.success(w, resp, message)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, &ErrUnavailable{Feature: "result lookup"})
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	stored, err := s.db.GetClassification(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if stored == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "result", ID: id.String()})
		return
	}
	s.success(w, stored, "")
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, &ErrUnavailable{Feature: "result statistics"})
		return
	}

	counts, err := s.db.CountByFinalType(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.success(w, statsRows(counts, s.store.Current().FinalTypeByID), "")
}

// firstKeywords selects the first keyword of each category.
func firstKeywords(categories []types.Category, keywords func(int) []types.SubKeyword) types.SelectionInput {
	input := make(types.SelectionInput, len(categories))
	for _, c := range categories {
		if kws := keywords(c.ID); len(kws) > 0 {
			input[c.ID] = []int{kws[0].ID}
		}
	}
	return input
}

// statsRows orders per-final-type counts by id and names them from the catalog.
func statsRows(counts map[int]int, lookup func(int) (types.FinalType, bool)) []finalTypeCount {
	rows := make([]finalTypeCount, 0, len(counts))
	for id, n := range counts {
		row := finalTypeCount{FinalTypeID: id, Count: n}
		if ft, ok := lookup(id); ok {
			row.Name = ft.Name
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b finalTypeCount) int { return a.FinalTypeID - b.FinalTypeID })
	return rows
}
