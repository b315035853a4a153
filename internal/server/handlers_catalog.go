package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/mindtype/internal/types"
)

// handleListKeywords returns every category with its selectable keywords.
func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	cat := s.store.Current()
	categories := cat.Categories()

	out := make([]types.CategoryKeywords, 0, len(categories))
	for _, c := range categories {
		ck, _ := cat.CategoryKeywords(c.ID)
		out = append(out, ck)
	}
	s.success(w, out, "")
}

func (s *Server) handleCategoryKeywords(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "category_id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ck, ok := s.store.Current().CategoryKeywords(id)
	if !ok {
		s.errorResponse(w, &ErrNotFound{Resource: "category", ID: strconv.Itoa(id)})
		return
	}
	s.success(w, ck, "")
}

func (s *Server) handleListIntermediateTypes(w http.ResponseWriter, r *http.Request) {
	s.success(w, s.store.Current().IntermediateTypes(), "")
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	s.success(w, s.store.Current().FinalTypes(), "")
}

func (s *Server) handleGetFinalType(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ft, ok := s.store.Current().FinalTypeByID(id)
	if !ok {
		s.errorResponse(w, &ErrNotFound{Resource: "final type", ID: strconv.Itoa(id)})
		return
	}
	s.success(w, ft, "")
}

// pathInt parses a numeric path parameter.
func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: name, Message: "must be an integer, got " + strconv.Quote(raw)}
	}
	return id, nil
}
