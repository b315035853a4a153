package server

import (
	"net/http"

	"github.com/jonathan/mindtype/internal/metrics"
	"github.com/jonathan/mindtype/internal/server/middleware"
)

// reloadResponse reports a successful catalog swap.
type reloadResponse struct {
	Version         string `json:"version"`
	PreviousVersion string `json:"previous_version"`
	Source          string `json:"source"`
}

// handleReloadCatalog rebuilds the catalog from its source and publishes it. Requests already
// running keep the snapshot they started with.
func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.errorResponse(w, &ErrUnavailable{Feature: "catalog reload"})
		return
	}

	subject, _ := middleware.GetSubject(r)
	previous := s.store.Current().Version()

	cat, err := s.store.Reload(r.Context(), s.source)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		s.log.Error("catalog reload failed", "source", s.source.Name(), "subject", subject, "error", err)
		s.errorResponse(w, err)
		return
	}
	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()

	if s.cache != nil {
		s.cache.purge()
	}

	s.log.Info("catalog reloaded",
		"source", s.source.Name(),
		"subject", subject,
		"version", cat.Version(),
		"previous_version", previous,
	)
	s.success(w, reloadResponse{
		Version:         cat.Version(),
		PreviousVersion: previous,
		Source:          s.source.Name(),
	}, "Catalog reloaded")
}
