package api

import (
	"net/http"
	"strings"

	"github.com/vrsandeep/showtime-go/internal/metadata"
)

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch proxies a TMDB multi search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	results, err := s.app.Metadata().Search(r.Context(), query)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if results == nil {
		results = []metadata.SearchResult{}
	}
	RespondWithJSON(w, http.StatusOK, results)
}
