package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

type addTitleRequest struct {
	TMDBID    int64            `json:"tmdb_id" validate:"required,gt=0"`
	MediaType models.MediaType `json:"media_type" validate:"required,oneof=tv movie"`
	Title     string           `json:"title" validate:"max=256"`
}

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	titles, err := s.store.ListTrackedTitles(getUserFromContext(r).HouseholdID)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, titles)
}

// handleAddToLibrary stores a TMDB title in the household library. The name
// and poster come from TMDB; when it cannot be reached the name sent by the
// client is used instead.
func (s *Server) handleAddToLibrary(w http.ResponseWriter, r *http.Request) {
	var payload addTitleRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	title := &models.TrackedTitle{
		HouseholdID: getUserFromContext(r).HouseholdID,
		TMDBID:      payload.TMDBID,
		MediaType:   payload.MediaType,
		Title:       strings.TrimSpace(payload.Title),
	}
	meta, err := s.app.Metadata().Title(r.Context(), payload.MediaType, payload.TMDBID)
	switch {
	case err == nil:
		title.Title = meta.Name
		title.PosterPath = meta.PosterPath
	case apperr.Is(err, apperr.NotFound):
		RespondWithAppError(w, r, err)
		return
	case title.Title == "":
		RespondWithAppError(w, r, err)
		return
	default:
		log.Warn().Err(err).Int64("tmdb_id", payload.TMDBID).Msg("Metadata unavailable, adding title with client name")
	}

	created, err := s.store.CreateTrackedTitle(title)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, created)
}

// handleGetLibraryTitle returns the enriched detail of a title. With
// ?profile_id= the profile's progress and a matching summary are included.
func (s *Server) handleGetLibraryTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathID(r, "titleID")
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if _, err := s.ownedTitle(r, titleID); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	var profileID int64
	if raw := r.URL.Query().Get("profile_id"); raw != "" {
		profileID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || profileID <= 0 {
			RespondWithError(w, http.StatusBadRequest, "Invalid profile_id")
			return
		}
		if _, err := s.ownedProfile(r, profileID); err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}

	detail, err := s.app.Enricher().Detail(r.Context(), titleID, profileID)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, detail)
}

// handleDeleteLibraryTitle removes a title along with every schedule entry
// and progress cursor that references it.
func (s *Server) handleDeleteLibraryTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathID(r, "titleID")
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if _, err := s.ownedTitle(r, titleID); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if err := s.store.DeleteTrackedTitle(titleID); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
