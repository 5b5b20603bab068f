package api

import (
	"net/http"
)

type createProfileRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(getUserFromContext(r).HouseholdID)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload createProfileRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	profile, err := s.store.CreateProfile(getUserFromContext(r).HouseholdID, payload.Name)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, profile)
}

// handleDeleteProfile removes the profile with its schedule and progress.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProfile(getProfileFromContext(r).ID); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
