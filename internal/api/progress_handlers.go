package api

import (
	"fmt"
	"net/http"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/progress"
)

type setProgressRequest struct {
	SeasonNumber  *int `json:"season_number" validate:"omitempty,gte=1"`
	EpisodeNumber *int `json:"episode_number" validate:"omitempty,gte=1"`
}

type advanceRequest struct {
	TotalEpisodesInSeason *int `json:"total_episodes_in_season" validate:"omitempty,gte=1"`
	TotalSeasons          *int `json:"total_seasons" validate:"omitempty,gte=1"`
}

type progressResponse struct {
	Progress *models.Progress `json:"progress"`
}

type advanceResponse struct {
	Progress *models.Progress `json:"progress"`
	State    progress.State   `json:"state"`
	Complete bool             `json:"complete"`
	Changed  bool             `json:"changed"`
	Episode  string           `json:"episode,omitempty"`
}

// profileTitle resolves {titleID} against the profile's household.
func (s *Server) profileTitle(r *http.Request) (*models.TrackedTitle, error) {
	titleID, err := pathID(r, "titleID")
	if err != nil {
		return nil, err
	}
	return s.ownedTitle(r, titleID)
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Tracker().List(getProfileFromContext(r).ID)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, list)
}

// handleGetProgress answers with a null progress when the profile has not
// started the title.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	title, err := s.profileTitle(r)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	p, err := s.app.Tracker().Get(getProfileFromContext(r).ID, title.ID)
	if err != nil && !apperr.Is(err, apperr.NotFound) {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, progressResponse{Progress: p})
}

// handleSetProgress jumps the cursor. Omitted fields default to 1.
func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	title, err := s.profileTitle(r)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	var payload setProgressRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	season, episode := 1, 1
	if payload.SeasonNumber != nil {
		season = *payload.SeasonNumber
	}
	if payload.EpisodeNumber != nil {
		episode = *payload.EpisodeNumber
	}

	p, err := s.app.Tracker().Set(getProfileFromContext(r).ID, title.ID, season, episode)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, progressResponse{Progress: p})
}

// handleAdvanceProgress moves the cursor one episode forward. Totals may be
// sent by the client; otherwise they are looked up on TMDB.
func (s *Server) handleAdvanceProgress(w http.ResponseWriter, r *http.Request) {
	title, err := s.profileTitle(r)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	var payload advanceRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if (payload.TotalEpisodesInSeason == nil) != (payload.TotalSeasons == nil) {
		RespondWithError(w, http.StatusBadRequest, "total_episodes_in_season and total_seasons must be sent together")
		return
	}

	profile := getProfileFromContext(r)
	tracker := s.app.Tracker()
	var facts progress.Facts
	if payload.TotalSeasons != nil {
		facts = progress.Facts{EpisodesInSeason: *payload.TotalEpisodesInSeason, Seasons: *payload.TotalSeasons}
	} else {
		facts, err = s.deriveFacts(r, profile.ID, title)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}

	result, err := tracker.Advance(profile.ID, title.ID, facts)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	resp := advanceResponse{
		Progress: result.Progress,
		State:    progress.InProgress,
		Complete: result.Complete,
		Changed:  result.Changed,
	}
	if result.Complete {
		resp.State = progress.SeriesComplete
	}
	if title.MediaType == models.MediaTypeTV {
		resp.Episode = progress.Cursor{Season: result.Progress.SeasonNumber, Episode: result.Progress.EpisodeNumber}.String()
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// deriveFacts reads the season and episode totals for the profile's current
// season from metadata. A movie is a single one-episode season.
func (s *Server) deriveFacts(r *http.Request, profileID int64, title *models.TrackedTitle) (progress.Facts, error) {
	if title.MediaType == models.MediaTypeMovie {
		return progress.Facts{EpisodesInSeason: 1, Seasons: 1}, nil
	}
	current, err := s.app.Tracker().Get(profileID, title.ID)
	if err != nil {
		return progress.Facts{}, err
	}
	meta, err := s.app.Metadata().Title(r.Context(), title.MediaType, title.TMDBID)
	if err != nil {
		return progress.Facts{}, err
	}
	facts := progress.Facts{
		EpisodesInSeason: meta.EpisodeCount(current.SeasonNumber),
		Seasons:          meta.SeasonCount(),
	}
	if facts.Seasons < 1 {
		return progress.Facts{}, apperr.Upstream("api.deriveFacts", fmt.Errorf("no seasons listed for %s", title.Title))
	}
	// A cursor past the last known season stays where it is.
	if facts.EpisodesInSeason < 1 && current.SeasonNumber > facts.Seasons {
		facts.EpisodesInSeason = current.EpisodeNumber
	}
	if facts.EpisodesInSeason < 1 {
		return progress.Facts{}, apperr.Upstream("api.deriveFacts", fmt.Errorf("no episode count for season %d", current.SeasonNumber))
	}
	return facts, nil
}
