package progress

import (
	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// Repository is the persistence the tracker needs. *store.Store satisfies it.
type Repository interface {
	GetProgress(profileID, trackedTitleID int64) (*models.Progress, error)
	ListProgress(profileID int64) ([]*models.Progress, error)
	UpsertProgress(profileID, trackedTitleID int64, season, episode int) (*models.Progress, error)
	ProfileOwnsTitle(profileID, trackedTitleID int64) (bool, error)
}

// Result is a stored cursor together with its completion state.
type Result struct {
	Progress *models.Progress `json:"progress"`
	Complete bool             `json:"complete"`
	Changed  bool             `json:"changed"`
}

type Tracker struct {
	repo Repository
}

func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo}
}

func (t *Tracker) checkOwnership(op string, profileID, trackedTitleID int64) error {
	owned, err := t.repo.ProfileOwnsTitle(profileID, trackedTitleID)
	if err != nil {
		return err
	}
	if !owned {
		return apperr.NotFoundf(op, "title %d not found", trackedTitleID)
	}
	return nil
}

// Get returns the cursor or a NotFound error when none was set.
func (t *Tracker) Get(profileID, trackedTitleID int64) (*models.Progress, error) {
	return t.repo.GetProgress(profileID, trackedTitleID)
}

// List returns every cursor of a profile.
func (t *Tracker) List(profileID int64) ([]*models.Progress, error) {
	return t.repo.ListProgress(profileID)
}

// Set jumps the cursor to (season, episode). Bounds against the show's
// actual episode counts are not checked here.
func (t *Tracker) Set(profileID, trackedTitleID int64, season, episode int) (*models.Progress, error) {
	const op = "progress.Set"
	if season < 1 || episode < 1 {
		return nil, apperr.Invalid(op, "season and episode must be positive, got S%dE%d", season, episode)
	}
	if err := t.checkOwnership(op, profileID, trackedTitleID); err != nil {
		return nil, err
	}
	return t.repo.UpsertProgress(profileID, trackedTitleID, season, episode)
}

// Advance applies one step of the state machine to the stored cursor.
func (t *Tracker) Advance(profileID, trackedTitleID int64, facts Facts) (*Result, error) {
	const op = "progress.Advance"
	if facts.EpisodesInSeason < 1 || facts.Seasons < 1 {
		return nil, apperr.Invalid(op, "episode and season totals must be positive")
	}
	current, err := t.repo.GetProgress(profileID, trackedTitleID)
	if err != nil {
		return nil, err
	}

	from := Cursor{Season: current.SeasonNumber, Episode: current.EpisodeNumber}
	to, state := Advance(from, facts)
	result := &Result{Progress: current, Complete: state == SeriesComplete}
	if to == from {
		return result, nil
	}

	updated, err := t.repo.UpsertProgress(profileID, trackedTitleID, to.Season, to.Episode)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int64("profile_id", profileID).
		Int64("title_id", trackedTitleID).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Progress advanced")
	result.Progress = updated
	result.Changed = true
	return result, nil
}
