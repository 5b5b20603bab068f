package store

import (
	"time"

	"github.com/vrsandeep/showtime-go/internal/models"
)

// GetProgress retrieves the cursor of a profile for one title.
func (s *Store) GetProgress(profileID, trackedTitleID int64) (*models.Progress, error) {
	var p models.Progress
	err := s.db.QueryRow(`
		SELECT profile_id, tracked_title_id, season_number, episode_number, updated_at
		FROM progress WHERE profile_id = ? AND tracked_title_id = ?`,
		profileID, trackedTitleID).
		Scan(&p.ProfileID, &p.TrackedTitleID, &p.SeasonNumber, &p.EpisodeNumber, &p.UpdatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetProgress", "no progress for title %d", trackedTitleID)
	}
	return &p, nil
}

// ListProgress returns every cursor of a profile.
func (s *Store) ListProgress(profileID int64) ([]*models.Progress, error) {
	rows, err := s.db.Query(`
		SELECT profile_id, tracked_title_id, season_number, episode_number, updated_at
		FROM progress WHERE profile_id = ? ORDER BY tracked_title_id ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Progress{}
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.ProfileID, &p.TrackedTitleID, &p.SeasonNumber, &p.EpisodeNumber, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpsertProgress creates or overwrites a cursor.
func (s *Store) UpsertProgress(profileID, trackedTitleID int64, season, episode int) (*models.Progress, error) {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO progress (profile_id, tracked_title_id, season_number, episode_number, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, tracked_title_id) DO UPDATE SET
			season_number = excluded.season_number,
			episode_number = excluded.episode_number,
			updated_at = excluded.updated_at`,
		profileID, trackedTitleID, season, episode, now)
	if err != nil {
		return nil, err
	}
	return &models.Progress{
		ProfileID:      profileID,
		TrackedTitleID: trackedTitleID,
		SeasonNumber:   season,
		EpisodeNumber:  episode,
		UpdatedAt:      now,
	}, nil
}
