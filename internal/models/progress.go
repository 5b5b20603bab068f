package models

import "time"

// Progress is the (season, episode) cursor of a profile for one tracked title.
type Progress struct {
	ProfileID      int64     `json:"profile_id"`
	TrackedTitleID int64     `json:"tracked_title_id"`
	SeasonNumber   int       `json:"season_number"`
	EpisodeNumber  int       `json:"episode_number"`
	UpdatedAt      time.Time `json:"updated_at"`
}
