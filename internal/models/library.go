package models

import "time"

// MediaType distinguishes shows from movies.
type MediaType string

const (
	MediaTypeTV    MediaType = "tv"
	MediaTypeMovie MediaType = "movie"
)

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	return m == MediaTypeTV || m == MediaTypeMovie
}

// TrackedTitle is a library entry referencing a TMDB item.
type TrackedTitle struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	TMDBID      int64     `json:"tmdb_id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}
