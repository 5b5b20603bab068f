package metadata

import (
	"github.com/vrsandeep/showtime-go/internal/models"
)

// Wire types. Every response is decoded into one of these and validated
// before anything downstream sees it.

type searchResponse struct {
	Page    int            `json:"page"`
	Results []searchResult `json:"results" validate:"dive"`
}

type searchResult struct {
	ID           int64   `json:"id" validate:"gt=0"`
	MediaType    string  `json:"media_type"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	ReleaseDate  string  `json:"release_date"`
	Popularity   float64 `json:"popularity"`
}

type tvDetails struct {
	ID             int64          `json:"id" validate:"gt=0"`
	Name           string         `json:"name" validate:"required"`
	Overview       string         `json:"overview"`
	PosterPath     string         `json:"poster_path"`
	Status         string         `json:"status"`
	EpisodeRunTime []int          `json:"episode_run_time" validate:"dive,gte=0"`
	NumberOfSeason int            `json:"number_of_seasons" validate:"gte=0"`
	Seasons        []seasonBrief  `json:"seasons" validate:"dive"`
	LastEpisode    *episodeDetail `json:"last_episode_to_air"`
}

type seasonBrief struct {
	SeasonNumber int    `json:"season_number" validate:"gte=0"`
	EpisodeCount int    `json:"episode_count" validate:"gte=0"`
	Name         string `json:"name"`
	AirDate      string `json:"air_date"`
}

type movieDetails struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Title       string `json:"title" validate:"required"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
	Runtime     int    `json:"runtime" validate:"gte=0"`
	ReleaseDate string `json:"release_date"`
	Status      string `json:"status"`
}

type seasonDetails struct {
	ID           int64           `json:"id"`
	SeasonNumber int             `json:"season_number" validate:"gte=0"`
	Name         string          `json:"name"`
	Episodes     []episodeDetail `json:"episodes" validate:"dive"`
}

type episodeDetail struct {
	EpisodeNumber int    `json:"episode_number" validate:"gt=0"`
	SeasonNumber  int    `json:"season_number" validate:"gte=0"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	Runtime       int    `json:"runtime" validate:"gte=0"`
}

// SearchResult is one hit of a multi search, people filtered out.
type SearchResult struct {
	TMDBID     int64            `json:"tmdb_id"`
	MediaType  models.MediaType `json:"media_type"`
	Name       string           `json:"name"`
	Overview   string           `json:"overview"`
	PosterURL  string           `json:"poster_url,omitempty"`
	PosterPath string           `json:"poster_path,omitempty"`
	Year       string           `json:"year,omitempty"`
}

// Season is one season with its episode count. Number 0 holds specials.
type Season struct {
	Number       int    `json:"number"`
	Name         string `json:"name,omitempty"`
	EpisodeCount int    `json:"episode_count"`
}

// Title is the normalized view of a show or movie.
type Title struct {
	TMDBID         int64            `json:"tmdb_id"`
	MediaType      models.MediaType `json:"media_type"`
	Name           string           `json:"name"`
	Overview       string           `json:"overview"`
	PosterPath     string           `json:"poster_path,omitempty"`
	PosterURL      string           `json:"poster_url,omitempty"`
	Status         string           `json:"status,omitempty"`
	RuntimeMinutes int              `json:"runtime_minutes"`
	Seasons        []Season         `json:"seasons,omitempty"`
}

// SeasonCount counts regular seasons, leaving specials out.
func (t *Title) SeasonCount() int {
	n := 0
	for _, s := range t.Seasons {
		if s.Number > 0 {
			n++
		}
	}
	return n
}

// EpisodeCount returns the episodes in a season, or 0 if the season is unknown.
func (t *Title) EpisodeCount(season int) int {
	for _, s := range t.Seasons {
		if s.Number == season {
			return s.EpisodeCount
		}
	}
	return 0
}

// Episode is one entry of a season listing.
type Episode struct {
	Season         int    `json:"season_number"`
	Number         int    `json:"episode_number"`
	Name           string `json:"name"`
	Overview       string `json:"overview,omitempty"`
	AirDate        string `json:"air_date,omitempty"`
	RuntimeMinutes int    `json:"runtime_minutes"`
}

// SeasonListing is the episode list of one season.
type SeasonListing struct {
	TMDBID   int64     `json:"tmdb_id"`
	Number   int       `json:"number"`
	Name     string    `json:"name"`
	Episodes []Episode `json:"episodes"`
}
