// Package progress tracks the (season, episode) cursor of each profile for
// each title in its library.
package progress

import "fmt"

// Cursor is the last episode a profile has watched. Both fields are 1-indexed.
type Cursor struct {
	Season  int `json:"season_number"`
	Episode int `json:"episode_number"`
}

func (c Cursor) String() string {
	return fmt.Sprintf("S%02dE%02d", c.Season, c.Episode)
}

// Less orders cursors lexicographically by (season, episode).
func (c Cursor) Less(o Cursor) bool {
	if c.Season != o.Season {
		return c.Season < o.Season
	}
	return c.Episode < o.Episode
}

// Facts are the episode counts the caller knows for the current season.
type Facts struct {
	EpisodesInSeason int
	Seasons          int
}

// State is the outcome of a transition.
type State string

const (
	InProgress     State = "in_progress"
	SeriesComplete State = "series_complete"
)

// Advance moves the cursor one episode forward. At the last episode of a
// season it rolls into the next season; at the last episode of the last
// season it stays put. The state describes the returned cursor. After a
// season rollover it is always InProgress since f only covers the season
// that was left.
func Advance(c Cursor, f Facts) (Cursor, State) {
	switch {
	case c.Episode < f.EpisodesInSeason:
		c.Episode++
	case c.Season < f.Seasons:
		c.Season++
		c.Episode = 1
		return c, InProgress
	}
	if IsComplete(c, f) {
		return c, SeriesComplete
	}
	return c, InProgress
}

// IsComplete reports whether c sits on or past the final episode.
func IsComplete(c Cursor, f Facts) bool {
	return c.Season >= f.Seasons && c.Episode >= f.EpisodesInSeason
}
