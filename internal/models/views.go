package models

// WeekView is the top-level struct for the enriched schedule response.
type WeekView struct {
	ProfileID int64      `json:"profile_id"`
	DayStart  string     `json:"day_start"`
	Days      []*DayView `json:"days"`
}

// DayView is one weekday laid out as a gapless timeline.
type DayView struct {
	Weekday      int             `json:"weekday"`
	Name         string          `json:"name"`
	TotalMinutes int             `json:"total_minutes"`
	Slots        []*TimelineItem `json:"slots"`
}

// TimelineItem is a card on the week view.
type TimelineItem struct {
	Entry            *ScheduleEntry `json:"entry"`
	Title            string         `json:"title"`
	MediaType        MediaType      `json:"media_type"`
	PosterURL        string         `json:"poster_url,omitempty"`
	StartMinute      int            `json:"start_minute"`
	EndMinute        int            `json:"end_minute"`
	RuntimeMinutes   int            `json:"runtime_minutes"`
	RuntimeEstimated bool           `json:"runtime_estimated"`
	StartsAt         string         `json:"starts_at"`
	EndsAt           string         `json:"ends_at"`
	Progress         *Progress      `json:"progress,omitempty"`
	NextEpisode      string         `json:"next_episode,omitempty"`
	CaughtUp         bool           `json:"caught_up"`
}

// TitleDetail is the response for a single library title.
type TitleDetail struct {
	Title       *TrackedTitle `json:"title"`
	Name        string        `json:"name"`
	Overview    string        `json:"overview"`
	PosterURL   string        `json:"poster_url,omitempty"`
	Runtime     int           `json:"runtime_minutes,omitempty"`
	SeasonCount int           `json:"season_count,omitempty"`
	Seasons     []SeasonInfo  `json:"seasons,omitempty"`
	Offers      []Offer       `json:"offers"`
	Summary     string        `json:"summary,omitempty"`
	SummaryIsAI bool          `json:"summary_is_ai"`
	Progress    *Progress     `json:"progress,omitempty"`
	Unavailable []string      `json:"unavailable,omitempty"`
}

// SeasonInfo is the episode count of one season.
type SeasonInfo struct {
	Number       int `json:"number"`
	EpisodeCount int `json:"episode_count"`
}

// Offer is a streaming deep link.
type Offer struct {
	Provider     string `json:"provider"`
	Monetization string `json:"monetization"`
	URL          string `json:"url"`
}
