// Package enrich joins the stored schedule and library with upstream
// metadata, offers and summaries for the read-heavy views.
package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/vrsandeep/showtime-go/internal/justwatch"
	"github.com/vrsandeep/showtime-go/internal/metadata"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/progress"
	"github.com/vrsandeep/showtime-go/internal/schedule"
	"github.com/vrsandeep/showtime-go/internal/summary"
)

// Repository is the stored state the views are built from.
type Repository interface {
	GetTrackedTitle(id int64) (*models.TrackedTitle, error)
	ListTrackedTitles(householdID int64) ([]*models.TrackedTitle, error)
	ListScheduleEntries(profileID int64) ([]*models.ScheduleEntry, error)
	GetProgress(profileID, trackedTitleID int64) (*models.Progress, error)
	ListProgress(profileID int64) ([]*models.Progress, error)
}

type Options struct {
	Concurrency     int
	FallbackRuntime int
	DayStart        string
}

type Enricher struct {
	repo      Repository
	meta      metadata.Provider
	offers    justwatch.OfferFinder
	summaries summary.Summarizer
	opts      Options
}

func New(repo Repository, meta metadata.Provider, offers justwatch.OfferFinder, summaries summary.Summarizer, opts Options) *Enricher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Enricher{repo: repo, meta: meta, offers: offers, summaries: summaries, opts: opts}
}

// fetchTitles loads metadata for every title, at most Concurrency at a time.
// Titles whose lookup fails are missing from the result.
func (e *Enricher) fetchTitles(ctx context.Context, titles []*models.TrackedTitle) map[int64]*metadata.Title {
	var mu sync.Mutex
	out := make(map[int64]*metadata.Title, len(titles))
	p := pool.New().WithMaxGoroutines(e.opts.Concurrency)
	for _, t := range titles {
		p.Go(func() {
			meta, err := e.meta.Title(ctx, t.MediaType, t.TMDBID)
			if err != nil {
				log.Debug().Err(err).Int64("title_id", t.ID).Msg("Metadata unavailable, using stored title")
				return
			}
			mu.Lock()
			out[t.ID] = meta
			mu.Unlock()
		})
	}
	p.Wait()
	return out
}

// Week builds the timeline view of a profile's schedule.
func (e *Enricher) Week(ctx context.Context, householdID, profileID int64) (*models.WeekView, error) {
	entries, err := e.repo.ListScheduleEntries(profileID)
	if err != nil {
		return nil, err
	}
	library, err := e.repo.ListTrackedTitles(householdID)
	if err != nil {
		return nil, err
	}
	cursors, err := e.repo.ListProgress(profileID)
	if err != nil {
		return nil, err
	}

	titles := make(map[int64]*models.TrackedTitle, len(library))
	for _, t := range library {
		titles[t.ID] = t
	}
	progressByTitle := make(map[int64]*models.Progress, len(cursors))
	for _, p := range cursors {
		progressByTitle[p.TrackedTitleID] = p
	}

	// Only scheduled and enabled titles are worth a metadata round trip.
	seen := map[int64]bool{}
	var wanted []*models.TrackedTitle
	for _, entry := range entries {
		t, ok := titles[entry.TrackedTitleID]
		if !ok || !entry.Enabled || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		wanted = append(wanted, t)
	}
	metas := e.fetchTitles(ctx, wanted)

	runtimes := make(map[int64]int, len(metas))
	for id, m := range metas {
		runtimes[id] = m.RuntimeMinutes
	}

	dayStart, err := schedule.ParseClock(e.opts.DayStart)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid day start, using midnight")
		dayStart = 0
	}

	week := schedule.Bucket(entries)
	view := &models.WeekView{ProfileID: profileID, DayStart: schedule.ClockLabel(dayStart, 0)}
	for d := 0; d < models.DaysPerWeek; d++ {
		day := &models.DayView{Weekday: d, Name: time.Weekday(d).String(), Slots: []*models.TimelineItem{}}
		for _, slot := range schedule.BuildTimeline(week[d], runtimes, e.opts.FallbackRuntime) {
			item := &models.TimelineItem{
				Entry:            slot.Entry,
				StartMinute:      slot.StartMinute,
				EndMinute:        slot.EndMinute,
				RuntimeMinutes:   slot.RuntimeMinutes,
				RuntimeEstimated: slot.RuntimeEstimated,
				StartsAt:         schedule.ClockLabel(dayStart, slot.StartMinute),
				EndsAt:           schedule.ClockLabel(dayStart, slot.EndMinute),
				Progress:         progressByTitle[slot.Entry.TrackedTitleID],
			}
			if t, ok := titles[slot.Entry.TrackedTitleID]; ok {
				item.Title = t.Title
				item.MediaType = t.MediaType
			}
			meta := metas[slot.Entry.TrackedTitleID]
			if meta != nil {
				item.Title = meta.Name
				item.PosterURL = meta.PosterURL
			}
			item.NextEpisode, item.CaughtUp = Next(item.MediaType, item.Progress, meta)
			day.Slots = append(day.Slots, item)
			day.TotalMinutes = slot.EndMinute
		}
		view.Days = append(view.Days, day)
	}
	return view, nil
}

// Next works out what a profile watches next. The cursor is the last episode
// watched. Without metadata a started show has no label and is never caught up.
func Next(mediaType models.MediaType, p *models.Progress, meta *metadata.Title) (next string, caughtUp bool) {
	if mediaType == models.MediaTypeMovie {
		return "", p != nil
	}
	if p == nil {
		return progress.Cursor{Season: 1, Episode: 1}.String(), false
	}
	if meta == nil || meta.SeasonCount() == 0 {
		return "", false
	}
	c := progress.Cursor{Season: p.SeasonNumber, Episode: p.EpisodeNumber}
	facts := progress.Facts{EpisodesInSeason: meta.EpisodeCount(c.Season), Seasons: meta.SeasonCount()}
	to, _ := progress.Advance(c, facts)
	if to == c {
		return "", true
	}
	return to.String(), false
}
