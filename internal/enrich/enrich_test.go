package enrich_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/enrich"
	"github.com/vrsandeep/showtime-go/internal/metadata"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/schedule"
	"github.com/vrsandeep/showtime-go/internal/store"
	"github.com/vrsandeep/showtime-go/internal/summary"
	"github.com/vrsandeep/showtime-go/internal/testutil"
)

type fakeMeta struct {
	mu     sync.Mutex
	titles map[int64]*metadata.Title
	calls  int
}

func (f *fakeMeta) Search(context.Context, string) ([]metadata.SearchResult, error) {
	return nil, nil
}

func (f *fakeMeta) Title(_ context.Context, _ models.MediaType, id int64) (*metadata.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	t, ok := f.titles[id]
	if !ok {
		return nil, apperr.Upstream("fake", errors.New("tmdb down"))
	}
	return t, nil
}

func (f *fakeMeta) Season(context.Context, int64, int) (*metadata.SeasonListing, error) {
	return nil, nil
}

type fakeOffers struct {
	offers []models.Offer
	err    error
}

func (f fakeOffers) Offers(context.Context, string, models.MediaType, int64) ([]models.Offer, error) {
	return f.offers, f.err
}

type fakeSummaries struct {
	last summary.Request
}

func (f *fakeSummaries) Summarize(_ context.Context, req summary.Request) (summary.Summary, error) {
	f.last = req
	if req.Overview == "" {
		return summary.Summary{}, apperr.Upstream("fake", errors.New("llm down"))
	}
	return summary.Summary{Text: "recap of " + req.Name, AI: true}, nil
}

func dark() *metadata.Title {
	return &metadata.Title{
		TMDBID: 70523, MediaType: models.MediaTypeTV, Name: "Dark", Overview: "Kids vanish.",
		RuntimeMinutes: 55, PosterURL: "http://img/dark.jpg",
		Seasons: []metadata.Season{{Number: 0, EpisodeCount: 2}, {Number: 2, EpisodeCount: 8}, {Number: 1, EpisodeCount: 10}},
	}
}

type env struct {
	store     *store.Store
	household testutil.Household
	meta      *fakeMeta
	summaries *fakeSummaries
}

func newEnv(t *testing.T) env {
	t.Helper()
	s := store.New(testutil.SetupTestDB(t))
	return env{
		store:     s,
		household: testutil.SeedHousehold(t, s, "Home", "Alice"),
		meta:      &fakeMeta{titles: map[int64]*metadata.Title{70523: dark()}},
		summaries: &fakeSummaries{},
	}
}

func (e env) enricher(offers fakeOffers) *enrich.Enricher {
	return enrich.New(e.store, e.meta, offers, e.summaries, enrich.Options{
		Concurrency: 2, FallbackRuntime: 30, DayStart: "20:00",
	})
}

func TestWeek(t *testing.T) {
	e := newEnv(t)
	hh, profile := e.household.Household.ID, e.household.Profile.ID
	darkTitle := testutil.AddTitle(t, e.store, hh, 70523, models.MediaTypeTV, "Dark (stored)")
	unknown := testutil.AddTitle(t, e.store, hh, 1, models.MediaTypeTV, "Unknown Show")
	hidden := testutil.AddTitle(t, e.store, hh, 2, models.MediaTypeMovie, "Hidden Movie")

	engine := schedule.NewEngine(e.store)
	first, err := engine.AddEntry(profile, darkTitle.ID, 5)
	require.NoError(t, err)
	off, err := engine.AddEntry(profile, hidden.ID, 5)
	require.NoError(t, err)
	_, err = engine.SetEnabled(off.ID, false)
	require.NoError(t, err)
	_, err = engine.AddEntry(profile, unknown.ID, 5)
	require.NoError(t, err)
	_, err = e.store.UpsertProgress(profile, darkTitle.ID, 1, 10)
	require.NoError(t, err)

	view, err := e.enricher(fakeOffers{}).Week(context.Background(), hh, profile)
	require.NoError(t, err)
	require.Len(t, view.Days, models.DaysPerWeek)
	assert.Equal(t, "20:00", view.DayStart)
	assert.Empty(t, view.Days[0].Slots)

	friday := view.Days[5]
	assert.Equal(t, "Friday", friday.Name)
	require.Len(t, friday.Slots, 2, "disabled entries are not on the timeline")

	d := friday.Slots[0]
	assert.Equal(t, first.ID, d.Entry.ID)
	assert.Equal(t, "Dark", d.Title)
	assert.Equal(t, 55, d.RuntimeMinutes)
	assert.False(t, d.RuntimeEstimated)
	assert.Equal(t, "20:00", d.StartsAt)
	assert.Equal(t, "20:55", d.EndsAt)
	assert.Equal(t, "S02E01", d.NextEpisode)
	assert.False(t, d.CaughtUp)

	u := friday.Slots[1]
	assert.Equal(t, "Unknown Show", u.Title, "falls back to the stored title")
	assert.Equal(t, 30, u.RuntimeMinutes)
	assert.True(t, u.RuntimeEstimated)
	assert.Equal(t, 55, u.StartMinute)
	assert.Equal(t, "21:25", u.EndsAt)
	assert.Equal(t, "S01E01", u.NextEpisode)
	assert.Equal(t, 85, friday.TotalMinutes)

	assert.Equal(t, 2, e.meta.calls, "disabled titles are not looked up")
}

func TestNext(t *testing.T) {
	meta := dark()
	cursor := func(s, ep int) *models.Progress {
		return &models.Progress{SeasonNumber: s, EpisodeNumber: ep}
	}
	cases := []struct {
		name      string
		mediaType models.MediaType
		progress  *models.Progress
		meta      *metadata.Title
		next      string
		caughtUp  bool
	}{
		{"Not started", models.MediaTypeTV, nil, meta, "S01E01", false},
		{"Mid season", models.MediaTypeTV, cursor(1, 3), meta, "S01E04", false},
		{"Season rollover", models.MediaTypeTV, cursor(1, 10), meta, "S02E01", false},
		{"Finale watched", models.MediaTypeTV, cursor(2, 8), meta, "", true},
		{"Stale cursor past the end", models.MediaTypeTV, cursor(4, 3), meta, "", true},
		{"No metadata", models.MediaTypeTV, cursor(1, 3), nil, "", false},
		{"Movie watched", models.MediaTypeMovie, cursor(1, 1), nil, "", true},
		{"Movie not watched", models.MediaTypeMovie, nil, nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, caughtUp := enrich.Next(tc.mediaType, tc.progress, tc.meta)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.caughtUp, caughtUp)
		})
	}
}

func TestDetail(t *testing.T) {
	t.Run("Everything available", func(t *testing.T) {
		e := newEnv(t)
		title := testutil.AddTitle(t, e.store, e.household.Household.ID, 70523, models.MediaTypeTV, "Dark")
		_, err := e.store.UpsertProgress(e.household.Profile.ID, title.ID, 2, 3)
		require.NoError(t, err)
		offers := []models.Offer{{Provider: "Netflix", Monetization: "flatrate", URL: "http://nf/dark"}}

		detail, err := e.enricher(fakeOffers{offers: offers}).Detail(context.Background(), title.ID, e.household.Profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kids vanish.", detail.Overview)
		assert.Equal(t, 2, detail.SeasonCount)
		assert.Equal(t, []models.SeasonInfo{{Number: 1, EpisodeCount: 10}, {Number: 2, EpisodeCount: 8}}, detail.Seasons)
		assert.Equal(t, offers, detail.Offers)
		assert.Equal(t, "recap of Dark", detail.Summary)
		assert.True(t, detail.SummaryIsAI)
		require.NotNil(t, detail.Progress)
		assert.Empty(t, detail.Unavailable)
		require.NotNil(t, e.summaries.last.Cursor)
		assert.Equal(t, "S02E03", e.summaries.last.Cursor.String())
	})

	t.Run("Upstream failures degrade", func(t *testing.T) {
		e := newEnv(t)
		title := testutil.AddTitle(t, e.store, e.household.Household.ID, 1, models.MediaTypeMovie, "Obscure")

		detail, err := e.enricher(fakeOffers{err: errors.New("jw down")}).Detail(context.Background(), title.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "Obscure", detail.Name)
		assert.Equal(t, []models.Offer{}, detail.Offers)
		assert.Nil(t, detail.Progress)
		assert.Equal(t, []string{enrich.PartMetadata, enrich.PartOffers, enrich.PartSummary}, detail.Unavailable)
	})

	t.Run("Unknown title", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.enricher(fakeOffers{}).Detail(context.Background(), 999, 0)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})
}
