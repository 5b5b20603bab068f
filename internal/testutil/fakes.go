package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/metadata"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/summary"
)

// ErrUpstreamDown is what the fakes return when marked unavailable.
var ErrUpstreamDown = errors.New("upstream down")

// Fakes bundles the in-memory stand-ins for TMDB, JustWatch and the LLM.
type Fakes struct {
	Metadata  *FakeMetadata
	Offers    *FakeOffers
	Summaries *FakeSummarizer
}

func NewFakes() *Fakes {
	return &Fakes{
		Metadata:  &FakeMetadata{titles: map[string]*metadata.Title{}},
		Offers:    &FakeOffers{offers: map[int64][]models.Offer{}},
		Summaries: &FakeSummarizer{},
	}
}

// FakeMetadata serves titles added with AddTitle. Unknown ids are NotFound.
type FakeMetadata struct {
	mu      sync.Mutex
	titles  map[string]*metadata.Title
	Results []metadata.SearchResult
	Down    bool
}

func metaKey(mt models.MediaType, id int64) string {
	return fmt.Sprintf("%s:%d", mt, id)
}

func (f *FakeMetadata) AddTitle(t *metadata.Title) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles[metaKey(t.MediaType, t.TMDBID)] = t
}

func (f *FakeMetadata) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Down = down
}

func (f *FakeMetadata) Search(_ context.Context, query string) ([]metadata.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, apperr.Upstream("fake.Search", ErrUpstreamDown)
	}
	var out []metadata.SearchResult
	for _, r := range f.Results {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(query)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeMetadata) Title(_ context.Context, mt models.MediaType, id int64) (*metadata.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, apperr.Upstream("fake.Title", ErrUpstreamDown)
	}
	t, ok := f.titles[metaKey(mt, id)]
	if !ok {
		return nil, apperr.NotFoundf("fake.Title", "%s %d not found", mt, id)
	}
	return t, nil
}

func (f *FakeMetadata) Season(_ context.Context, tvID int64, number int) (*metadata.SeasonListing, error) {
	return nil, apperr.NotFoundf("fake.Season", "season %d of %d not found", number, tvID)
}

// FakeOffers returns the offers set per TMDB id.
type FakeOffers struct {
	mu     sync.Mutex
	offers map[int64][]models.Offer
	Down   bool
}

func (f *FakeOffers) Set(tmdbID int64, offers []models.Offer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offers[tmdbID] = offers
}

func (f *FakeOffers) Offers(_ context.Context, _ string, _ models.MediaType, tmdbID int64) ([]models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, apperr.Upstream("fake.Offers", ErrUpstreamDown)
	}
	return f.offers[tmdbID], nil
}

// FakeSummarizer echoes the request unless it is down, in which case it
// falls back to the overview like the real one.
type FakeSummarizer struct {
	Down bool
}

func (f *FakeSummarizer) Summarize(_ context.Context, req summary.Request) (summary.Summary, error) {
	if f.Down {
		return summary.Summary{Text: summary.Truncate(req.Overview, summary.FallbackLength)},
			apperr.Upstream("fake.Summarize", ErrUpstreamDown)
	}
	at := "start"
	if req.Cursor != nil {
		at = req.Cursor.String()
	}
	return summary.Summary{Text: fmt.Sprintf("Recap of %s before %s", req.Name, at), AI: true}, nil
}
