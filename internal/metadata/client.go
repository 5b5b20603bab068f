// Package metadata talks to TMDB and turns its responses into validated,
// normalized titles.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/validation"
	"golang.org/x/time/rate"
)

// Client is a thin TMDB v3 client. It does not cache or retry.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpc        *http.Client
	limiter      *rate.Limiter
}

// NewClient builds a client from config. httpc may be nil.
func NewClient(cfg config.TMDBConfig, httpc *http.Client) *Client {
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		language:     cfg.Language,
		httpc:        httpc,
		limiter:      rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

// PosterURL expands a poster path into a full image URL.
func (c *Client) PosterURL(path string) string {
	if path == "" || c.imageBaseURL == "" {
		return ""
	}
	return c.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}

// v4 read access tokens are JWTs and go in the Authorization header.
func (c *Client) bearer() bool {
	return strings.Count(c.apiKey, ".") == 2
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" {
		query.Set("language", c.language)
	}
	if !c.bearer() {
		query.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.bearer() {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFoundf("tmdb.get", "%s not found on TMDB", path)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("tmdb %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("tmdb %s: malformed response: %w", path, err)
	}
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("tmdb %s: rejected response: %w", path, err)
	}
	return nil
}

// Search runs a multi search and keeps only shows and movies.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var resp searchResponse
	params := url.Values{"query": {query}, "include_adult": {"false"}}
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		mt := models.MediaType(r.MediaType)
		if !mt.Valid() {
			continue
		}
		name, date := r.Name, r.FirstAirDate
		if mt == models.MediaTypeMovie {
			name, date = r.Title, r.ReleaseDate
		}
		if name == "" {
			continue
		}
		results = append(results, SearchResult{
			TMDBID:     r.ID,
			MediaType:  mt,
			Name:       name,
			Overview:   r.Overview,
			PosterPath: r.PosterPath,
			PosterURL:  c.PosterURL(r.PosterPath),
			Year:       year(date),
		})
	}
	return results, nil
}

// TV fetches show details including per-season episode counts.
func (c *Client) TV(ctx context.Context, id int64) (*Title, error) {
	var d tvDetails
	if err := c.get(ctx, "/tv/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	t := &Title{
		TMDBID:         d.ID,
		MediaType:      models.MediaTypeTV,
		Name:           d.Name,
		Overview:       d.Overview,
		PosterPath:     d.PosterPath,
		PosterURL:      c.PosterURL(d.PosterPath),
		Status:         d.Status,
		RuntimeMinutes: episodeRuntime(d),
	}
	for _, s := range d.Seasons {
		t.Seasons = append(t.Seasons, Season{Number: s.SeasonNumber, Name: s.Name, EpisodeCount: s.EpisodeCount})
	}
	return t, nil
}

// Movie fetches movie details.
func (c *Client) Movie(ctx context.Context, id int64) (*Title, error) {
	var d movieDetails
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return &Title{
		TMDBID:         d.ID,
		MediaType:      models.MediaTypeMovie,
		Name:           d.Title,
		Overview:       d.Overview,
		PosterPath:     d.PosterPath,
		PosterURL:      c.PosterURL(d.PosterPath),
		Status:         d.Status,
		RuntimeMinutes: d.Runtime,
	}, nil
}

// Season fetches the episode list of one season of a show.
func (c *Client) Season(ctx context.Context, tvID int64, number int) (*SeasonListing, error) {
	var d seasonDetails
	path := fmt.Sprintf("/tv/%d/season/%d", tvID, number)
	if err := c.get(ctx, path, nil, &d); err != nil {
		return nil, err
	}
	listing := &SeasonListing{TMDBID: tvID, Number: d.SeasonNumber, Name: d.Name, Episodes: []Episode{}}
	for _, e := range d.Episodes {
		listing.Episodes = append(listing.Episodes, Episode{
			Season:         number,
			Number:         e.EpisodeNumber,
			Name:           e.Name,
			Overview:       e.Overview,
			AirDate:        e.AirDate,
			RuntimeMinutes: e.Runtime,
		})
	}
	return listing, nil
}

// episodeRuntime picks the advertised runtime, falling back to the last
// aired episode. Zero means unknown.
func episodeRuntime(d tvDetails) int {
	for _, r := range d.EpisodeRunTime {
		if r > 0 {
			return r
		}
	}
	if d.LastEpisode != nil {
		return d.LastEpisode.Runtime
	}
	return 0
}

func year(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
