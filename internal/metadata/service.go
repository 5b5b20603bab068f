package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/upstream"
)

// Provider is the metadata surface the rest of the application uses.
type Provider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Title(ctx context.Context, mediaType models.MediaType, tmdbID int64) (*Title, error)
	Season(ctx context.Context, tvID int64, number int) (*SeasonListing, error)
}

// Service puts the cache and a circuit breaker in front of Client.
type Service struct {
	client  *Client
	cache   cache.Cache
	breaker *upstream.Breaker
}

func NewService(client *Client, c cache.Cache) *Service {
	return &Service{
		client:  client,
		cache:   c,
		breaker: upstream.NewBreaker("tmdb", 30*time.Second),
	}
}

var _ Provider = (*Service)(nil)

func (s *Service) notConfigured(op string) error {
	return apperr.Upstream(op, upstream.ErrNotConfigured)
}

func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	const op = "metadata.Search"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Invalid(op, "search query cannot be empty")
	}
	if !s.client.Configured() {
		return nil, s.notConfigured(op)
	}
	key := "tmdb:search:" + strings.ToLower(query)
	if hit, ok := cache.GetAs[[]SearchResult](s.cache, key); ok {
		return hit, nil
	}
	results, err := upstream.Do(s.breaker, op, func() ([]SearchResult, error) {
		return s.client.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	s.set(key, results)
	return results, nil
}

func (s *Service) Title(ctx context.Context, mediaType models.MediaType, tmdbID int64) (*Title, error) {
	const op = "metadata.Title"
	if !mediaType.Valid() {
		return nil, apperr.Invalid(op, "unknown media type %q", mediaType)
	}
	if !s.client.Configured() {
		return nil, s.notConfigured(op)
	}
	key := fmt.Sprintf("tmdb:%s:%d", mediaType, tmdbID)
	if hit, ok := cache.GetAs[*Title](s.cache, key); ok {
		return hit, nil
	}
	title, err := upstream.Do(s.breaker, op, func() (*Title, error) {
		if mediaType == models.MediaTypeMovie {
			return s.client.Movie(ctx, tmdbID)
		}
		return s.client.TV(ctx, tmdbID)
	})
	if err != nil {
		return nil, err
	}
	s.set(key, title)
	return title, nil
}

func (s *Service) Season(ctx context.Context, tvID int64, number int) (*SeasonListing, error) {
	const op = "metadata.Season"
	if number < 0 {
		return nil, apperr.Invalid(op, "season number must not be negative")
	}
	if !s.client.Configured() {
		return nil, s.notConfigured(op)
	}
	key := fmt.Sprintf("tmdb:season:%d:%d", tvID, number)
	if hit, ok := cache.GetAs[*SeasonListing](s.cache, key); ok {
		return hit, nil
	}
	listing, err := upstream.Do(s.breaker, op, func() (*SeasonListing, error) {
		return s.client.Season(ctx, tvID, number)
	})
	if err != nil {
		return nil, err
	}
	s.set(key, listing)
	return listing, nil
}

func (s *Service) set(key string, v any) {
	if s.cache != nil {
		s.cache.Set(key, v)
	}
}
