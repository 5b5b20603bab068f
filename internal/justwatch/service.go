package justwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/upstream"
)

// OfferFinder is what title enrichment depends on.
type OfferFinder interface {
	Offers(ctx context.Context, name string, mediaType models.MediaType, tmdbID int64) ([]models.Offer, error)
}

// Service adds caching and a circuit breaker to Client.
type Service struct {
	client  *Client
	cache   cache.Cache
	breaker *upstream.Breaker
}

func NewService(client *Client, c cache.Cache) *Service {
	return &Service{client: client, cache: c, breaker: upstream.NewBreaker("justwatch", time.Minute)}
}

func (s *Service) Offers(ctx context.Context, name string, mediaType models.MediaType, tmdbID int64) ([]models.Offer, error) {
	const op = "justwatch.Offers"
	if !s.client.Configured() {
		return nil, apperr.Upstream(op, upstream.ErrNotConfigured)
	}
	key := fmt.Sprintf("justwatch:%s:%d", mediaType, tmdbID)
	if hit, ok := cache.GetAs[[]models.Offer](s.cache, key); ok {
		return hit, nil
	}
	offers, err := upstream.Do(s.breaker, op, func() ([]models.Offer, error) {
		return s.client.Offers(ctx, name, mediaType, tmdbID)
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, offers)
	}
	return offers, nil
}
