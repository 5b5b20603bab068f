// Package justwatch looks up streaming offers for a title through the
// JustWatch GraphQL endpoint.
package justwatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/validation"
)

const searchQuery = `query SearchTitles($country: Country!, $language: Language!, $first: Int!, $filter: TitleFilter) {
  popularTitles(country: $country, first: $first, filter: $filter) {
    edges {
      node {
        id
        objectType
        content(country: $country, language: $language) {
          title
          externalIds { tmdbId }
        }
        offers(country: $country, platform: WEB) {
          monetizationType
          standardWebURL
          package { clearName }
        }
      }
    }
  }
}`

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   *searchData `json:"data"`
	Errors []gqlError  `json:"errors"`
}

type searchData struct {
	PopularTitles struct {
		Edges []struct {
			Node titleNode `json:"node"`
		} `json:"edges" validate:"dive"`
	} `json:"popularTitles"`
}

type titleNode struct {
	ID         string `json:"id" validate:"required"`
	ObjectType string `json:"objectType" validate:"required"`
	Content    struct {
		Title       string `json:"title"`
		ExternalIDs struct {
			TMDBID string `json:"tmdbId"`
		} `json:"externalIds"`
	} `json:"content"`
	Offers []offerNode `json:"offers" validate:"dive"`
}

type offerNode struct {
	MonetizationType string `json:"monetizationType" validate:"required"`
	StandardWebURL   string `json:"standardWebURL"`
	Package          struct {
		ClearName string `json:"clearName" validate:"required"`
	} `json:"package"`
}

// Client posts GraphQL queries. It does not cache or retry.
type Client struct {
	url      string
	country  string
	language string
	httpc    *http.Client
}

func NewClient(cfg config.JustWatchConfig, httpc *http.Client) *Client {
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	country := strings.ToUpper(cfg.Country)
	if country == "" {
		country = "US"
	}
	language := strings.ToLower(cfg.Language)
	if language == "" {
		language = "en"
	}
	return &Client{url: cfg.URL, country: country, language: language, httpc: httpc}
}

func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

func objectType(mt models.MediaType) string {
	if mt == models.MediaTypeMovie {
		return "MOVIE"
	}
	return "SHOW"
}

// Offers searches by name and returns the offers of the result whose TMDB id
// matches. No match yields an empty list.
func (c *Client) Offers(ctx context.Context, name string, mediaType models.MediaType, tmdbID int64) ([]models.Offer, error) {
	body, err := json.Marshal(gqlRequest{
		OperationName: "SearchTitles",
		Query:         searchQuery,
		Variables: map[string]any{
			"country":  c.country,
			"language": c.language,
			"first":    5,
			"filter": map[string]any{
				"searchQuery": name,
				"objectTypes": []string{objectType(mediaType)},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("justwatch: unexpected status %d", resp.StatusCode)
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("justwatch: malformed response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("justwatch: graphql error: %s", out.Errors[0].Message)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("justwatch: response has no data")
	}
	if err := validation.Struct(out.Data); err != nil {
		return nil, fmt.Errorf("justwatch: rejected response: %w", err)
	}

	want := strconv.FormatInt(tmdbID, 10)
	for _, edge := range out.Data.PopularTitles.Edges {
		node := edge.Node
		if node.Content.ExternalIDs.TMDBID == want && node.ObjectType == objectType(mediaType) {
			return dedupe(node.Offers), nil
		}
	}
	return []models.Offer{}, nil
}

// dedupe keeps the first offer per (provider, monetization), in response order.
func dedupe(offers []offerNode) []models.Offer {
	seen := make(map[string]bool, len(offers))
	out := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		key := o.Package.ClearName + "|" + o.MonetizationType
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.Offer{
			Provider:     o.Package.ClearName,
			Monetization: strings.ToLower(o.MonetizationType),
			URL:          o.StandardWebURL,
		})
	}
	return out
}
