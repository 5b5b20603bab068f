// Package summary writes spoiler-free synopses with an OpenAI-compatible
// chat model, falling back to a trimmed overview.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/progress"
	"github.com/vrsandeep/showtime-go/internal/upstream"
)

// FallbackLength is the rune budget of a trimmed overview.
const FallbackLength = 280

// Request describes what to summarize. Cursor is nil when the viewer has
// not started the title.
type Request struct {
	TMDBID    int64
	MediaType models.MediaType
	Name      string
	Overview  string
	Cursor    *progress.Cursor
}

// Summary is always usable. AI is false when Text is the trimmed overview.
type Summary struct {
	Text string `json:"text"`
	AI   bool   `json:"ai"`
}

type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Summary, error)
}

type Service struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	cache     cache.Cache
	breaker   *upstream.Breaker
}

// NewService returns a summarizer. Without an API key every call falls back.
func NewService(cfg config.LLMConfig, c cache.Cache) *Service {
	s := &Service{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		cache:     c,
		breaker:   upstream.NewBreaker("llm", time.Minute),
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

func cacheKey(req Request) string {
	at := "start"
	if req.Cursor != nil {
		at = req.Cursor.String()
	}
	return fmt.Sprintf("summary:%s:%d:%s", req.MediaType, req.TMDBID, at)
}

// Summarize returns the model's synopsis. On any failure it returns the
// trimmed overview together with an UpstreamUnavailable error.
func (s *Service) Summarize(ctx context.Context, req Request) (Summary, error) {
	const op = "summary.Summarize"
	fallback := Summary{Text: Truncate(req.Overview, FallbackLength)}
	if s.client == nil {
		return fallback, apperr.Upstream(op, upstream.ErrNotConfigured)
	}
	key := cacheKey(req)
	if hit, ok := cache.GetAs[Summary](s.cache, key); ok {
		return hit, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := upstream.Do(s.breaker, op, func() (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return "", fmt.Errorf("model returned an empty summary")
		}
		return text, nil
	})
	if err != nil {
		return fallback, err
	}

	out := Summary{Text: text, AI: true}
	if s.cache != nil {
		s.cache.Set(key, out)
	}
	return out, nil
}

const systemPrompt = "You write short, spoiler-free recaps of TV shows and movies. " +
	"Never reveal anything that happens after the point the viewer has reached. " +
	"Answer in at most three sentences of plain text."

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s (%s)\n", req.Name, req.MediaType)
	if req.Overview != "" {
		fmt.Fprintf(&b, "Official overview: %s\n", req.Overview)
	}
	switch {
	case req.Cursor == nil:
		b.WriteString("The viewer has not started it yet. Describe the premise only.")
	case req.MediaType == models.MediaTypeTV:
		fmt.Fprintf(&b, "The viewer has finished season %d episode %d. Recap everything up to and including it, and nothing after.",
			req.Cursor.Season, req.Cursor.Episode)
	default:
		b.WriteString("Describe the premise only.")
	}
	return b.String()
}

// Truncate cuts s to at most limit runes at a word boundary and appends an
// ellipsis when anything was removed.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
