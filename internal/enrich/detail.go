package enrich

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/metadata"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/progress"
	"github.com/vrsandeep/showtime-go/internal/summary"
)

// Parts of a title detail that can be missing.
const (
	PartMetadata = "metadata"
	PartOffers   = "offers"
	PartSummary  = "summary"
)

// Detail assembles everything known about one library title. profileID may
// be zero, in which case no progress is attached and the summary covers the
// premise only. Upstream failures are listed in Unavailable.
func (e *Enricher) Detail(ctx context.Context, titleID, profileID int64) (*models.TitleDetail, error) {
	title, err := e.repo.GetTrackedTitle(titleID)
	if err != nil {
		return nil, err
	}
	detail := &models.TitleDetail{Title: title, Name: title.Title, Offers: []models.Offer{}}

	if profileID != 0 {
		p, err := e.repo.GetProgress(profileID, titleID)
		switch {
		case err == nil:
			detail.Progress = p
		case !apperr.Is(err, apperr.NotFound):
			return nil, err
		}
	}

	var (
		meta      *metadata.Title
		metaErr   error
		offers    []models.Offer
		offersErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		meta, metaErr = e.meta.Title(ctx, title.MediaType, title.TMDBID)
	})
	wg.Go(func() {
		offers, offersErr = e.offers.Offers(ctx, title.Title, title.MediaType, title.TMDBID)
	})
	wg.Wait()

	if metaErr != nil {
		log.Debug().Err(metaErr).Int64("title_id", titleID).Msg("Title metadata unavailable")
		detail.Unavailable = append(detail.Unavailable, PartMetadata)
	} else {
		detail.Name = meta.Name
		detail.Overview = meta.Overview
		detail.PosterURL = meta.PosterURL
		detail.Runtime = meta.RuntimeMinutes
		detail.SeasonCount = meta.SeasonCount()
		for _, s := range meta.Seasons {
			if s.Number > 0 {
				detail.Seasons = append(detail.Seasons, models.SeasonInfo{Number: s.Number, EpisodeCount: s.EpisodeCount})
			}
		}
		sort.Slice(detail.Seasons, func(i, j int) bool { return detail.Seasons[i].Number < detail.Seasons[j].Number })
	}
	if offersErr != nil {
		log.Debug().Err(offersErr).Int64("title_id", titleID).Msg("Offers unavailable")
		detail.Unavailable = append(detail.Unavailable, PartOffers)
	} else if offers != nil {
		detail.Offers = offers
	}

	// The summary needs the overview, so it runs after metadata.
	req := summary.Request{
		TMDBID:    title.TMDBID,
		MediaType: title.MediaType,
		Name:      detail.Name,
		Overview:  detail.Overview,
	}
	if detail.Progress != nil {
		req.Cursor = &progress.Cursor{Season: detail.Progress.SeasonNumber, Episode: detail.Progress.EpisodeNumber}
	}
	s, err := e.summaries.Summarize(ctx, req)
	if err != nil {
		log.Debug().Err(err).Int64("title_id", titleID).Msg("Summary unavailable, using overview")
		detail.Unavailable = append(detail.Unavailable, PartSummary)
	}
	detail.Summary = s.Text
	detail.SummaryIsAI = s.AI
	return detail, nil
}
