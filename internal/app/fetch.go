package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
	"review_radar/internal/snapshot"
)

// FetchReviews pages newest-first through the source until it runs out of
// pages or sees the first review older than the lookback window. The source
// returns reviews in strict descending date order within and across pages,
// so that first old review ends the whole fetch; the rest of its page and
// all later pages are discarded.
//
// A source error truncates the fetch to what was already gathered instead
// of failing the run.
func (p *Pipeline) FetchReviews(ctx context.Context, appID string) error {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-p.window)
	log.Info().Str("app_id", appID).Time("cutoff", cutoff).Msg("starting to fetch reviews")

	var all []domain.Review
	token := ""
	for {
		page, next, err := p.source.ReviewsPage(ctx, appID, token)
		if err != nil {
			log.Error().Err(err).Str("app_id", appID).Msg("error occurred while fetching reviews")
			break
		}
		if len(page) == 0 {
			log.Info().Str("app_id", appID).Msg("no more reviews to fetch")
			break
		}

		stop := false
		for _, rv := range page {
			if rv.Date.Before(cutoff) {
				stop = true
				break
			}
			all = append(all, rv)
		}
		if stop || next == "" {
			break
		}
		token = next
	}

	if len(all) == 0 {
		log.Info().Str("app_id", appID).Msg("no new reviews to save")
		observability.ObserveStage("fetch", "skipped", time.Since(start))
		return nil
	}

	if err := os.MkdirAll(p.appDir(appID), 0o755); err != nil {
		observability.ObserveStage("fetch", "error", time.Since(start))
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := snapshot.Write(p.rawPath(appID), all); err != nil {
		observability.ObserveStage("fetch", "error", time.Since(start))
		return fmt.Errorf("write raw snapshot: %w", err)
	}
	log.Info().Int("count", len(all)).Str("app_id", appID).Msg("reviews saved to raw snapshot")
	observability.ObserveStage("fetch", "ok", time.Since(start))
	return nil
}
