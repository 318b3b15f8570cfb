package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/snapshot"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonWordChars   = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeText lowercases, collapses whitespace runs to a single space and
// strips everything that is neither a word character nor whitespace.
// Idempotent: applying it to already-normalized text is a no-op.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = nonWordChars.ReplaceAllString(s, "")
	return s
}

// CleanReviews rewrites the content column of the raw snapshot and writes
// the cleaned snapshot. A missing raw snapshot aborts the stage with a log
// and no error; downstream then finds nothing as well.
func (p *Pipeline) CleanReviews(ctx context.Context, appID string) error {
	start := time.Now()

	rows, err := snapshot.Read(p.rawPath(appID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error().Str("app_id", appID).Msg("raw snapshot not found, make sure the fetch stage has run")
			observability.ObserveStage("clean", "skipped", time.Since(start))
			return nil
		}
		observability.ObserveStage("clean", "error", time.Since(start))
		return fmt.Errorf("read raw snapshot: %w", err)
	}

	for i := range rows {
		rows[i].Content = NormalizeText(rows[i].Content)
	}

	if err := snapshot.Write(p.cleanPath(appID), rows); err != nil {
		observability.ObserveStage("clean", "error", time.Since(start))
		return fmt.Errorf("write cleaned snapshot: %w", err)
	}
	log.Info().Int("count", len(rows)).Str("app_id", appID).Msg("preprocessed reviews saved to cleaned snapshot")
	observability.ObserveStage("clean", "ok", time.Since(start))
	return nil
}
