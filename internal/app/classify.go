package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
	"review_radar/internal/snapshot"
)

// keywordRules is scanned in declaration order and the first category with a
// matching keyword replaces whatever the model decided. Bugs before
// Complaints before Crashes before Praises is deliberate precedence: a
// review matching both "bug" and "love" is always Bugs. Other has no
// keywords and never matches.
var keywordRules = []struct {
	category string
	keywords []string
}{
	{domain.CategoryBugs, []string{"bug", "issue", "error", "problem", "glitch", "fix"}},
	{domain.CategoryComplaints, []string{"hate", "dislike", "bad", "terrible", "annoying", "poor"}},
	{domain.CategoryCrashes, []string{"crash", "freeze", "unresponsive", "hang", "close unexpectedly"}},
	{domain.CategoryPraises, []string{"love", "amazing", "great", "excellent", "awesome", "perfect", "good", "impressive", "satisfied"}},
	{domain.CategoryOther, nil},
}

// ClassifyText assigns exactly one category to cleaned review text: model
// sentiment first, then the keyword override. A model failure classifies
// the row Other immediately; the keyword scan is skipped on that path.
func (p *Pipeline) ClassifyText(ctx context.Context, text string) string {
	scores, err := p.model.Score(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("error in classification")
		return domain.CategoryOther
	}

	category := domain.CategoryOther
	switch {
	case scores.Positive > 0.5:
		category = domain.CategoryPraises
	case scores.Negative > 0.6:
		category = domain.CategoryComplaints
	}

	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return category
}

// ClassifyReviews categorizes every row of the cleaned snapshot and upserts
// the batch. Rows whose review_id already exists are skipped by the store;
// the batch commits in one transaction or the stage fails with a logged
// error and nothing is silently half-written.
func (p *Pipeline) ClassifyReviews(ctx context.Context, appID string) error {
	start := time.Now()

	rows, err := snapshot.Read(p.cleanPath(appID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error().Str("app_id", appID).Msg("cleaned snapshot not found, make sure the clean stage has run")
			observability.ObserveStage("classify", "skipped", time.Since(start))
			return nil
		}
		observability.ObserveStage("classify", "error", time.Since(start))
		return fmt.Errorf("read cleaned snapshot: %w", err)
	}

	for i := range rows {
		rows[i].Category = p.ClassifyText(ctx, rows[i].Content)
	}

	inserted, err := p.repo.UpsertReviews(ctx, rows)
	if err != nil {
		observability.ObserveStage("classify", "error", time.Since(start))
		return fmt.Errorf("save categorized reviews: %w", err)
	}
	observability.ObservePersist(inserted, len(rows)-inserted)
	p.invalidate(ctx, rows)

	log.Info().
		Int("classified", len(rows)).
		Int("inserted", inserted).
		Str("app_id", appID).
		Msg("categorized reviews saved to the database")
	observability.ObserveStage("classify", "ok", time.Since(start))
	return nil
}
