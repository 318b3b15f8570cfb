package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type ReviewRepository interface {
	// UpsertReviews inserts rows whose review_id is new and skips the rest,
	// all inside a single transaction. Returns the number inserted.
	UpsertReviews(ctx context.Context, rs []Review) (int, error)

	// Read paths. day is truncated to its calendar day; rows match when
	// date falls in [day, day+24h) and category equals the given value.
	ListByDay(ctx context.Context, day time.Time, category string) ([]Review, error)
	CountByDay(ctx context.Context, day time.Time, category string) (int, error)
}

// ReviewSource returns one page of the external review feed, newest first.
// token is the opaque continuation cursor; the returned token is empty on
// the last page.
type ReviewSource interface {
	ReviewsPage(ctx context.Context, appID, token string) ([]Review, string, error)
}

// SentimentModel scores free text into three class probabilities.
type SentimentModel interface {
	Score(ctx context.Context, text string) (SentimentScores, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
