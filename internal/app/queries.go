package app

import (
	"context"
	"fmt"
	"time"

	"review_radar/internal/domain"
)

const dayFormat = "2006-01-02"

func dayKey(day, category string) string {
	return fmt.Sprintf("reviews:%s:%s", day, category)
}

func trendKey(day, category string) string {
	return fmt.Sprintf("trend:%s:%s", day, category)
}

// QueryService is the dashboard read path. Pure reads; results are cached
// with a short TTL.
type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// DayReviews returns the reviews of day's calendar date with the given
// category.
func (s *QueryService) DayReviews(ctx context.Context, day time.Time, category string) ([]domain.Review, error) {
	key := dayKey(day.UTC().Format(dayFormat), category)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListByDay(ctx, day, category)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// Trend returns seven points for the days ending at day inclusive, oldest
// first, counting rows of the given category per day.
func (s *QueryService) Trend(ctx context.Context, day time.Time, category string) ([]domain.TrendPoint, error) {
	key := trendKey(day.UTC().Format(dayFormat), category)
	var out []domain.TrendPoint
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	out = make([]domain.TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		n, err := s.repo.CountByDay(ctx, d, category)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.TrendPoint{Date: d.UTC().Format(dayFormat), Count: n})
	}

	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
