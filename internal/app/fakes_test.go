package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"review_radar/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	pages  [][]domain.Review
	failAt int // page index that errors; -1 disables
	calls  int
}

func (f *fakeSource) ReviewsPage(ctx context.Context, appID, token string) ([]domain.Review, string, error) {
	i := f.calls
	f.calls++
	if f.failAt >= 0 && i == f.failAt {
		return nil, "", errors.New("source unavailable")
	}
	if i >= len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if i+1 < len(f.pages) {
		next = fmt.Sprintf("t%d", i+1)
	}
	return f.pages[i], next, nil
}

type fakeModel struct {
	scores map[string]domain.SentimentScores
	def    domain.SentimentScores
	err    error
}

func (f *fakeModel) Score(ctx context.Context, text string) (domain.SentimentScores, error) {
	if f.err != nil {
		return domain.SentimentScores{}, f.err
	}
	if s, ok := f.scores[text]; ok {
		return s, nil
	}
	return f.def, nil
}

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Review
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string]domain.Review{}} }

func (f *fakeRepo) UpsertReviews(ctx context.Context, rs []domain.Review) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inserted := 0
	for _, rv := range rs {
		if _, ok := f.rows[rv.ReviewID]; ok {
			continue
		}
		f.rows[rv.ReviewID] = rv
		inserted++
	}
	return inserted, nil
}

func (f *fakeRepo) ListByDay(ctx context.Context, day time.Time, category string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := day.UTC().Format("2006-01-02")
	var out []domain.Review
	for _, rv := range f.rows {
		if rv.Category == category && rv.Date.UTC().Format("2006-01-02") == want {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByDay(ctx context.Context, day time.Time, category string) (int, error) {
	rows, err := f.ListByDay(ctx, day, category)
	return len(rows), err
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Review:
		*d = v.([]domain.Review)
	case *[]domain.TrendPoint:
		*d = v.([]domain.TrendPoint)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}
