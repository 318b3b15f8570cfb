package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_radar/internal/domain"
	"review_radar/internal/snapshot"
)

// Pipeline runs the scrape → clean → classify batch for the configured apps.
// Stages hand off through CSV snapshots under DataDir/<appID>/ and are
// decoupled by file presence: a stage that finds no input logs and no-ops, so
// later stages always run and cascade into no-ops themselves.
type Pipeline struct {
	source domain.ReviewSource
	model  domain.SentimentModel
	repo   domain.ReviewRepository
	cache  domain.Cache

	dataDir string
	appIDs  []string
	window  time.Duration
	workers int

	// Serializes whole runs; an overlapping tick is skipped, not queued.
	runMu sync.Mutex
}

type PipelineOptions struct {
	DataDir      string
	AppIDs       []string
	LookbackDays int
	Workers      int
}

func NewPipeline(src domain.ReviewSource, model domain.SentimentModel, repo domain.ReviewRepository, cache domain.Cache, opts PipelineOptions) *Pipeline {
	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 7
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Pipeline{
		source:  src,
		model:   model,
		repo:    repo,
		cache:   cache,
		dataDir: opts.DataDir,
		appIDs:  opts.AppIDs,
		window:  time.Duration(opts.LookbackDays) * 24 * time.Hour,
		workers: opts.Workers,
	}
}

// RunAll executes one full pipeline pass over every configured app id,
// bounded by the worker semaphore. If the previous pass has not finished the
// tick is dropped.
func (p *Pipeline) RunAll(ctx context.Context) {
	if !p.runMu.TryLock() {
		log.Warn().Msg("previous pipeline run still in progress, skipping this tick")
		return
	}
	defer p.runMu.Unlock()

	sem := semaphore.NewWeighted(int64(p.workers))
	var wg sync.WaitGroup
	for _, id := range p.appIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}
		wg.Add(1)
		go func(appID string) {
			defer wg.Done()
			defer sem.Release(1)
			p.Run(ctx, appID)
		}(id)
	}
	wg.Wait()
	log.Info().Msg("scheduled job completed")
}

// Run executes the three stages for one app. Every stage is invoked
// unconditionally; each catches its own missing-input condition, so an
// earlier failure surfaces as logged no-ops downstream rather than as
// control flow here.
func (p *Pipeline) Run(ctx context.Context, appID string) {
	if err := p.FetchReviews(ctx, appID); err != nil {
		log.Error().Err(err).Str("app_id", appID).Msg("fetch stage failed")
	}
	if err := p.CleanReviews(ctx, appID); err != nil {
		log.Error().Err(err).Str("app_id", appID).Msg("clean stage failed")
	}
	if err := p.ClassifyReviews(ctx, appID); err != nil {
		log.Error().Err(err).Str("app_id", appID).Msg("classify stage failed")
	}
}

func (p *Pipeline) appDir(appID string) string {
	return filepath.Join(p.dataDir, appID)
}

func (p *Pipeline) rawPath(appID string) string {
	return filepath.Join(p.appDir(appID), snapshot.RawFile)
}

func (p *Pipeline) cleanPath(appID string) string {
	return filepath.Join(p.appDir(appID), snapshot.CleanFile)
}

// invalidate drops the dashboard cache entries a freshly persisted batch may
// have staled. Best effort: only the (day, category) pairs present in the
// batch are cleared; anything missed ages out with the TTL.
func (p *Pipeline) invalidate(ctx context.Context, rows []domain.Review) {
	if p.cache == nil {
		return
	}
	seen := map[string]struct{}{}
	for _, rv := range rows {
		d := rv.Date.UTC().Format("2006-01-02")
		for _, key := range []string{dayKey(d, rv.Category), trendKey(d, rv.Category)} {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			_ = p.cache.Del(ctx, key)
		}
	}
}
