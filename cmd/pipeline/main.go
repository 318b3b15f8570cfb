package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/adapters/playstore"
	redisad "review_radar/internal/adapters/redis"
	"review_radar/internal/adapters/sentiment"
	"review_radar/internal/app"
	"review_radar/internal/shared"
	sqliterepo "review_radar/internal/storage/sqlite"
)

func main() {
	once := flag.Bool("once", false, "run a single pipeline pass and exit")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve()

	log.Info().
		Str("base", cfg.PlayBase).
		Strs("apps", cfg.AppIDs).
		Int("lookback_days", cfg.LookbackDays).
		Int("workers", cfg.Workers).
		Msg("pipeline starting")

	db, err := sqliterepo.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")
	repo := sqliterepo.New(db)

	source, err := playstore.New(cfg.PlayBase, cfg.Lang, cfg.Country, cfg.PageSize, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review source client")
	}
	// the model client is built once and held for the process lifetime
	model, err := sentiment.New(cfg.SentimentBase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sentiment client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	pipe := app.NewPipeline(source, model, repo, cache, app.PipelineOptions{
		DataDir:      cfg.DataDir,
		AppIDs:       cfg.AppIDs,
		LookbackDays: cfg.LookbackDays,
		Workers:      cfg.Workers,
	})

	if *once {
		pipe.RunAll(ctx)
		log.Info().Msg("single pipeline pass completed")
		return
	}

	spec := cfg.CronSpec
	if cfg.IntervalMinutes > 0 {
		spec = fmt.Sprintf("@every %dm", cfg.IntervalMinutes)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { pipe.RunAll(ctx) }); err != nil {
		log.Fatal().Err(err).Str("spec", spec).Msg("invalid schedule")
	}
	log.Info().Str("spec", spec).Msg("scheduler started")
	c.Run() // blocks
}
