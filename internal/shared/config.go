package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	SQLitePath string
	DataDir    string

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	PlayBase     string
	AppIDs       []string
	Lang         string
	Country      string
	PageSize     int
	LookbackDays int

	SentimentBase string

	CronSpec        string
	IntervalMinutes int
	Workers         int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		SQLitePath: env("SQLITE_PATH", "reviews.db"),
		DataDir:    env("DATA_DIR", "."),

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		PlayBase:     env("PLAY_BASE_URL", "http://localhost:7070"),
		AppIDs:       splitCSV(env("APP_IDS", "com.superplaystudios.dicedreams")),
		Lang:         env("REVIEW_LANG", "en"),
		Country:      env("REVIEW_COUNTRY", "us"),
		PageSize:     atoi("PAGE_SIZE", 200),
		LookbackDays: atoi("LOOKBACK_DAYS", 7),

		SentimentBase: env("SENTIMENT_BASE_URL", "http://localhost:7071"),

		CronSpec:        env("CRON_SPEC", "0 1 * * *"),
		IntervalMinutes: atoi("INTERVAL_MINUTES", 0),
		Workers:         atoi("PIPELINE_WORKERS", 1),
	}
	if len(c.AppIDs) == 0 {
		log.Warn().Msg("APP_IDS is empty; pipeline runs will fetch nothing")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
