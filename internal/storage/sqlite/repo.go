package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"review_radar/internal/domain"
)

// Open opens (creating if needed) the single-file database at path and
// applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a larger pool just trades errors for locks.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) (int, error) {
	if len(rs) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, rv := range rs {
		res, err := tx.ExecContext(ctx, insertReviewSQL,
			rv.ReviewID,
			rv.UserName,
			rv.Rating,
			rv.Content,
			fmtDate(rv.Date),
			rv.Category,
		)
		if err != nil {
			return 0, fmt.Errorf("insert review %s: %w", rv.ReviewID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			log.Info().Str("review_id", rv.ReviewID).Msg("review already exists, skipping")
			continue
		}
		inserted++
		log.Info().Str("review_id", rv.ReviewID).Str("category", rv.Category).Msg("review saved")
	}

	// The whole batch lands together or not at all.
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *Repo) ListByDay(ctx context.Context, day time.Time, category string) ([]domain.Review, error) {
	start, end := dayRange(day)
	rows, err := r.db.QueryContext(ctx, listByDaySQL, start, end, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var date string
		if err := rows.Scan(&rv.ReviewID, &rv.UserName, &rv.Rating, &rv.Content, &date, &rv.Category); err != nil {
			return nil, err
		}
		if rv.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("review %s: bad stored date %q: %w", rv.ReviewID, date, err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) CountByDay(ctx context.Context, day time.Time, category string) (int, error) {
	start, end := dayRange(day)
	var n int
	err := r.db.QueryRowContext(ctx, countByDaySQL, start, end, category).Scan(&n)
	return n, err
}

func fmtDate(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// dayRange returns [00:00, next day 00:00) of day's UTC calendar date as
// stored-text bounds.
func dayRange(day time.Time) (string, string) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return fmtDate(start), fmtDate(start.AddDate(0, 0, 1))
}
