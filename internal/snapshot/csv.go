// Package snapshot reads and writes the flat CSV files the pipeline stages
// hand off through. Each file is fully overwritten per run; it is an
// operator-visible queue of exactly one pending batch.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"review_radar/internal/domain"
)

const (
	RawFile   = "reviews.csv"
	CleanFile = "preprocessed_reviews.csv"
)

var header = []string{"review_id", "user_name", "rating", "content", "date", "category"}

// Write replaces path with the given rows. The category column is empty for
// pre-classification snapshots.
func Write(path string, rows []domain.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rv := range rows {
		rec := []string{
			rv.ReviewID,
			rv.UserName,
			strconv.Itoa(rv.Rating),
			rv.Content,
			rv.Date.UTC().Format(time.RFC3339),
			rv.Category,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// Read parses path back into rows. A missing file surfaces as an error
// satisfying errors.Is(err, os.ErrNotExist) so stages can treat "no input"
// separately from corrupt input.
func Read(path string) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	rows := make([]domain.Review, 0, len(recs)-1)
	for i, rec := range recs[1:] { // skip header
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d", path, i+2, len(rec), len(header))
		}
		rating, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d rating: %w", path, i+2, err)
		}
		date, err := time.Parse(time.RFC3339, rec[4])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d date: %w", path, i+2, err)
		}
		rows = append(rows, domain.Review{
			ReviewID: rec[0],
			UserName: rec[1],
			Rating:   rating,
			Content:  rec[3],
			Date:     date,
			Category: rec[5],
		})
	}
	return rows, nil
}
