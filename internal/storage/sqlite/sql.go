package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  review_id TEXT    NOT NULL UNIQUE,
  user_name TEXT    NOT NULL DEFAULT '',
  rating    INTEGER NOT NULL DEFAULT 0,
  content   TEXT    NOT NULL DEFAULT '',
  date      TEXT    NOT NULL,
  category  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_date_category ON reviews (date, category);
`

// Insert-if-absent keyed on review_id; existing rows are never updated.
const insertReviewSQL = `
INSERT INTO reviews (review_id, user_name, rating, content, date, category)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(review_id) DO NOTHING
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Dates are stored as RFC3339 UTC text, so the half-open day range is a plain
// string comparison.
const listByDaySQL = `
SELECT review_id, user_name, rating, content, date, category
FROM reviews
WHERE date >= ? AND date < ? AND category = ?
ORDER BY date, id
`

const countByDaySQL = `
SELECT COUNT(*)
FROM reviews
WHERE date >= ? AND date < ? AND category = ?
`
