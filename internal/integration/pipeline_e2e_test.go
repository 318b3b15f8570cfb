package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"review_radar/internal/adapters/playstore"
	"review_radar/internal/adapters/sentiment"
	"review_radar/internal/app"
	"review_radar/internal/domain"
	sqliterepo "review_radar/internal/storage/sqlite"
)

const appID = "com.example.app"

// fake review source: one page, three reviews newest first, no continuation.
// Reviews sit at midday of day so the per-day assertions below cannot race a
// UTC day boundary.
func sourceServer(t *testing.T, day time.Time) *httptest.Server {
	t.Helper()
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, appID) {
			w.WriteHeader(404)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reviews": []map[string]any{
				{"reviewId": "r1", "userName": "Ana", "score": 1, "content": "This app has a terrible bug", "at": noon},
				{"reviewId": "r2", "userName": "Bob", "score": 5, "content": "I love this app", "at": noon.Add(-1 * time.Minute)},
				{"reviewId": "r3", "userName": "Cat", "score": 3, "content": "meh, nothing special", "at": noon.Add(-2 * time.Minute)},
			},
			"nextToken": "",
		})
	}))
}

// fake sentiment sidecar: crude scoring keyed on the cleaned text.
func modelServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(400)
			return
		}
		scores := []float64{0.2, 0.6, 0.2} // neutral default
		switch {
		case strings.Contains(in.Text, "love"):
			scores = []float64{0.05, 0.15, 0.8}
		case strings.Contains(in.Text, "terrible"):
			scores = []float64{0.8, 0.15, 0.05}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
}

func TestPipeline_EndToEnd(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	src := sourceServer(t, now)
	defer src.Close()
	mdl := modelServer(t)
	defer mdl.Close()

	source, err := playstore.New(src.URL, "en", "us", 200, 100)
	if err != nil {
		t.Fatalf("source client: %v", err)
	}
	model, err := sentiment.New(mdl.URL)
	if err != nil {
		t.Fatalf("model client: %v", err)
	}

	dir := t.TempDir()
	db, err := sqliterepo.Open(filepath.Join(dir, "reviews.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer db.Close()
	repo := sqliterepo.New(db)

	pipe := app.NewPipeline(source, model, repo, nil, app.PipelineOptions{
		DataDir: dir,
		AppIDs:  []string{appID},
	})

	ctx := context.Background()
	pipe.RunAll(ctx)

	want := map[string]string{
		"r1": domain.CategoryBugs,    // "terrible bug": bug keyword beats the Complaints signal
		"r2": domain.CategoryPraises, // "love": praise keyword and positive score agree
		"r3": domain.CategoryOther,   // no keyword, neutral score
	}
	got := map[string]domain.Review{}
	for _, cat := range domain.Categories {
		rows, err := repo.ListByDay(ctx, now, cat)
		if err != nil {
			t.Fatalf("list %s: %v", cat, err)
		}
		for _, rv := range rows {
			got[rv.ReviewID] = rv
		}
	}
	if len(got) != 3 {
		t.Fatalf("store has %d rows, want 3: %+v", len(got), got)
	}
	for id, cat := range want {
		rv, ok := got[id]
		if !ok {
			t.Fatalf("row %s missing", id)
		}
		if rv.Category != cat {
			t.Fatalf("row %s category = %s, want %s", id, rv.Category, cat)
		}
	}

	// the stored content is the cleaned text, not the raw body
	if got["r1"].Content != "this app has a terrible bug" {
		t.Fatalf("stored content = %q", got["r1"].Content)
	}
	if got["r3"].Content != "meh nothing special" {
		t.Fatalf("stored content = %q", got["r3"].Content)
	}

	// a second full pass over the same feed must not duplicate anything
	pipe.RunAll(ctx)
	n := 0
	for _, cat := range domain.Categories {
		c, err := repo.CountByDay(ctx, now, cat)
		if err != nil {
			t.Fatalf("count %s: %v", cat, err)
		}
		n += c
	}
	if n != 3 {
		t.Fatalf("store has %d rows after rerun, want 3", n)
	}
}
