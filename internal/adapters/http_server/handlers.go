// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"review_radar/internal/app"
	"review_radar/internal/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type Handlers struct{ Q *app.QueryService }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.index)
	s.mux.Post("/", h.index)
}

type indexData struct {
	Categories       []string
	Dates            []string // last 7 dates for the form dropdown
	SelectedDate     string
	SelectedCategory string
	Reviews          []domain.Review
	Count            int
	Trend            []domain.TrendPoint
	HasResults       bool
	Error            string
}

// index serves the dashboard. GET renders the empty form; POST with date and
// category renders the exact-day matches plus the trailing 7-day trend.
// Read-only either way.
func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	data := indexData{Categories: domain.Categories, Dates: lastDates(7)}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.render(w, http.StatusBadRequest, data.withError("could not parse form"))
			return
		}
		data.SelectedDate = r.PostFormValue("date")
		data.SelectedCategory = r.PostFormValue("category")

		if data.SelectedDate != "" && data.SelectedCategory != "" {
			day, err := time.Parse("2006-01-02", data.SelectedDate)
			if err != nil {
				h.render(w, http.StatusBadRequest, data.withError("date must be YYYY-MM-DD"))
				return
			}
			if !slices.Contains(domain.Categories, data.SelectedCategory) {
				h.render(w, http.StatusBadRequest, data.withError("unknown category"))
				return
			}

			reviews, err := h.Q.DayReviews(r.Context(), day, data.SelectedCategory)
			if err != nil {
				log.Error().Err(err).Msg("day reviews query failed")
				h.render(w, http.StatusInternalServerError, data.withError("query failed"))
				return
			}
			trend, err := h.Q.Trend(r.Context(), day, data.SelectedCategory)
			if err != nil {
				log.Error().Err(err).Msg("trend query failed")
				h.render(w, http.StatusInternalServerError, data.withError("query failed"))
				return
			}

			data.Reviews = reviews
			data.Count = len(reviews)
			data.Trend = trend
			data.HasResults = true
		}
	}

	h.render(w, http.StatusOK, data)
}

func (h *Handlers) render(w http.ResponseWriter, status int, data indexData) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("render dashboard failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write dashboard body")
	}
}

func (d indexData) withError(msg string) indexData {
	d.Error = msg
	return d
}

// lastDates returns today and the n-1 days before it, newest first, for the
// form's date dropdown.
func lastDates(n int) []string {
	now := time.Now().UTC()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, now.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return out
}
