// internal/adapters/playstore/client.go
package playstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
)

// Client reads the paginated review feed of the scrape gateway. One GET per
// page, newest reviews first, continuation via an opaque token. There is no
// retry loop: a failed page truncates the current fetch and the next
// scheduled run starts over.
type Client struct {
	base    string
	hc      *http.Client
	lang    string
	country string
	count   int
	rl      *rate.Limiter
}

func New(base, lang, country string, pageSize, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: 20 * time.Second},
		lang:    lang,
		country: country,
		count:   pageSize,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Wire format ----

type reviewJSON struct {
	ReviewID string    `json:"reviewId"`
	UserName string    `json:"userName"`
	Score    int       `json:"score"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

type pageJSON struct {
	Reviews   []reviewJSON `json:"reviews"`
	NextToken string       `json:"nextToken"`
}

// ---- Public API ----

var (
	ErrNotFound     = errors.New("playstore: app not found")
	ErrUnauthorized = errors.New("playstore: unauthorized")
	ErrForbidden    = errors.New("playstore: forbidden")
)

// ReviewsPage fetches one page for appID. token resumes pagination; pass ""
// for the first page. The returned token is "" when no pages remain.
func (c *Client) ReviewsPage(ctx context.Context, appID, token string) ([]domain.Review, string, error) {
	q := url.Values{}
	q.Set("lang", c.lang)
	q.Set("country", c.country)
	q.Set("count", strconv.Itoa(c.count))
	q.Set("sort", "newest")
	if token != "" {
		q.Set("token", token)
	}
	u := fmt.Sprintf("%s/apps/%s/reviews?%s", c.base, url.PathEscape(appID), q.Encode())

	var page pageJSON
	if err := c.get(ctx, u, &page); err != nil {
		return nil, "", err
	}

	out := make([]domain.Review, 0, len(page.Reviews))
	for _, rv := range page.Reviews {
		out = append(out, domain.Review{
			ReviewID: rv.ReviewID,
			UserName: rv.UserName,
			Rating:   rv.Score,
			Content:  rv.Content,
			Date:     rv.At.UTC(),
		})
	}
	return out, page.NextToken, nil
}

// ---- Internals ----

// get performs a single rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-radar/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("playstore", "reviews", 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("playstore", "reviews", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
