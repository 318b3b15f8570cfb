// internal/adapters/sentiment/client.go
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
)

// Client talks to the sentiment inference sidecar. The sidecar keeps the
// pretrained model in memory for its process lifetime; this client is built
// once at startup and shared.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	// (negative, neutral, positive), softmax output of the model head.
	Scores []float64 `json:"scores"`
}

// Score returns the three class probabilities for text.
func (c *Client) Score(ctx context.Context, text string) (domain.SentimentScores, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return domain.SentimentScores{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/score", bytes.NewReader(body))
	if err != nil {
		return domain.SentimentScores{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sentiment", "score", 0, time.Since(start))
		return domain.SentimentScores{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sentiment", "score", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.SentimentScores{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return domain.SentimentScores{}, err
	}
	if len(sr.Scores) != 3 {
		return domain.SentimentScores{}, fmt.Errorf("expected 3 scores, got %d", len(sr.Scores))
	}
	return domain.SentimentScores{
		Negative: sr.Scores[0],
		Neutral:  sr.Scores[1],
		Positive: sr.Scores[2],
	}, nil
}
