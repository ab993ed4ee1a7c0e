// Package wakatime fetches coding-time stats from the WakaTime API.
package wakatime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/wakagist/internal/model"
)

const maxErrorBody = 512

// Client talks to the WakaTime stats endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected wakatime status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected wakatime status: %s: %s", e.Status, e.Body)
}

type statsResponse struct {
	Data struct {
		Range              string `json:"range"`
		HumanReadableRange string `json:"human_readable_range"`
		Languages          []struct {
			Name    string  `json:"name"`
			Text    string  `json:"text"`
			Percent float64 `json:"percent"`
		} `json:"languages"`
	} `json:"data"`
}

// New returns a client for baseURL authenticated with apiKey.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchLanguages returns the per-language breakdown for statsRange.
// A missing or empty languages list is returned as an empty slice.
func (c *Client) FetchLanguages(ctx context.Context, statsRange string) (model.StatsSummary, error) {
	if statsRange == "" {
		return model.StatsSummary{}, fmt.Errorf("stats range is required")
	}
	endpoint := c.baseURL + "/users/current/stats/" + url.PathEscape(statsRange)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return model.StatsSummary{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", AuthHeader(c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.StatsSummary{}, fmt.Errorf("stats request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return model.StatsSummary{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.StatsSummary{}, fmt.Errorf("failed to decode stats response: %w", err)
	}

	summary := model.StatsSummary{
		Range:     payload.Data.HumanReadableRange,
		Languages: make([]model.StatsRecord, 0, len(payload.Data.Languages)),
	}
	if summary.Range == "" {
		summary.Range = payload.Data.Range
	}
	for _, lang := range payload.Data.Languages {
		summary.Languages = append(summary.Languages, model.StatsRecord{
			Name:         lang.Name,
			DurationText: lang.Text,
			Percent:      lang.Percent,
		})
	}
	return summary, nil
}

// AuthHeader builds the Basic authorization value WakaTime expects for secret keys.
func AuthHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey))
}
