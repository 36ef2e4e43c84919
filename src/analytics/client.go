// Package analytics fetches the precomputed hourly summary used by the
// alternate bar-chart view. The core timeline never depends on this call;
// a failure here surfaces as an inline banner, nothing more.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Treystu/BMSview-sub013/src/logging"
)

// HourlyAverage is one bar of the summary: mean metric values over an hour.
type HourlyAverage struct {
	Hour   time.Time          `json:"hour"`
	Values map[string]float64 `json:"values"`
}

// BaselinePoint is one point of the typical-day curve (hour of day 0-23).
type BaselinePoint struct {
	HourOfDay int     `json:"hour_of_day"`
	Value     float64 `json:"value"`
}

// Summary is the full auxiliary payload for one monitored system.
type Summary struct {
	System   string          `json:"system"`
	Hours    []HourlyAverage `json:"hours"`
	Baseline []BaselinePoint `json:"baseline,omitempty"`
}

// FetchError wraps any failure of the auxiliary fetch. It never blocks the
// timeline view.
type FetchError struct {
	System string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("analytics fetch for %q failed: %v", e.System, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the analytics endpoint. One request at a time is the
// caller's contract; there is no retry and no backoff, a failed fetch is
// terminal for that request.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the given base URL, e.g.
// "https://bms.example.net/api/analytics".
func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{base: base, http: &http.Client{Timeout: timeout}}
}

// FetchSummary retrieves the hourly summary for one system. Callers run it
// off the UI goroutine; note there is no cancellation of an in-flight
// request when the target system changes, so a stale response can arrive
// after a newer request's view is already showing (known behavior, kept).
func (c *Client) FetchSummary(ctx context.Context, system string) (*Summary, error) {
	u := fmt.Sprintf("%s?system=%s", c.base, url.QueryEscape(system))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{System: system, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{System: system, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{System: system, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	var sum Summary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return nil, &FetchError{System: system, Err: fmt.Errorf("decode: %w", err)}
	}
	logging.Debugf("analytics summary for %s: %d hours in %s", system, len(sum.Hours), time.Since(start))
	return &sum, nil
}
