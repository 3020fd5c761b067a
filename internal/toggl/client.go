// Package toggl is a client for the Toggl Track API v9, reduced to the two
// calls the sync needs: listing time entries for a range and fetching the
// currently running entry. It also owns payload normalization: everything
// it returns is a canonical model.TimeEntry.
package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/jereslo/worklog-sync/internal/errors"
	"github.com/jereslo/worklog-sync/internal/model"
)

const defaultBaseURL = "https://api.track.toggl.com/api/v9"

// Client is an authenticated Toggl Track API client.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Toggl client using API-token basic auth.
func NewClient(apiToken string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "toggl").Logger(),
	}
}

// NewClientWithBaseURL is like NewClient but targets a custom endpoint.
// Used by tests.
func NewClientWithBaseURL(apiToken, baseURL string, logger zerolog.Logger) *Client {
	c := NewClient(apiToken, logger)
	c.baseURL = baseURL
	return c
}

// ListEntries fetches all time entries with a start time in [from, to].
// The API caps page sizes for large ranges, so the fetch walks the end of
// the window back to the oldest entry seen so far, threading an explicit
// seen-ID set through the loop to drop overlap duplicates. Entries are
// returned normalized.
func (c *Client) ListEntries(ctx context.Context, from, to time.Time) ([]model.TimeEntry, error) {
	var all []model.TimeEntry
	seen := make(map[int64]bool)
	cursor := to

	for {
		c.logger.Debug().
			Time("start", from).
			Time("end", cursor).
			Msg("fetching time entries")

		page, err := c.fetchPage(ctx, from, cursor)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		newFound := false
		for _, w := range page {
			if seen[w.ID] {
				continue
			}
			seen[w.ID] = true
			newFound = true

			entry, err := w.normalize()
			if err != nil {
				return nil, fmt.Errorf("normalizing entry %d: %w", w.ID, err)
			}
			all = append(all, entry)
		}
		// A page of only already-seen entries means the window is exhausted.
		if !newFound {
			break
		}

		// The last entry in a page is the oldest; its start bounds the
		// next window.
		oldest, err := time.Parse(time.RFC3339, page[len(page)-1].Start)
		if err != nil {
			return nil, fmt.Errorf("parsing pagination cursor: %w", err)
		}
		if !oldest.After(from) {
			break
		}
		cursor = oldest
	}

	c.logger.Debug().Int("count", len(all)).Msg("fetched time entries")
	return all, nil
}

// Current returns the running time entry, or nil when no timer is active.
func (c *Client) Current(ctx context.Context) (*model.TimeEntry, error) {
	body, err := c.get(ctx, c.baseURL+"/me/time_entries/current")
	if err != nil {
		return nil, err
	}

	var w *wireEntry
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decoding current entry: %w", err)
	}
	if w == nil {
		return nil, nil
	}
	entry, err := w.normalize()
	if err != nil {
		return nil, fmt.Errorf("normalizing current entry: %w", err)
	}
	return &entry, nil
}

// fetchPage performs one GET against /me/time_entries.
func (c *Client) fetchPage(ctx context.Context, start, end time.Time) ([]wireEntry, error) {
	q := url.Values{}
	q.Set("start_date", start.Format(time.RFC3339))
	q.Set("end_date", end.Format(time.RFC3339))

	body, err := c.get(ctx, c.baseURL+"/me/time_entries?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var page []wireEntry
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding time entries: %w", err)
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.apiToken, "api_token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toggl API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("toggl: %w (status %d)", apperrors.ErrAuthFailure, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.NewAPIError("toggl", resp.StatusCode, string(body))
	}
	return body, nil
}
