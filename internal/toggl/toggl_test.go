package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jereslo/worklog-sync/internal/errors"
)

func serveJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func wire(id int64, desc, start string, stop *string, duration *int64) map[string]any {
	m := map[string]any{
		"id":          id,
		"description": desc,
		"start":       start,
	}
	if stop != nil {
		m["stop"] = *stop
	}
	if duration != nil {
		m["duration"] = *duration
	}
	return m
}

func strp(s string) *string { return &s }
func i64p(n int64) *int64   { return &n }

func TestListEntriesSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "secret-token", user)
		assert.Equal(t, "api_token", pass)
		assert.Equal(t, "/me/time_entries", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("start_date"))
		assert.NotEmpty(t, r.URL.Query().Get("end_date"))

		serveJSON(t, w, []map[string]any{
			wire(2, "Task 2", "2025-04-09T11:00:00Z", strp("2025-04-09T12:00:00Z"), i64p(3600)),
			wire(1, "Task 1", "2025-04-09T09:00:00Z", strp("2025-04-09T10:30:00Z"), i64p(5400)),
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	from := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 9, 23, 59, 59, 0, time.UTC)

	entries, err := c.ListEntries(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "Task 1", entries[1].Description)
	assert.Equal(t, int64(5400), entries[1].DurationSeconds)
}

func TestListEntriesPaginatesAndDeduplicates(t *testing.T) {
	// The fake API honors end_date: two windows, the second overlapping
	// the first by one entry. The overlap must not be returned twice.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_date"))
		require.NoError(t, err)

		if end.After(time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)) {
			serveJSON(t, w, []map[string]any{
				wire(3, "Late", "2025-04-09T14:00:00Z", strp("2025-04-09T15:00:00Z"), i64p(3600)),
				wire(2, "Middle", "2025-04-09T10:00:00Z", strp("2025-04-09T11:00:00Z"), i64p(3600)),
			})
			return
		}
		serveJSON(t, w, []map[string]any{
			wire(2, "Middle", "2025-04-09T10:00:00Z", strp("2025-04-09T11:00:00Z"), i64p(3600)),
			wire(1, "Early", "2025-04-09T08:00:00Z", strp("2025-04-09T09:00:00Z"), i64p(3600)),
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	from := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 9, 23, 59, 59, 0, time.UTC)

	entries, err := c.ListEntries(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	ids := make(map[int64]int)
	for _, e := range entries {
		ids[e.ID]++
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, ids)
}

func TestListEntriesStopsOnRepeatedPage(t *testing.T) {
	// An API that keeps returning the same page must not loop forever.
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		serveJSON(t, w, []map[string]any{
			wire(1, "Stuck", "2025-04-09T08:00:00Z", strp("2025-04-09T09:00:00Z"), i64p(3600)),
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 9, 23, 59, 59, 0, time.UTC)

	entries, err := c.ListEntries(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, calls)
}

func TestListEntriesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, []map[string]any{})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	entries, err := c.ListEntries(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListEntriesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad-token", srv.URL, zerolog.Nop())
	_, err := c.ListEntries(context.Background(), time.Now().Add(-time.Hour), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrAuthFailure)
}

func TestListEntriesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream broke")
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	_, err := c.ListEntries(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "toggl", apiErr.Service)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestCurrentRunningEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/time_entries/current", r.URL.Path)
		serveJSON(t, w, wire(9, "Live", "2025-04-09T11:00:00Z", nil, i64p(-1)))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	entry, err := c.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(9), entry.ID)
	assert.True(t, entry.Running())
	assert.Nil(t, entry.Stop)
}

func TestCurrentNoTimer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "null")
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("secret-token", srv.URL, zerolog.Nop())
	entry, err := c.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestNormalizeRepairsMissingStop(t *testing.T) {
	w := wireEntry{
		ID:       1,
		Start:    "2025-04-09T09:00:00Z",
		Duration: i64p(5400),
	}
	entry, err := w.normalize()
	require.NoError(t, err)
	require.NotNil(t, entry.Stop)
	assert.Equal(t, time.Date(2025, 4, 9, 10, 30, 0, 0, time.UTC), entry.Stop.UTC())
	assert.Equal(t, int64(5400), entry.DurationSeconds)
	assert.False(t, entry.Running())
}

func TestNormalizeNegativeDurationMeansRunning(t *testing.T) {
	w := wireEntry{
		ID:       2,
		Start:    "2025-04-09T09:00:00Z",
		Stop:     strp("2025-04-09T10:00:00Z"),
		Duration: i64p(-1),
	}
	entry, err := w.normalize()
	require.NoError(t, err)
	assert.Nil(t, entry.Stop, "negative duration wins over a reported stop")
	assert.True(t, entry.Running())
}

func TestNormalizeDerivesMissingDuration(t *testing.T) {
	w := wireEntry{
		ID:    3,
		Start: "2025-04-09T09:00:00Z",
		Stop:  strp("2025-04-09T11:15:00Z"),
	}
	entry, err := w.normalize()
	require.NoError(t, err)
	assert.Equal(t, int64(8100), entry.DurationSeconds)
}

func TestNormalizeAcceptsEndVariant(t *testing.T) {
	w := wireEntry{
		ID:    4,
		Start: "2025-04-09T09:00:00Z",
		End:   strp("2025-04-09T10:00:00Z"),
	}
	entry, err := w.normalize()
	require.NoError(t, err)
	require.NotNil(t, entry.Stop)
	assert.Equal(t, int64(3600), entry.DurationSeconds)
}

func TestNormalizeMissingEverythingMeansRunning(t *testing.T) {
	w := wireEntry{ID: 5, Start: "2025-04-09T09:00:00Z"}
	entry, err := w.normalize()
	require.NoError(t, err)
	assert.Nil(t, entry.Stop)
	assert.Equal(t, int64(-1), entry.DurationSeconds)
	assert.True(t, entry.Running())
}

func TestNormalizeRejectsBadStart(t *testing.T) {
	w := wireEntry{ID: 6, Start: "yesterday-ish"}
	_, err := w.normalize()
	assert.Error(t, err)
}
