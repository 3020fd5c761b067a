package model

import "time"

// TimeEntry is the canonical form of one tracked interval of work.
// Source adapters resolve all API payload quirks (variant field names,
// missing stop times) before a TimeEntry reaches core code.
type TimeEntry struct {
	ID              int64      `json:"id"`
	Description     string     `json:"description"`
	Start           time.Time  `json:"start"`
	Stop            *time.Time `json:"stop"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// Running reports whether the entry is still being tracked. The source API
// marks running entries with a negative duration and no stop time.
func (e TimeEntry) Running() bool {
	return e.DurationSeconds < 0 && e.Stop == nil
}

// DailySummary is the aggregate computed for one calendar day. It is never
// persisted directly; only its rendered worklog line is.
type DailySummary struct {
	Date         time.Time
	TotalHours   float64
	IsRunning    bool
	Descriptions []string
}
