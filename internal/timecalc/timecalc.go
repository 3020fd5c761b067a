package timecalc

import (
	"fmt"
	"math"
	"time"

	"github.com/jereslo/worklog-sync/internal/model"
)

// CalculateHours returns the total tracked hours across entries, rounded to
// one decimal place. Completed entries contribute their recorded duration;
// running entries (negative duration) contribute now minus their start time,
// computed in UTC, so a day with an active timer yields a snapshot value.
// No entries means 0.0.
func CalculateHours(entries []model.TimeEntry, now time.Time) float64 {
	var totalSeconds float64
	for _, e := range entries {
		switch {
		case e.DurationSeconds > 0:
			totalSeconds += float64(e.DurationSeconds)
		case e.DurationSeconds < 0:
			totalSeconds += now.UTC().Sub(e.Start).Seconds()
		}
	}
	return RoundHours(totalSeconds / 3600)
}

// RoundHours rounds to one decimal place, half away from zero.
func RoundHours(hours float64) float64 {
	return math.Round(hours*10) / 10
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WeekStart returns the Monday 00:00:00 of the ISO week containing t, in t's
// location. Two dates belong to the same worklog week iff their WeekStart
// values coincide.
func WeekStart(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
