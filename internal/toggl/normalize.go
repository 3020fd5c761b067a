package toggl

import (
	"fmt"
	"time"

	"github.com/jereslo/worklog-sync/internal/model"
)

// wireEntry mirrors the raw API payload. Field availability varies across
// API variants: some report "stop", older ones "end", and the duration may
// be absent entirely. normalize resolves all of that into one canonical
// shape so no other package has to.
type wireEntry struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Start       string  `json:"start"`
	Stop        *string `json:"stop"`
	End         *string `json:"end"`
	Duration    *int64  `json:"duration"`
}

// normalize converts a wire payload into a model.TimeEntry, enforcing the
// entry invariants:
//   - a missing stop with a non-negative duration is repaired to
//     stop = start + duration
//   - a negative duration marks a running entry (stop stays nil)
//   - a missing duration is derived from start/stop, or -1 when there is
//     no stop (running)
func (w wireEntry) normalize() (model.TimeEntry, error) {
	start, err := time.Parse(time.RFC3339, w.Start)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing start %q: %w", w.Start, err)
	}

	stop, err := w.stopTime()
	if err != nil {
		return model.TimeEntry{}, err
	}

	duration := w.durationSeconds(start, stop)
	if duration >= 0 && stop == nil {
		repaired := start.Add(time.Duration(duration) * time.Second)
		stop = &repaired
	}
	if duration < 0 {
		stop = nil
	}

	return model.TimeEntry{
		ID:              w.ID,
		Description:     w.Description,
		Start:           start,
		Stop:            stop,
		DurationSeconds: duration,
	}, nil
}

// stopTime picks whichever stop-time field variant the payload used.
func (w wireEntry) stopTime() (*time.Time, error) {
	raw := w.Stop
	if raw == nil {
		raw = w.End
	}
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("parsing stop %q: %w", *raw, err)
	}
	return &t, nil
}

// durationSeconds returns the recorded duration, deriving it from the
// start/stop pair when absent. No stop and no duration means running (-1).
func (w wireEntry) durationSeconds(start time.Time, stop *time.Time) int64 {
	if w.Duration != nil {
		return *w.Duration
	}
	if stop != nil {
		return int64(stop.Sub(start).Seconds())
	}
	return -1
}
