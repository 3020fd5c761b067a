// Package syncer reconciles freshly fetched time entries into the remote
// worklog document. One Run covers a date range: it reads the document,
// computes a summary line per day, splices or inserts each line, normalizes
// the whole document, and writes it back once, or not at all when nothing
// changed. A Run either completes or fails without writing; there are no
// partial updates.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jereslo/worklog-sync/internal/dedupe"
	"github.com/jereslo/worklog-sync/internal/model"
	"github.com/jereslo/worklog-sync/internal/notify"
	"github.com/jereslo/worklog-sync/internal/timecalc"
	"github.com/jereslo/worklog-sync/internal/worklog"
)

// EntrySource provides time entries. Implemented by the Toggl client.
type EntrySource interface {
	ListEntries(ctx context.Context, from, to time.Time) ([]model.TimeEntry, error)
	Current(ctx context.Context) (*model.TimeEntry, error)
}

// DocumentStore provides versioned access to the worklog document.
// Implemented by the GitHub contents store.
type DocumentStore interface {
	Read(ctx context.Context) (content, token string, err error)
	Write(ctx context.Context, content, token string) error
}

// Options tune a Reconciler.
type Options struct {
	// FillEmptyDescriptions substitutes a placeholder for entries without
	// a description instead of dropping them.
	FillEmptyDescriptions bool
	// DryRun renders the result to the log instead of writing it.
	DryRun bool
	// Now overrides the clock, for tests and for deterministic handling
	// of running timers. Defaults to time.Now.
	Now func() time.Time
}

// Reconciler merges daily summaries into the worklog document.
type Reconciler struct {
	source   EntrySource
	store    DocumentStore
	notifier notify.Notifier
	loc      *time.Location
	opts     Options
	logger   zerolog.Logger
}

// New creates a Reconciler. loc decides which local day an entry belongs to.
func New(source EntrySource, store DocumentStore, notifier notify.Notifier, loc *time.Location, opts Options, logger zerolog.Logger) *Reconciler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Reconciler{
		source:   source,
		store:    store,
		notifier: notifier,
		loc:      loc,
		opts:     opts,
		logger:   logger.With().Str("component", "syncer").Logger(),
	}
}

// Run reconciles all days in [from, to] (interpreted as local dates) and
// reports whether the document was written. Failures are logged and relayed
// to the notifier before being returned; the document is left untouched.
func (r *Reconciler) Run(ctx context.Context, from, to time.Time) (bool, error) {
	changed, err := r.run(ctx, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("sync failed")
		subject := "Worklog sync failed"
		if notifyErr := r.notifier.Notify(ctx, subject, err.Error()); notifyErr != nil {
			r.logger.Error().Err(notifyErr).Msg("failure notification could not be delivered")
		}
		return false, err
	}
	return changed, nil
}

func (r *Reconciler) run(ctx context.Context, from, to time.Time) (bool, error) {
	from = timecalc.StartOfDay(from.In(r.loc))
	to = timecalc.EndOfDay(to.In(r.loc))
	if to.Before(from) {
		return false, fmt.Errorf("invalid range: %s is after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	original, token, err := r.store.Read(ctx)
	if err != nil {
		return false, err
	}

	entries, err := r.fetchEntries(ctx, from, to)
	if err != nil {
		return false, err
	}

	doc := original
	days := 0
	for day := timecalc.StartOfDay(to); !day.Before(from); day = day.AddDate(0, 0, -1) {
		spliced, ok := r.applyDay(doc, day, entries)
		if !ok {
			continue
		}
		doc = spliced
		days++
	}

	doc = worklog.Normalize(doc)
	if doc == original {
		r.logger.Info().Int("days", days).Msg("worklog already up to date, skipping write")
		return false, nil
	}

	if r.opts.DryRun {
		r.logger.Info().Int("days", days).Msg("dry run, not writing")
		fmt.Print(doc)
		return false, nil
	}

	if err := r.store.Write(ctx, doc, token); err != nil {
		return false, err
	}
	r.logger.Info().Int("days", days).Msg("worklog updated")
	return true, nil
}

// fetchEntries lists the range's entries and folds in the currently running
// entry, which some range queries omit. Without it an active timer would
// neither count toward today's total nor raise the running marker.
func (r *Reconciler) fetchEntries(ctx context.Context, from, to time.Time) ([]model.TimeEntry, error) {
	entries, err := r.source.ListEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}

	current, err := r.source.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && !containsID(entries, current.ID) {
		local := current.Start.In(r.loc)
		if !local.Before(from) && !local.After(to) {
			entries = append(entries, *current)
		}
	}
	return entries, nil
}

// applyDay computes the summary line for one local day and splices it into
// doc. The second return value is false when the day leaves no trace: zero
// tracked hours produce no line and touch nothing.
func (r *Reconciler) applyDay(doc string, day time.Time, entries []model.TimeEntry) (string, bool) {
	summary, ok := r.summarize(day, entries)
	if !ok {
		return doc, false
	}

	line := worklog.Format(summary.Date, summary.TotalHours, summary.Descriptions, summary.IsRunning)
	r.logger.Debug().Str("line", line).Msg("computed daily summary")

	if m, found := worklog.Locate(doc, day); found {
		merged := worklog.Merge(m.Text, line)
		return doc[:m.Start] + merged + doc[m.End:], true
	}
	return worklog.Insert(doc, line), true
}

// summarize aggregates the entries whose local start time falls on day.
func (r *Reconciler) summarize(day time.Time, entries []model.TimeEntry) (model.DailySummary, bool) {
	var dayEntries []model.TimeEntry
	for _, e := range entries {
		if timecalc.SameDay(e.Start.In(r.loc), day) {
			dayEntries = append(dayEntries, e)
		}
	}

	hours := timecalc.CalculateHours(dayEntries, r.opts.Now())
	if hours == 0 {
		return model.DailySummary{}, false
	}

	running := false
	descriptions := make([]string, 0, len(dayEntries))
	for _, e := range dayEntries {
		if e.Running() {
			running = true
		}
		descriptions = append(descriptions, e.Description)
	}

	return model.DailySummary{
		Date:         day,
		TotalHours:   hours,
		IsRunning:    running,
		Descriptions: dedupe.Descriptions(descriptions, r.opts.FillEmptyDescriptions),
	}, true
}

func containsID(entries []model.TimeEntry, id int64) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}
