// Package notify delivers best-effort failure notifications. Delivery
// problems are logged by callers and never escalate: a broken notifier must
// not turn a failed sync into a crash.
package notify

import (
	"context"
	"errors"
)

// Notifier is a sink for failure notifications.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Nop discards notifications. Used when no sink is configured.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, string, string) error { return nil }

// Multi fans a notification out to every sink, collecting all errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
