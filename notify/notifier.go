package notify

import "context"

// Notifier delivers out-of-band notifications (email today, push later).
// Delivery failures are the implementation's problem to report; callers treat
// notifications as best effort and never roll back on them.
type Notifier interface {
	BracketPublished(ctx context.Context, recipient, tournamentName, categoryName string) error
}

// Noop discards all notifications. Used in tests and when no provider is
// configured.
type Noop struct{}

func (Noop) BracketPublished(ctx context.Context, recipient, tournamentName, categoryName string) error {
	return nil
}
