package port

import "context"

// EventJournal records normalized venue events and submission attempts.
// Journaling is best effort everywhere: call sites ignore the returned
// error and trading never waits on it.
type EventJournal interface {
	// InsertEvent records one canonical event occurrence.
	InsertEvent(ctx context.Context, ts int64, name string, payload string) error

	// InsertSubmission records one open/close attempt. id is unique per
	// attempt, kind is "open" or "close", status is "submitted" or
	// "failed".
	InsertSubmission(ctx context.Context, id, kind, asset, status, detail string) error

	Close() error
}
