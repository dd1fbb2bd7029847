package activitylog

import (
	"context"
)

// Log defines the interface for the append-only activity log.
//
// Append must be durable before it returns: the engine treats a completed
// Append as the point after which a contact counts as processed, and it never
// advances to the next contact until the previous entry has been written.
type Log interface {
	// Append durably writes an entry at the end of the log.
	Append(ctx context.Context, e *Entry) error

	// ReadAll returns every entry in write order.
	ReadAll(ctx context.Context) ([]Entry, error)

	// Stats returns per-outcome entry counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the storage connection.
	Close() error
}
