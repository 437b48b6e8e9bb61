package port

import (
	"context"

	"perpdesk/internal/domain"
)

// OracleFeed is the streaming price attestation source. It is a one-way
// push channel: every message on the returned channel is a whole-snapshot
// replacement, with no acknowledgement or backpressure. The channel closes
// when the feed shuts down for good.
type OracleFeed interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan domain.Snapshot, error)
}
