package port

import (
	"context"

	"perpdesk/internal/domain"
)

// Signer is the request-signing identity used for submissions. Key handling
// and the actual signing live behind this boundary.
type Signer interface {
	Address() string
}

// VenueStream is the venue's raw event push channel. Ready is closed once
// the connection handshake has completed and subscriptions can be attached.
type VenueStream interface {
	Subscribe(ctx context.Context, events []string) (<-chan domain.RawEvent, error)
	Ready() <-chan struct{}
}

// ContractCaller submits signed calls against the trading contract. Both
// procedures are fire-and-forget: the caller awaits completion or failure
// and interprets nothing beyond that. Parameters are fixed-order, fixed-
// arity tuples; position, not name, is the contract.
type ContractCaller interface {
	CreateMarketOrder(ctx context.Context, signer Signer, trade []any, price []any, permit []any, trader string) error
	InitiateCloseOrder(ctx context.Context, signer Signer, id uint64, closePercent int64, price []any, vault, stableToken, trader string, gas domain.GasOptions) error
}

// PositionLookup resolves a position's underlying asset via the position
// registry. Consumed only when a close call is not given an explicit asset.
type PositionLookup interface {
	AssetForPosition(ctx context.Context, id uint64) (string, error)
}
