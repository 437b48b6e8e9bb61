package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"perpdesk/internal/application/port"
	"perpdesk/internal/domain"
)

// QuoteCache holds the most recent signed quote per asset, sourced from the
// oracle stream. Each inbound push replaces the whole snapshot; there is no
// per-asset merge, no history and no freshness tracking — "latest received"
// is the only notion of currency, and out-of-order pushes go undetected.
//
// Readers never see a partially applied push: the snapshot swaps under the
// mutex as a single assignment. Staleness is unbounded.
type QuoteCache struct {
	mu       sync.Mutex
	received bool
	snap     domain.Snapshot
	index    map[string]int
}

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{}
}

// Apply replaces the current snapshot with s. An empty push still counts as
// data received.
func (c *QuoteCache) Apply(s domain.Snapshot) {
	index := make(map[string]int, len(s))
	for i, q := range s {
		if q.Asset == nil || *q.Asset == "" {
			continue
		}
		index[*q.Asset] = i
	}

	c.mu.Lock()
	c.received = true
	c.snap = s
	c.index = index
	c.mu.Unlock()
}

// AllQuotes returns every quote of the latest push in feed index order.
// ok is false iff no push has ever been received.
func (c *QuoteCache) AllQuotes() ([]domain.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.received {
		return nil, false
	}
	out := make([]domain.Quote, len(c.snap))
	copy(out, c.snap)
	return out, true
}

// Quote returns the latest quote for asset. The unavailability signal is
// two-tier and the tiers must not be conflated:
//   - ok=false means the feed has never delivered any data at all;
//   - ok=true with an all-nil quote means the feed is alive but this asset
//     has never been quoted.
func (c *QuoteCache) Quote(asset string) (domain.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.received {
		return domain.Quote{}, false
	}
	i, ok := c.index[asset]
	if !ok {
		return domain.Quote{}, true
	}
	return c.snap[i], true
}

// Run subscribes to the feed and applies pushes until ctx is cancelled or
// the feed channel closes. Feed errors are logged and otherwise ignored;
// the cache keeps serving whatever it last held.
func (c *QuoteCache) Run(ctx context.Context, feed port.OracleFeed) error {
	ch, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("feed", feed.Name()).Msg("oracle feed started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-ch:
			if !ok {
				log.Warn().Str("feed", feed.Name()).Msg("oracle feed closed")
				return nil
			}
			c.Apply(snap)
		}
	}
}
