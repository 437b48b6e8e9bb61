package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"perpdesk/internal/application/port"
	"perpdesk/internal/domain"
)

// readyGrace caps how long dispatch waits for the stream handshake once
// subscriptions are attached. Best effort: after the grace period dispatch
// starts regardless, so events during a slow handshake can still be missed.
const readyGrace = 5 * time.Second

// TradingCallback receives one invocation per raw venue event, under the
// canonical name, payload passed through untouched.
type TradingCallback func(name string, payload json.RawMessage)

// Normalizer subscribes to the eight raw venue event names and republishes
// each occurrence through every registered callback under its canonical
// name. It has no data dependency on the quote cache or the trade service.
type Normalizer struct {
	stream  port.VenueStream
	journal port.EventJournal

	mu        sync.Mutex
	callbacks []TradingCallback
}

func NewNormalizer(stream port.VenueStream, journal port.EventJournal) *Normalizer {
	if journal == nil {
		journal = noopJournal{}
	}
	return &Normalizer{stream: stream, journal: journal}
}

// SetTradingCallback registers cb. Registration is additive: a second call
// stacks another listener rather than replacing the first.
func (n *Normalizer) SetTradingCallback(cb TradingCallback) {
	if cb == nil {
		return
	}
	n.mu.Lock()
	n.callbacks = append(n.callbacks, cb)
	n.mu.Unlock()
}

// Run attaches the eight subscriptions, waits for the stream's ready
// signal (capped at the grace period) and dispatches until ctx is
// cancelled or the stream channel closes. Subscribing first lets the
// handshake proceed during the wait; events arriving before the signal
// sit in the stream's buffer. Stream errors are the stream's problem;
// whatever arrives here is republished, whatever doesn't is missed.
func (n *Normalizer) Run(ctx context.Context) error {
	ch, err := n.stream.Subscribe(ctx, domain.RawEventNames())
	if err != nil {
		return err
	}

	select {
	case <-n.stream.Ready():
		log.Info().Msg("venue stream ready, event subscriptions attached")
	case <-time.After(readyGrace):
		log.Warn().Msg("venue stream not ready after grace period, dispatching anyway")
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				log.Warn().Msg("venue event stream closed")
				return nil
			}
			n.dispatch(ctx, ev)
		}
	}
}

func (n *Normalizer) dispatch(ctx context.Context, ev domain.RawEvent) {
	name, ok := domain.CanonicalName(ev.Name)
	if !ok {
		// not one of the eight subscribed names
		return
	}

	n.mu.Lock()
	callbacks := make([]TradingCallback, len(n.callbacks))
	copy(callbacks, n.callbacks)
	n.mu.Unlock()

	for _, cb := range callbacks {
		cb(name, ev.Payload)
	}

	_ = n.journal.InsertEvent(ctx, time.Now().UnixMilli(), name, string(ev.Payload))
}
