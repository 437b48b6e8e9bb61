package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"perpdesk/internal/application/port"
	"perpdesk/internal/domain"
)

// QuoteSource is the slice of the cache the trade service consumes.
type QuoteSource interface {
	Quote(asset string) (domain.Quote, bool)
}

// TradeDeps wires a TradeService.
type TradeDeps struct {
	Quotes   QuoteSource
	Caller   port.ContractCaller
	Lookup   port.PositionLookup
	Journal  port.EventJournal
	Registry domain.Registry
	Referral string
}

// TradeService translates trade intents into the exact positional parameter
// tuples the trading contract expects and submits them, once, with no
// retry. Open and close report outcomes exclusively through domain.Result;
// see that type for the caller obligations.
type TradeService struct {
	quotes   QuoteSource
	caller   port.ContractCaller
	lookup   port.PositionLookup
	journal  port.EventJournal
	registry domain.Registry
	permit   domain.Permit

	mu       sync.Mutex
	referral string
}

func NewTradeService(deps TradeDeps) *TradeService {
	referral := deps.Referral
	if referral == "" {
		referral = domain.ZeroAddress
	}
	journal := deps.Journal
	if journal == nil {
		journal = noopJournal{}
	}
	return &TradeService{
		quotes:   deps.Quotes,
		caller:   deps.Caller,
		lookup:   deps.Lookup,
		journal:  journal,
		registry: deps.Registry,
		permit:   domain.ZeroPermit(),
		referral: referral,
	}
}

// SetReferral replaces the referral address attached to subsequent opens.
// This is the only piece of configuration mutable after construction.
func (s *TradeService) SetReferral(addr string) {
	s.mu.Lock()
	s.referral = addr
	s.mu.Unlock()
}

func (s *TradeService) Referral() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.referral
}

// OpenPosition submits a market open for req. The trade tuple is
// positionally fixed: [margin, stableToken, vault, leverage, asset, long,
// takeProfit, stopLoss, referral], with margin and leverage scaled to 1e18
// fixed point. When no usable quote exists for the asset the fallback
// sentinel is substituted and the submission proceeds anyway — open never
// blocks on missing price data. (Close behaves differently; the asymmetry
// is deliberate and preserved.)
func (s *TradeService) OpenPosition(ctx context.Context, signer port.Signer, req domain.TradeRequest, trader string) domain.Result {
	trade := []any{
		domain.ScaleFixed(req.Margin),
		s.registry.StableToken,
		s.registry.Vault,
		domain.ScaleFixed(req.Leverage),
		req.Asset,
		req.Long,
		req.TakeProfit,
		req.StopLoss,
		s.Referral(),
	}

	price := domain.FallbackQuote()
	if q, ok := s.quotes.Quote(req.Asset); ok && q.HasProvider() {
		price = q
	}

	id := uuid.NewString()
	err := s.caller.CreateMarketOrder(ctx, signer, trade, price.Tuple(), s.permit.Tuple(), trader)
	if err != nil {
		log.Error().Err(err).Str("asset", req.Asset).Str("submission", id).Msg("open submission failed")
		_ = s.journal.InsertSubmission(ctx, id, "open", req.Asset, "failed", err.Error())
		return domain.FailRemote(err)
	}

	_ = s.journal.InsertSubmission(ctx, id, "open", req.Asset, "submitted", "")
	return domain.Succeed()
}

// ClosePosition submits a 100% close for position id. An empty asset means
// "resolve via the position registry", one round trip. If the resolved
// quote carries no provider the remote call is never attempted and a
// precondition failure is returned: closing requires a live attestation.
func (s *TradeService) ClosePosition(ctx context.Context, signer port.Signer, id uint64, trader, asset string) domain.Result {
	if asset == "" {
		resolved, err := s.lookup.AssetForPosition(ctx, id)
		if err != nil {
			log.Error().Err(err).Uint64("position", id).Msg("asset lookup failed")
			return domain.FailRemote(err)
		}
		asset = resolved
	}

	quote, _ := s.quotes.Quote(asset)
	if !quote.HasProvider() {
		return domain.FailPrecondition(fmt.Sprintf("no price data available for asset %s", asset))
	}

	subID := uuid.NewString()
	err := s.caller.InitiateCloseOrder(ctx, signer, id, domain.FullCloseBasis,
		quote.Tuple(), s.registry.Vault, s.registry.StableToken, trader, domain.CloseGas())
	if err != nil {
		log.Error().Err(err).Uint64("position", id).Str("submission", subID).Msg("close submission failed")
		_ = s.journal.InsertSubmission(ctx, subID, "close", asset, "failed", err.Error())
		return domain.FailRemote(err)
	}

	_ = s.journal.InsertSubmission(ctx, subID, "close", asset, "submitted", "")
	return domain.Succeed()
}

type noopJournal struct{}

func (noopJournal) InsertEvent(context.Context, int64, string, string) error { return nil }
func (noopJournal) InsertSubmission(context.Context, string, string, string, string, string) error {
	return nil
}
func (noopJournal) Close() error { return nil }
