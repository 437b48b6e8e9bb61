package domain

import "strings"

// ZeroAddress is the venue's null address, used by the fallback quote and
// the default referral.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// zeroSignature is a zero-filled 65-byte secp256k1 signature.
var zeroSignature = "0x" + strings.Repeat("0", 130)

// Quote is one signed price attestation for one asset as delivered by the
// oracle stream. Every field is opaque to this layer: nothing is parsed,
// validated or interpreted, values are carried through positionally. A nil
// field means the feed did not include it in the push.
type Quote struct {
	Provider  *string `json:"provider"`
	IsClosed  *bool   `json:"isClosed"`
	Asset     *string `json:"asset"`
	Price     *string `json:"price"`
	Spread    *string `json:"spread"`
	Timestamp *string `json:"timestamp"`
	Signature *string `json:"signature"`
}

// Snapshot is one whole-feed push from the oracle stream. Each push replaces
// the previous one entirely; entry order is the feed's index order.
type Snapshot []Quote

// HasProvider reports whether the attestation names a price provider. A
// quote without a provider is unusable for closing a position.
func (q Quote) HasProvider() bool {
	return q.Provider != nil && *q.Provider != ""
}

// Tuple flattens the quote into the fixed positional shape the venue
// expects: [provider, isClosed, asset, price, spread, timestamp, signature].
// Nil fields stay nil so absence survives the wire unchanged.
func (q Quote) Tuple() []any {
	return []any{
		deref(q.Provider),
		derefBool(q.IsClosed),
		deref(q.Asset),
		deref(q.Price),
		deref(q.Spread),
		deref(q.Timestamp),
		deref(q.Signature),
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// FallbackQuote is the sentinel substituted on the open path when no live
// quote is available: zero-address provider, open market, zero price, spread
// and timestamp, zero-filled signature. Opening against it is a silent
// degradation, not an error; the venue is expected to reject it server-side
// if the attestation matters.
func FallbackQuote() Quote {
	provider := ZeroAddress
	closed := false
	zero := "0"
	sig := zeroSignature
	asset := "0"
	return Quote{
		Provider:  &provider,
		IsClosed:  &closed,
		Asset:     &asset,
		Price:     &zero,
		Spread:    &zero,
		Timestamp: &zero,
		Signature: &sig,
	}
}
