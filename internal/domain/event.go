package domain

import "encoding/json"

// Raw venue event names, exactly as emitted by the event stream.
const (
	RawPositionOpened     = "PositionOpened"
	RawPositionClosed     = "PositionClosed"
	RawPositionLiquidated = "PositionLiquidated"
	RawLimitOrderExecuted = "LimitOrderExecuted"
	RawUpdateTPSL         = "UpdateTPSL"
	RawLimitCancelled     = "LimitCancelled"
	RawMarginModified     = "MarginModified"
	RawAddToPosition      = "AddToPosition"
)

// EventTradeClosed is the canonical name PositionClosed is republished
// under; every other event keeps its raw name. This is the only rename.
const EventTradeClosed = "TradeClosed"

// RawEvent is one occurrence on the venue event stream. Payload is opaque
// and passed through unmodified.
type RawEvent struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"data"`
}

var canonicalNames = map[string]string{
	RawPositionOpened:     RawPositionOpened,
	RawPositionClosed:     EventTradeClosed,
	RawPositionLiquidated: RawPositionLiquidated,
	RawLimitOrderExecuted: RawLimitOrderExecuted,
	RawUpdateTPSL:         RawUpdateTPSL,
	RawLimitCancelled:     RawLimitCancelled,
	RawMarginModified:     RawMarginModified,
	RawAddToPosition:      RawAddToPosition,
}

// CanonicalName maps a raw event name to its canonical republication name.
func CanonicalName(raw string) (string, bool) {
	name, ok := canonicalNames[raw]
	return name, ok
}

// RawEventNames returns the eight raw names the normalizer subscribes to,
// in a fixed order.
func RawEventNames() []string {
	return []string{
		RawPositionOpened,
		RawPositionClosed,
		RawPositionLiquidated,
		RawLimitOrderExecuted,
		RawUpdateTPSL,
		RawLimitCancelled,
		RawMarginModified,
		RawAddToPosition,
	}
}
