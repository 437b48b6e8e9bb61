package domain

import "github.com/shopspring/decimal"

// Venue constants. These must match the trading contract bit-for-bit;
// truncation here silently corrupts the submitted order.
const (
	// FullCloseBasis is the fixed-point representation of closing 100% of a
	// position.
	FullCloseBasis int64 = 10_000_000_000

	// CloseGasPrice and CloseGasLimit are the fixed gas options attached to
	// every close submission.
	CloseGasPrice int64 = 1_000_000_000
	CloseGasLimit int64 = 10_000_000_000
)

// TradeRequest is the caller's intent to open a position. TakeProfit and
// StopLoss default to 0, meaning unset.
type TradeRequest struct {
	Margin     float64 `json:"margin"`
	Leverage   float64 `json:"leverage"`
	Asset      string  `json:"asset"`
	Long       bool    `json:"long"`
	TakeProfit float64 `json:"take_profit,omitempty"`
	StopLoss   float64 `json:"stop_loss,omitempty"`
}

// Registry holds the venue's on-chain addresses. Set once at startup and
// never mutated afterwards.
type Registry struct {
	Trading          string
	StableToken      string
	Vault            string
	PositionRegistry string
}

// GasOptions is the fixed gas price / gas limit pair sent with close calls.
type GasOptions struct {
	Price int64 `json:"gasPrice"`
	Limit int64 `json:"gasLimit"`
}

// CloseGas returns the gas options every close submission carries.
func CloseGas() GasOptions {
	return GasOptions{Price: CloseGasPrice, Limit: CloseGasLimit}
}

// Permit is the zero-valued token permit placeholder passed with every open
// call. The venue treats usePermit=false as "no permit supplied".
type Permit struct {
	Amount   string
	Deadline string
	V        int64
	R        string
	S        string
	Use      bool
}

// ZeroPermit returns the process-wide permit placeholder.
func ZeroPermit() Permit {
	zeroHash := "0x" + zeros64
	return Permit{Amount: "0", Deadline: "0", V: 0, R: zeroHash, S: zeroHash, Use: false}
}

const zeros64 = "0000000000000000000000000000000000000000000000000000000000000000"

// Tuple flattens the permit into its positional wire shape.
func (p Permit) Tuple() []any {
	return []any{p.Amount, p.Deadline, p.V, p.R, p.S, p.Use}
}

// ScaleFixed converts a human unit amount into the venue's 1e18 fixed-point
// representation, returned as a decimal string.
func ScaleFixed(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.New(1, 18)).Truncate(0).String()
}
