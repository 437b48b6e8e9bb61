package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"perpdesk/internal/application/port"
	"perpdesk/internal/domain"
)

// Caller submits contract calls through the venue relay's JSON-RPC
// endpoint. The relay owns ABI encoding and transaction assembly; from
// here both procedures are opaque: a target contract address from the
// registry, then positional parameter tuples, success or failure out,
// nothing retried and nothing interpreted.
type Caller struct {
	endpoint string
	registry domain.Registry
	http     *http.Client
}

func NewCaller(endpoint string, registry domain.Registry) *Caller {
	return &Caller{
		endpoint: strings.TrimSpace(endpoint),
		registry: registry,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// CreateMarketOrder submits an open against the trading contract.
// Parameter order past the target is fixed by that contract:
// (tradeInfo, priceData, permit, trader).
func (c *Caller) CreateMarketOrder(ctx context.Context, signer port.Signer, trade []any, price []any, permit []any, trader string) error {
	return c.call(ctx, signer, "venue_createMarketOrder",
		[]any{c.registry.Trading, trade, price, permit, trader})
}

// InitiateCloseOrder submits a close against the trading contract with the
// fixed gas options.
func (c *Caller) InitiateCloseOrder(ctx context.Context, signer port.Signer, id uint64, closePercent int64, price []any, vault, stableToken, trader string, gas domain.GasOptions) error {
	return c.call(ctx, signer, "venue_initiateCloseOrder",
		[]any{c.registry.Trading, id, closePercent, price, vault, stableToken, trader, gas})
}

// AssetForPosition resolves a position's underlying asset via the position
// registry contract.
func (c *Caller) AssetForPosition(ctx context.Context, id uint64) (string, error) {
	raw, err := c.do(ctx, nil, "venue_positionAsset", []any{c.registry.PositionRegistry, id})
	if err != nil {
		return "", err
	}
	var asset string
	if err := json.Unmarshal(raw, &asset); err != nil {
		return "", fmt.Errorf("decode position asset: %w", err)
	}
	return asset, nil
}

func (c *Caller) call(ctx context.Context, signer port.Signer, method string, params []any) error {
	_, err := c.do(ctx, signer, method, params)
	return err
}

func (c *Caller) do(ctx context.Context, signer port.Signer, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if signer != nil {
		req.Header.Set("X-Signer-Address", signer.Address())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: http %d: %s", method, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out rpcResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", method, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%s: rpc error %d: %s", method, out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}
