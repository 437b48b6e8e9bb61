package console

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sink prints canonical venue events to stdout. It is the default trading
// callback wired in when no application consumer is registered.
type Sink struct{}

func NewSink() *Sink { return &Sink{} }

// TradingCallback satisfies service.TradingCallback.
func (s *Sink) TradingCallback(name string, payload json.RawMessage) {
	fmt.Printf("%s %-20s %s\n", time.Now().Format("2006-01-02 15:04:05"), name, string(payload))
}
