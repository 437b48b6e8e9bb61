package venue

import "strings"

// StaticSigner is an address-only signing identity. Actual key custody and
// request signing happen at the relay; this side only declares who the
// submission is for.
type StaticSigner struct {
	addr string
}

func NewStaticSigner(addr string) *StaticSigner {
	return &StaticSigner{addr: strings.TrimSpace(addr)}
}

func (s *StaticSigner) Address() string { return s.addr }
