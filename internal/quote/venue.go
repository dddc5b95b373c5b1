package quote

import (
	"fmt"

	"liquidityEngine/internal/model"
)

// Protocol tags a venue's AMM family.
type Protocol string

const (
	// ProtocolConstantProduct is the x*y=k family with a single implicit pool
	// per pair.
	ProtocolConstantProduct Protocol = "constant-product"
	// ProtocolConcentrated is the concentrated-liquidity family with one pool
	// candidate per fee tier.
	ProtocolConcentrated Protocol = "concentrated"
)

// Gas estimates for quotes that carry no venue-reported figure.
const (
	gasWrap            = 50000
	gasUnwrap          = 40000
	gasConstantProduct = 150000
)

// Venue is one configured swap venue. Registration order doubles as the
// deterministic tie-break priority when two venues quote the same output.
type Venue struct {
	ID       string
	Protocol Protocol
	FeeTiers []uint32
}

func (v Venue) validate() error {
	if v.ID == "" {
		return fmt.Errorf("venue id required: %w", model.ErrInvalidInput)
	}
	switch v.Protocol {
	case ProtocolConstantProduct:
		return nil
	case ProtocolConcentrated:
		if len(v.FeeTiers) == 0 {
			return fmt.Errorf("venue %s: concentrated venue needs fee tiers: %w", v.ID, model.ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("venue %s: unknown protocol %q: %w", v.ID, v.Protocol, model.ErrInvalidInput)
	}
}
