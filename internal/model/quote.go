package model

import (
	"math/big"
	"time"
)

// Quote is a point-in-time swap quote from a single venue. Quotes go stale
// within seconds; callers re-request before building a transaction.
type Quote struct {
	AmountOut    *big.Int `json:"amount_out"`
	EstimatedGas uint64   `json:"estimated_gas"`
	VenueID      string   `json:"venue_id"`
	FeeTier      uint32   `json:"fee_tier"`
	Wrap         WrapKind `json:"wrap,omitempty"`
}

// QuoteRecord is a resolved quote flattened for the history sink.
type QuoteRecord struct {
	ChainID      uint64    `json:"chain_id"`
	TokenIn      string    `json:"token_in"`
	TokenOut     string    `json:"token_out"`
	AmountIn     string    `json:"amount_in"`
	AmountOut    string    `json:"amount_out"`
	VenueID      string    `json:"venue_id"`
	FeeTier      uint32    `json:"fee_tier"`
	EstimatedGas uint64    `json:"estimated_gas"`
	RequestedAt  time.Time `json:"requested_at"`
}
