package quote

import (
	"context"
	"math/big"

	"liquidityEngine/internal/model"
)

// Provider is the read-only chain-data surface the aggregator queries. All
// calls are idempotent; implementations report a missing pool with
// model.ErrNotFound and retryable failures with model.ErrTransient.
type Provider interface {
	// GetPoolState returns a snapshot of the pool for a token pair and fee
	// tier on the given venue. Constant-product venues ignore the fee tier.
	GetPoolState(ctx context.Context, venueID string, tokenA, tokenB model.Token, feeTier uint32) (model.PoolState, error)

	// GetExactQuote returns the output amount and gas estimate for an
	// exact-input swap through the venue at the given fee tier.
	GetExactQuote(ctx context.Context, venueID string, tokenIn, tokenOut model.Token, feeTier uint32, amountIn *big.Int) (*big.Int, uint64, error)
}
