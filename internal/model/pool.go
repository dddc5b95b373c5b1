package model

import "math/big"

// PoolState is an immutable snapshot of a pool's pricing state. The engine
// receives snapshots from the chain-data provider and never mutates them.
type PoolState struct {
	SqrtPriceX96 *big.Int `json:"sqrt_price_x96"`
	Tick         int32    `json:"tick"`
	Liquidity    *big.Int `json:"liquidity"`
	FeeTier      uint32   `json:"fee_tier"`
	TickSpacing  int32    `json:"tick_spacing"`
}

// PositionRange describes a concentrated position's tick bounds and liquidity.
// Invariant: TickLower < TickUpper, both usable ticks for the pool's spacing.
type PositionRange struct {
	TickLower int32    `json:"tick_lower"`
	TickUpper int32    `json:"tick_upper"`
	Liquidity *big.Int `json:"liquidity"`
}

// Tick spacing of the standard fee tiers, in hundredths of a bip.
var tickSpacingByFee = map[uint32]int32{
	100:   1,
	500:   10,
	2500:  50,
	3000:  60,
	10000: 200,
}

// TickSpacingForFee returns the canonical tick spacing for a fee tier, and
// whether the tier is a standard one.
func TickSpacingForFee(fee uint32) (int32, bool) {
	spacing, ok := tickSpacingByFee[fee]
	return spacing, ok
}
