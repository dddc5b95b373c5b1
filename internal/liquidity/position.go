package liquidity

import (
	"fmt"
	"math/big"

	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tickmath"
)

// InRange reports whether the current tick lies inside a position's bounds.
// The upper bound is exclusive, as on chain.
func InRange(currentTick, tickLower, tickUpper int32) bool {
	return currentTick >= tickLower && currentTick < tickUpper
}

// PositionAmounts values a position against a pool snapshot, returning the
// token0/token1 amounts its liquidity currently represents.
func PositionAmounts(pool model.PoolState, position model.PositionRange) (*big.Int, *big.Int, error) {
	if position.TickLower >= position.TickUpper {
		return nil, nil, fmt.Errorf("tick range [%d,%d): %w", position.TickLower, position.TickUpper, model.ErrInvalidInput)
	}
	if position.Liquidity == nil || position.Liquidity.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}

	sqrtLower, err := tickmath.TickToSqrtPrice(position.TickLower)
	if err != nil {
		return nil, nil, err
	}
	sqrtUpper, err := tickmath.TickToSqrtPrice(position.TickUpper)
	if err != nil {
		return nil, nil, err
	}
	return AmountsForLiquidity(pool.SqrtPriceX96, sqrtLower, sqrtUpper, position.Liquidity)
}

// ValidateTickRange checks that position bounds are ordered and aligned to
// the pool's tick spacing.
func ValidateTickRange(tickLower, tickUpper, tickSpacing int32) error {
	if tickSpacing <= 0 {
		return fmt.Errorf("tick spacing %d: %w", tickSpacing, model.ErrInvalidInput)
	}
	if tickLower >= tickUpper {
		return fmt.Errorf("lower tick %d must be below upper tick %d: %w", tickLower, tickUpper, model.ErrInvalidInput)
	}
	if tickLower%tickSpacing != 0 {
		return fmt.Errorf("lower tick %d not a multiple of %d: %w", tickLower, tickSpacing, model.ErrInvalidInput)
	}
	if tickUpper%tickSpacing != 0 {
		return fmt.Errorf("upper tick %d not a multiple of %d: %w", tickUpper, tickSpacing, model.ErrInvalidInput)
	}
	return nil
}

// TotalAmounts adds uncollected fees to a position's principal amounts. Nil
// owed values count as zero.
func TotalAmounts(amount0, amount1, owed0, owed1 *big.Int) (*big.Int, *big.Int) {
	total0 := new(big.Int)
	if amount0 != nil {
		total0.Set(amount0)
	}
	if owed0 != nil {
		total0.Add(total0, owed0)
	}
	total1 := new(big.Int)
	if amount1 != nil {
		total1.Set(amount1)
	}
	if owed1 != nil {
		total1.Add(total1, owed1)
	}
	return total0, total1
}

// PoolSharePercent formats a position's share of the pool's active liquidity.
func PoolSharePercent(positionLiquidity, poolLiquidity *big.Int) string {
	if poolLiquidity == nil || poolLiquidity.Sign() == 0 || positionLiquidity == nil {
		return "0%"
	}
	share := new(big.Rat).SetFrac(positionLiquidity, poolLiquidity)
	share.Mul(share, big.NewRat(100, 1))
	if share.Cmp(big.NewRat(1, 100)) < 0 && share.Sign() > 0 {
		return "<0.01%"
	}
	return share.FloatString(2) + "%"
}
