// Package liquidity converts between liquidity values and token amounts for
// concentrated positions, and values open positions against pool snapshots.
package liquidity

import (
	"fmt"
	"math/big"

	"liquidityEngine/internal/fixedpoint"
	"liquidityEngine/internal/model"
)

// AmountsForLiquidity computes the token0/token1 amounts represented by a
// liquidity value between two sqrt-price bounds, given the pool's current
// sqrt price. The three price regions follow the on-chain position math:
// entirely token0 below the range, entirely token1 above it, and a mix while
// the price is inside. Amounts round down and are always non-negative.
func AmountsForLiquidity(sqrtCurrent, sqrtLower, sqrtUpper, liquidity *big.Int) (*big.Int, *big.Int, error) {
	if err := validateBounds(sqrtCurrent, sqrtLower, sqrtUpper); err != nil {
		return nil, nil, err
	}
	if liquidity == nil || liquidity.Sign() < 0 {
		return nil, nil, fmt.Errorf("liquidity: %w", model.ErrInvalidInput)
	}
	if liquidity.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}
	if err := fixedpoint.CheckUint128(liquidity); err != nil {
		return nil, nil, err
	}

	switch {
	case sqrtCurrent.Cmp(sqrtLower) <= 0:
		amount0, err := amount0Delta(sqrtLower, sqrtUpper, liquidity)
		if err != nil {
			return nil, nil, err
		}
		return amount0, big.NewInt(0), nil
	case sqrtCurrent.Cmp(sqrtUpper) >= 0:
		amount1, err := amount1Delta(sqrtLower, sqrtUpper, liquidity)
		if err != nil {
			return nil, nil, err
		}
		return big.NewInt(0), amount1, nil
	default:
		amount0, err := amount0Delta(sqrtCurrent, sqrtUpper, liquidity)
		if err != nil {
			return nil, nil, err
		}
		amount1, err := amount1Delta(sqrtLower, sqrtCurrent, liquidity)
		if err != nil {
			return nil, nil, err
		}
		return amount0, amount1, nil
	}
}

// LiquidityForAmounts computes the largest liquidity value whose forward
// amounts do not exceed the desired deposit. Rounds down, so re-applying
// AmountsForLiquidity never overdraws the depositor.
func LiquidityForAmounts(sqrtCurrent, sqrtLower, sqrtUpper, amount0, amount1 *big.Int) (*big.Int, error) {
	if err := validateBounds(sqrtCurrent, sqrtLower, sqrtUpper); err != nil {
		return nil, err
	}
	if amount0 == nil || amount0.Sign() < 0 || amount1 == nil || amount1.Sign() < 0 {
		return nil, fmt.Errorf("amounts: %w", model.ErrInvalidInput)
	}

	switch {
	case sqrtCurrent.Cmp(sqrtLower) <= 0:
		return liquidityForAmount0(sqrtLower, sqrtUpper, amount0)
	case sqrtCurrent.Cmp(sqrtUpper) >= 0:
		return liquidityForAmount1(sqrtLower, sqrtUpper, amount1)
	default:
		liquidity0, err := liquidityForAmount0(sqrtCurrent, sqrtUpper, amount0)
		if err != nil {
			return nil, err
		}
		liquidity1, err := liquidityForAmount1(sqrtLower, sqrtCurrent, amount1)
		if err != nil {
			return nil, err
		}
		if liquidity0.Cmp(liquidity1) < 0 {
			return liquidity0, nil
		}
		return liquidity1, nil
	}
}

// amount0Delta computes liquidity * (1/sqrtA - 1/sqrtB) scaled out of Q96,
// rounding down: muldiv(liquidity<<96, sqrtB-sqrtA, sqrtB) / sqrtA.
func amount0Delta(sqrtA, sqrtB, liquidity *big.Int) (*big.Int, error) {
	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(sqrtB, sqrtA)
	interim, err := fixedpoint.MulDiv(numerator1, numerator2, sqrtB)
	if err != nil {
		return nil, err
	}
	return interim.Quo(interim, sqrtA), nil
}

// amount1Delta computes liquidity * (sqrtB - sqrtA) scaled out of Q96.
func amount1Delta(sqrtA, sqrtB, liquidity *big.Int) (*big.Int, error) {
	return fixedpoint.MulDiv(liquidity, new(big.Int).Sub(sqrtB, sqrtA), fixedpoint.Q96)
}

func liquidityForAmount0(sqrtA, sqrtB, amount0 *big.Int) (*big.Int, error) {
	intermediate, err := fixedpoint.MulDiv(sqrtA, sqrtB, fixedpoint.Q96)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(amount0, intermediate, new(big.Int).Sub(sqrtB, sqrtA))
}

func liquidityForAmount1(sqrtA, sqrtB, amount1 *big.Int) (*big.Int, error) {
	return fixedpoint.MulDiv(amount1, fixedpoint.Q96, new(big.Int).Sub(sqrtB, sqrtA))
}

func validateBounds(sqrtCurrent, sqrtLower, sqrtUpper *big.Int) error {
	if sqrtCurrent == nil || sqrtLower == nil || sqrtUpper == nil {
		return fmt.Errorf("sqrt price bounds: %w", model.ErrInvalidInput)
	}
	if sqrtCurrent.Sign() <= 0 || sqrtLower.Sign() <= 0 || sqrtUpper.Sign() <= 0 {
		return fmt.Errorf("sqrt prices must be positive: %w", model.ErrInvalidInput)
	}
	if sqrtLower.Cmp(sqrtUpper) >= 0 {
		return fmt.Errorf("lower bound %s >= upper bound %s: %w", sqrtLower, sqrtUpper, model.ErrInvalidInput)
	}
	for _, v := range []*big.Int{sqrtCurrent, sqrtLower, sqrtUpper} {
		if err := fixedpoint.CheckUint160(v); err != nil {
			return err
		}
	}
	return nil
}
