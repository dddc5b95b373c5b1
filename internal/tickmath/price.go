package tickmath

import (
	"fmt"
	"math/big"

	"liquidityEngine/internal/model"
)

const priceDigits = 18

var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// SqrtPriceToPrice converts a Q64.96 sqrt price into a decimal price string
// in token1-per-token0 terms, adjusted for both tokens' decimal scales. The
// scale adjustment keeps its sign: decimals1-decimals0 may be negative.
func SqrtPriceToPrice(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8) (string, error) {
	rat, err := sqrtPriceToRat(sqrtPriceX96, decimals0, decimals1)
	if err != nil {
		return "", err
	}
	return formatRat(rat), nil
}

// TickToPrice converts a tick into a decimal price string adjusted for both
// tokens' decimal scales.
func TickToPrice(tick int32, decimals0, decimals1 uint8) (string, error) {
	sqrtPrice, err := TickToSqrtPrice(tick)
	if err != nil {
		return "", err
	}
	return SqrtPriceToPrice(sqrtPrice, decimals0, decimals1)
}

// PriceToTick maps a decimal price back onto the grid, selecting the tick
// whose grid price is nearest the input. Monotonic in price, and inverse of
// TickToPrice within one tick's relative step.
func PriceToTick(price string, decimals0, decimals1 uint8) (int32, error) {
	rat, ok := new(big.Rat).SetString(price)
	if !ok {
		return 0, fmt.Errorf("parse price %q: %w", price, model.ErrInvalidInput)
	}
	if rat.Sign() <= 0 {
		return 0, fmt.Errorf("price %q must be positive: %w", price, model.ErrInvalidInput)
	}

	// Undo the decimal-scale adjustment to recover the raw grid price.
	raw := new(big.Rat).Set(rat)
	scaleRat(raw, int(decimals1)-int(decimals0))

	minPrice, err := tickPriceRat(MinTick)
	if err != nil {
		return 0, err
	}
	maxPrice, err := tickPriceRat(MaxTick)
	if err != nil {
		return 0, err
	}
	if raw.Cmp(minPrice) < 0 || raw.Cmp(maxPrice) > 0 {
		return 0, fmt.Errorf("price %q beyond grid: %w", price, model.ErrOutOfRange)
	}

	// Largest tick whose grid price does not exceed the target.
	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		midPrice, err := tickPriceRat(mid)
		if err != nil {
			return 0, err
		}
		if midPrice.Cmp(raw) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	if lo == MaxTick {
		return lo, nil
	}

	// Snap to whichever neighbor is closer in ratio terms, so a printed grid
	// price maps back to its own tick.
	floorPrice, err := tickPriceRat(lo)
	if err != nil {
		return 0, err
	}
	ceilPrice, err := tickPriceRat(lo + 1)
	if err != nil {
		return 0, err
	}
	squared := new(big.Rat).Mul(raw, raw)
	bound := new(big.Rat).Mul(floorPrice, ceilPrice)
	if squared.Cmp(bound) >= 0 {
		return lo + 1, nil
	}
	return lo, nil
}

func sqrtPriceToRat(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8) (*big.Rat, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return nil, fmt.Errorf("sqrt price must be positive: %w", model.ErrInvalidInput)
	}
	squared := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	rat := new(big.Rat).SetFrac(squared, q192)
	scaleRat(rat, int(decimals0)-int(decimals1))
	return rat, nil
}

// tickPriceRat returns the exact raw grid price (sqrtRatio^2 / 2^192).
func tickPriceRat(tick int32) (*big.Rat, error) {
	sqrtPrice, err := TickToSqrtPrice(tick)
	if err != nil {
		return nil, err
	}
	squared := new(big.Int).Mul(sqrtPrice, sqrtPrice)
	return new(big.Rat).SetFrac(squared, q192), nil
}

// scaleRat multiplies rat by 10^exp in place, for either sign of exp.
func scaleRat(rat *big.Rat, exp int) {
	if exp == 0 {
		return
	}
	abs := exp
	if abs < 0 {
		abs = -abs
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs)), nil)
	if exp > 0 {
		rat.Mul(rat, new(big.Rat).SetInt(pow))
	} else {
		rat.Quo(rat, new(big.Rat).SetInt(pow))
	}
}

// formatRat prints a rat with priceDigits significant decimals, extending the
// scale for values that would otherwise collapse to zero.
func formatRat(rat *big.Rat) string {
	scale := priceDigits
	if rat.Sign() != 0 {
		numLen := len(new(big.Int).Abs(rat.Num()).String())
		denLen := len(rat.Denom().String())
		if lead := denLen - numLen; lead > 0 {
			scale += lead
		}
	}
	return rat.FloatString(scale)
}
