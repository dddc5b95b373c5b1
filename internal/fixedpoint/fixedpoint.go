// Package fixedpoint provides the Q64.96 / Q128 fixed-point primitives the
// pricing engine is built on. All operations are lossless across 256-bit
// intermediate products; results outside the representable range fail with
// model.ErrOverflow instead of truncating.
package fixedpoint

import (
	"fmt"
	"math/big"

	"liquidityEngine/internal/model"
)

var (
	// Q96 is 2^96, the scale of sqrt-price encoding.
	Q96 = new(big.Int).Lsh(big.NewInt(1), 96)
	// Q128 is 2^128, the scale of seconds-per-liquidity accumulators.
	Q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	// MaxUint256 bounds every intermediate result.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	// MaxUint160 bounds sqrt-price values.
	MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
	// MaxUint128 bounds liquidity values.
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// MulDiv computes floor(a*b/denominator) without intermediate precision loss.
// Inputs must be non-negative; a zero denominator fails with
// model.ErrDivisionByZero and a result above 2^256-1 with model.ErrOverflow.
func MulDiv(a, b, denominator *big.Int) (*big.Int, error) {
	if a == nil || b == nil || denominator == nil {
		return nil, fmt.Errorf("muldiv: nil operand: %w", model.ErrInvalidInput)
	}
	if a.Sign() < 0 || b.Sign() < 0 || denominator.Sign() < 0 {
		return nil, fmt.Errorf("muldiv: negative operand: %w", model.ErrInvalidInput)
	}
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("muldiv: %w", model.ErrDivisionByZero)
	}

	product := new(big.Int).Mul(a, b)
	result := product.Quo(product, denominator)
	if result.Cmp(MaxUint256) > 0 {
		return nil, fmt.Errorf("muldiv %s*%s/%s: %w", a, b, denominator, model.ErrOverflow)
	}
	return result, nil
}

// MulDivRoundingUp computes ceil(a*b/denominator) with the same contract as
// MulDiv.
func MulDivRoundingUp(a, b, denominator *big.Int) (*big.Int, error) {
	if a == nil || b == nil || denominator == nil {
		return nil, fmt.Errorf("muldiv: nil operand: %w", model.ErrInvalidInput)
	}
	if a.Sign() < 0 || b.Sign() < 0 || denominator.Sign() < 0 {
		return nil, fmt.Errorf("muldiv: negative operand: %w", model.ErrInvalidInput)
	}
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("muldiv: %w", model.ErrDivisionByZero)
	}

	product := new(big.Int).Mul(a, b)
	result, remainder := product.QuoRem(product, denominator, new(big.Int))
	if remainder.Sign() != 0 {
		result.Add(result, big.NewInt(1))
	}
	if result.Cmp(MaxUint256) > 0 {
		return nil, fmt.Errorf("muldiv %s*%s/%s: %w", a, b, denominator, model.ErrOverflow)
	}
	return result, nil
}

// CheckUint160 validates that v fits a uint160 sqrt-price slot.
func CheckUint160(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("uint160 cast: %w", model.ErrInvalidInput)
	}
	if v.Cmp(MaxUint160) > 0 {
		return fmt.Errorf("uint160 cast of %s: %w", v, model.ErrOverflow)
	}
	return nil
}

// CheckUint128 validates that v fits a uint128 liquidity slot.
func CheckUint128(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("uint128 cast: %w", model.ErrInvalidInput)
	}
	if v.Cmp(MaxUint128) > 0 {
		return fmt.Errorf("uint128 cast of %s: %w", v, model.ErrOverflow)
	}
	return nil
}
