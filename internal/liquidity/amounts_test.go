package liquidity

import (
	"errors"
	"math/big"
	"testing"

	"liquidityEngine/internal/fixedpoint"
	"liquidityEngine/internal/model"
)

// Sqrt-price fixtures as exact Q96 multiples: lower 1.0, upper 2.0.
var (
	sqrtOne        = new(big.Int).Set(fixedpoint.Q96)
	sqrtTwo        = new(big.Int).Mul(fixedpoint.Q96, big.NewInt(2))
	sqrtThree      = new(big.Int).Mul(fixedpoint.Q96, big.NewInt(3))
	sqrtOneAndHalf = new(big.Int).Quo(new(big.Int).Mul(fixedpoint.Q96, big.NewInt(3)), big.NewInt(2))
	testLiquidity  = big.NewInt(1_000_000_000_000_000_000)
)

func TestAmountsForLiquidityBelowRange(t *testing.T) {
	current := new(big.Int).Quo(fixedpoint.Q96, big.NewInt(2))
	amount0, amount1, err := AmountsForLiquidity(current, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// L * (1/1 - 1/2) = L/2, all in token0.
	want := new(big.Int).Quo(testLiquidity, big.NewInt(2))
	if amount0.Cmp(want) != 0 {
		t.Fatalf("amount0: expected %s, got %s", want, amount0)
	}
	if amount1.Sign() != 0 {
		t.Fatalf("amount1: expected 0, got %s", amount1)
	}
}

func TestAmountsForLiquidityAboveRange(t *testing.T) {
	amount0, amount1, err := AmountsForLiquidity(sqrtThree, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Sign() != 0 {
		t.Fatalf("amount0: expected 0, got %s", amount0)
	}
	// L * (2 - 1) = L, all in token1.
	if amount1.Cmp(testLiquidity) != 0 {
		t.Fatalf("amount1: expected %s, got %s", testLiquidity, amount1)
	}
}

func TestAmountsForLiquidityInRange(t *testing.T) {
	amount0, amount1, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// token0 leg: L * (1/1.5 - 1/2) = L/6, floored.
	want0 := new(big.Int).Quo(testLiquidity, big.NewInt(6))
	if amount0.Cmp(want0) != 0 {
		t.Fatalf("amount0: expected %s, got %s", want0, amount0)
	}
	// token1 leg: L * (1.5 - 1) = L/2.
	want1 := new(big.Int).Quo(testLiquidity, big.NewInt(2))
	if amount1.Cmp(want1) != 0 {
		t.Fatalf("amount1: expected %s, got %s", want1, amount1)
	}
}

func TestAmountsForLiquidityZero(t *testing.T) {
	amount0, amount1, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, big.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Sign() != 0 || amount1.Sign() != 0 {
		t.Fatalf("expected zero amounts, got %s / %s", amount0, amount1)
	}
}

func TestAmountsForLiquidityMonotoneInLiquidity(t *testing.T) {
	amount0, amount1, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doubled := new(big.Int).Mul(testLiquidity, big.NewInt(2))
	amount0Big, amount1Big, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, doubled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0Big.Cmp(amount0) < 0 || amount1Big.Cmp(amount1) < 0 {
		t.Fatalf("doubling liquidity shrank amounts: %s<%s or %s<%s", amount0Big, amount0, amount1Big, amount1)
	}
}

func TestAmountsForLiquidityInvalidBounds(t *testing.T) {
	if _, _, err := AmountsForLiquidity(sqrtOne, sqrtTwo, sqrtOne, testLiquidity); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
	if _, _, err := AmountsForLiquidity(sqrtOne, sqrtOne, sqrtOne, testLiquidity); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
	if _, _, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, big.NewInt(-1)); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
}

func TestLiquidityForAmountsNeverOverdraws(t *testing.T) {
	amount0, amount1, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	liquidity, err := LiquidityForAmounts(sqrtOneAndHalf, sqrtOne, sqrtTwo, amount0, amount1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liquidity.Sign() <= 0 {
		t.Fatalf("expected positive liquidity, got %s", liquidity)
	}
	if liquidity.Cmp(testLiquidity) > 0 {
		t.Fatalf("inverse liquidity %s exceeds original %s", liquidity, testLiquidity)
	}

	back0, back1, err := AmountsForLiquidity(sqrtOneAndHalf, sqrtOne, sqrtTwo, liquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back0.Cmp(amount0) > 0 || back1.Cmp(amount1) > 0 {
		t.Fatalf("round trip overdraws: %s>%s or %s>%s", back0, amount0, back1, amount1)
	}
}

func TestLiquidityForAmountsSingleSided(t *testing.T) {
	// Below range only token0 counts.
	current := new(big.Int).Quo(fixedpoint.Q96, big.NewInt(2))
	liquidity, err := LiquidityForAmounts(current, sqrtOne, sqrtTwo, testLiquidity, big.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liquidity.Sign() <= 0 {
		t.Fatalf("expected positive liquidity, got %s", liquidity)
	}

	// Above range only token1 counts.
	liquidity, err = LiquidityForAmounts(sqrtThree, sqrtOne, sqrtTwo, big.NewInt(0), testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// L = amount1 * Q96 / (upper - lower) = amount1.
	if liquidity.Cmp(testLiquidity) != 0 {
		t.Fatalf("expected %s, got %s", testLiquidity, liquidity)
	}
}

func TestAmountsForLiquidityContinuousAtBounds(t *testing.T) {
	justAboveLower := new(big.Int).Add(sqrtOne, big.NewInt(1))
	amount0, amount1, err := AmountsForLiquidity(justAboveLower, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount1.Sign() != 0 {
		t.Fatalf("token1 should vanish just above the lower bound, got %s", amount1)
	}
	below0, _, err := AmountsForLiquidity(sqrtOne, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gap := new(big.Int).Sub(below0, amount0)
	if gap.Sign() < 0 || gap.Cmp(big.NewInt(1)) > 0 {
		t.Fatalf("token0 jumps across the lower bound: %s vs %s", below0, amount0)
	}

	justBelowUpper := new(big.Int).Sub(sqrtTwo, big.NewInt(1))
	amount0, amount1, err = AmountsForLiquidity(justBelowUpper, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Sign() != 0 {
		t.Fatalf("token0 should vanish just below the upper bound, got %s", amount0)
	}
	_, above1, err := AmountsForLiquidity(sqrtTwo, sqrtOne, sqrtTwo, testLiquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gap = new(big.Int).Sub(above1, amount1)
	if gap.Sign() < 0 || gap.Cmp(big.NewInt(1)) > 0 {
		t.Fatalf("token1 jumps across the upper bound: %s vs %s", above1, amount1)
	}
}
