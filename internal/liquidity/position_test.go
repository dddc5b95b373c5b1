package liquidity

import (
	"errors"
	"math/big"
	"testing"

	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tickmath"
)

func TestInRangeUpperExclusive(t *testing.T) {
	if !InRange(0, -60, 60) {
		t.Fatalf("tick 0 should be inside [-60,60)")
	}
	if !InRange(-60, -60, 60) {
		t.Fatalf("lower bound is inclusive")
	}
	if InRange(60, -60, 60) {
		t.Fatalf("upper bound is exclusive")
	}
	if InRange(-61, -60, 60) {
		t.Fatalf("tick below range reported in range")
	}
}

func TestPositionAmountsMatchesDirectMath(t *testing.T) {
	sqrtPrice, err := tickmath.TickToSqrtPrice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pool := model.PoolState{SqrtPriceX96: sqrtPrice, Tick: 0, TickSpacing: 60}
	position := model.PositionRange{TickLower: -6000, TickUpper: 6000, Liquidity: big.NewInt(1_000_000_000)}

	amount0, amount1, err := PositionAmounts(pool, position)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		t.Fatalf("centered position should hold both tokens, got %s / %s", amount0, amount1)
	}

	sqrtLower, err := tickmath.TickToSqrtPrice(-6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqrtUpper, err := tickmath.TickToSqrtPrice(6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct0, direct1, err := AmountsForLiquidity(sqrtPrice, sqrtLower, sqrtUpper, position.Liquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Cmp(direct0) != 0 || amount1.Cmp(direct1) != 0 {
		t.Fatalf("position amounts diverge from direct math")
	}
}

func TestPositionAmountsNilLiquidity(t *testing.T) {
	pool := model.PoolState{SqrtPriceX96: big.NewInt(1)}
	position := model.PositionRange{TickLower: -60, TickUpper: 60}
	amount0, amount1, err := PositionAmounts(pool, position)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0.Sign() != 0 || amount1.Sign() != 0 {
		t.Fatalf("expected zero amounts, got %s / %s", amount0, amount1)
	}
}

func TestValidateTickRange(t *testing.T) {
	if err := ValidateTickRange(-120, 120, 60); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTickRange(120, -120, 60); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
	if err := ValidateTickRange(-100, 120, 60); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error for unaligned lower, got %v", err)
	}
	if err := ValidateTickRange(-120, 100, 60); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error for unaligned upper, got %v", err)
	}
	if err := ValidateTickRange(-120, 120, 0); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error for zero spacing, got %v", err)
	}
}

func TestTotalAmounts(t *testing.T) {
	total0, total1 := TotalAmounts(big.NewInt(100), big.NewInt(200), big.NewInt(5), big.NewInt(7))
	if total0.Cmp(big.NewInt(105)) != 0 || total1.Cmp(big.NewInt(207)) != 0 {
		t.Fatalf("expected 105 / 207, got %s / %s", total0, total1)
	}

	total0, total1 = TotalAmounts(nil, big.NewInt(200), nil, nil)
	if total0.Sign() != 0 {
		t.Fatalf("nil amount should total zero, got %s", total0)
	}
	if total1.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected 200, got %s", total1)
	}
}

func TestPoolSharePercent(t *testing.T) {
	if got := PoolSharePercent(big.NewInt(25), big.NewInt(100)); got != "25.00%" {
		t.Fatalf("expected 25.00%%, got %q", got)
	}
	if got := PoolSharePercent(big.NewInt(1), big.NewInt(1_000_000)); got != "<0.01%" {
		t.Fatalf("expected <0.01%%, got %q", got)
	}
	if got := PoolSharePercent(big.NewInt(1), big.NewInt(0)); got != "0%" {
		t.Fatalf("expected 0%%, got %q", got)
	}
}
