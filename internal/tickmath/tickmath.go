// Package tickmath converts between ticks, sqrt prices, and human prices on
// the 1.0001^tick reference grid, bit-exact with the on-chain tick math.
package tickmath

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"liquidityEngine/internal/fixedpoint"
	"liquidityEngine/internal/model"
)

const (
	// MinTick and MaxTick bound the reference grid.
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	// MinSqrtRatio is the sqrt price at MinTick.
	MinSqrtRatio = big.NewInt(4295128739)
	// MaxSqrtRatio is the sqrt price at MaxTick.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
)

// Multiplier ladder for sqrt(1.0001)^(2^i) in Q128, i = 1..19, preceded by
// the two seed values selected on the low bit of |tick|.
var sqrtRatioConsts = [21]*uint256.Int{
	uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001"),
	uint256.MustFromHex("0x100000000000000000000000000000000"),
	uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
	uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
	uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
	uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
	uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
	uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
	uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
	uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
	uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
	uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
	uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
}

var (
	uint256Max = new(uint256.Int).Not(new(uint256.Int))
	uint160Max = uint256.MustFromHex("0xffffffffffffffffffffffffffffffffffffffff")
	oneShl32   = new(uint256.Int).Lsh(uint256.NewInt(1), 32)
)

// TickToSqrtPrice returns sqrt(1.0001^tick) in Q64.96, matching the reference
// grid bit for bit. Ticks outside [MinTick, MaxTick] fail with
// model.ErrOutOfRange.
func TickToSqrtPrice(tick int32) (*big.Int, error) {
	var absTick uint64
	if tick < 0 {
		absTick = uint64(-int64(tick))
	} else {
		absTick = uint64(tick)
	}
	if absTick > uint64(MaxTick) {
		return nil, fmt.Errorf("tick %d: %w", tick, model.ErrOutOfRange)
	}

	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(sqrtRatioConsts[0])
	} else {
		ratio.Set(sqrtRatioConsts[1])
	}
	for i := 0; i < 19; i++ {
		if absTick&(1<<(i+1)) != 0 {
			ratio.Mul(ratio, sqrtRatioConsts[i+2])
			ratio.Rsh(ratio, 128)
		}
	}
	if tick > 0 {
		ratio.Div(uint256Max, ratio)
	}

	// Round the Q128 ratio up into Q96, as the reference grid does.
	rem := new(uint256.Int).Mod(ratio, oneShl32)
	ratio.Rsh(ratio, 32)
	if !rem.IsZero() {
		ratio.AddUint64(ratio, 1)
	}
	ratio.And(ratio, uint160Max)

	return ratio.ToBig(), nil
}

// SqrtPriceToTick returns the largest tick whose sqrt price is at most the
// given value. Inverse of TickToSqrtPrice on the grid.
func SqrtPriceToTick(sqrtPriceX96 *big.Int) (int32, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return 0, fmt.Errorf("sqrt price: %w", model.ErrInvalidInput)
	}
	if err := fixedpoint.CheckUint160(sqrtPriceX96); err != nil {
		return 0, err
	}
	if sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) > 0 {
		return 0, fmt.Errorf("sqrt price %s: %w", sqrtPriceX96, model.ErrOutOfRange)
	}

	// Binary search the monotonic grid for the greatest tick whose sqrt
	// ratio does not exceed the target.
	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ratio, err := TickToSqrtPrice(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Cmp(sqrtPriceX96) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// NearestUsableTick rounds tick to the nearest multiple of tickSpacing. Exact
// halves round toward tick zero, matching the on-chain alignment rule, and
// the result is clamped into the usable grid.
func NearestUsableTick(tick, tickSpacing int32) (int32, error) {
	if tickSpacing <= 0 {
		return 0, fmt.Errorf("tick spacing %d: %w", tickSpacing, model.ErrInvalidInput)
	}
	if tick < MinTick || tick > MaxTick {
		return 0, fmt.Errorf("tick %d: %w", tick, model.ErrOutOfRange)
	}

	quotient := tick / tickSpacing
	remainder := tick % tickSpacing
	doubled := 2 * remainder
	if doubled > tickSpacing {
		quotient++
	} else if doubled < -tickSpacing {
		quotient--
	}
	rounded := quotient * tickSpacing

	if rounded < MinTick {
		rounded += tickSpacing
	} else if rounded > MaxTick {
		rounded -= tickSpacing
	}
	return rounded, nil
}

// MinUsableTick returns the smallest tick that is a multiple of tickSpacing.
func MinUsableTick(tickSpacing int32) int32 {
	return (MinTick / tickSpacing) * tickSpacing
}

// MaxUsableTick returns the largest tick that is a multiple of tickSpacing.
func MaxUsableTick(tickSpacing int32) int32 {
	return (MaxTick / tickSpacing) * tickSpacing
}
