// Package incentive computes lifecycle state and reward estimates for
// time-boxed liquidity-mining incentives over staked positions.
package incentive

import (
	"fmt"
	"math/big"
	"time"

	"liquidityEngine/internal/model"
)

// Status is an incentive's lifecycle state at a point in time.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// StatusAt returns the incentive's state at now. Pure function of wall-clock
// time: pending before start, ended at or after end, active otherwise.
func StatusAt(key model.IncentiveKey, now time.Time) Status {
	ts := uint64(now.Unix())
	switch {
	case ts < key.StartTime:
		return StatusPending
	case ts >= key.EndTime:
		return StatusEnded
	default:
		return StatusActive
	}
}

// ProgressPercent linearly interpolates the incentive's elapsed share,
// clamped to 0 before start and 100 at or after end.
func ProgressPercent(key model.IncentiveKey, now time.Time) int {
	ts := uint64(now.Unix())
	if ts < key.StartTime {
		return 0
	}
	if ts >= key.EndTime || key.EndTime <= key.StartTime {
		return 100
	}
	elapsed := ts - key.StartTime
	total := key.EndTime - key.StartTime
	return int((elapsed*100 + total/2) / total)
}

// EstimatePendingReward approximates the reward accrued by a stake over
// secondsStaked: the incentive's per-second reward rate, scaled by the
// stake's share of total staked liquidity. Multiplications happen before the
// share division to limit rounding loss, and the result is clamped to the
// incentive's total reward.
//
// This is a display-only estimate. The authoritative claimable amount comes
// from the staker contract's seconds-per-liquidity accumulator, which is
// external chain state this estimator does not replicate.
func EstimatePendingReward(stakeLiquidity, totalLiquidity, totalReward *big.Int, durationSeconds, secondsStaked uint64) (*big.Int, error) {
	if stakeLiquidity == nil || totalLiquidity == nil || totalReward == nil {
		return nil, fmt.Errorf("nil reward input: %w", model.ErrInvalidInput)
	}
	if stakeLiquidity.Sign() < 0 || totalLiquidity.Sign() < 0 || totalReward.Sign() < 0 {
		return nil, fmt.Errorf("negative reward input: %w", model.ErrInvalidInput)
	}
	if totalLiquidity.Sign() == 0 || durationSeconds == 0 {
		return big.NewInt(0), nil
	}

	rewardPerSecond := new(big.Int).Quo(totalReward, new(big.Int).SetUint64(durationSeconds))

	reward := new(big.Int).Mul(rewardPerSecond, stakeLiquidity)
	reward.Mul(reward, new(big.Int).SetUint64(secondsStaked))
	reward.Quo(reward, totalLiquidity)

	if reward.Cmp(totalReward) > 0 {
		reward.Set(totalReward)
	}
	return reward, nil
}
