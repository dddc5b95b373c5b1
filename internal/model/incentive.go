package model

import (
	"math/big"
	"time"
)

// IncentiveKey identifies a time-boxed staking incentive. The keccak256 hash
// of its ABI encoding is the incentive's canonical on-chain ID.
type IncentiveKey struct {
	RewardToken string `json:"reward_token"`
	Pool        string `json:"pool"`
	StartTime   uint64 `json:"start_time"`
	EndTime     uint64 `json:"end_time"`
	Refundee    string `json:"refundee"`
}

// Duration returns the incentive's total duration in seconds.
func (k IncentiveKey) Duration() uint64 {
	if k.EndTime <= k.StartTime {
		return 0
	}
	return k.EndTime - k.StartTime
}

// Incentive is an incentive's mutable reward accounting, as read from the
// staker contract. Unclaimed reward decreases monotonically as positions
// unstake and claim.
type Incentive struct {
	ID                      string   `json:"id"`
	TotalRewardUnclaimed    *big.Int `json:"total_reward_unclaimed"`
	TotalSecondsClaimedX128 *big.Int `json:"total_seconds_claimed_x128"`
	NumberOfStakes          uint32   `json:"number_of_stakes"`
}

// StakeRecord is a snapshot taken when a position was staked into an
// incentive. The seconds-per-liquidity accumulator it captures is external
// chain state; the engine consumes it but never computes it.
type StakeRecord struct {
	TokenID                              *big.Int `json:"token_id"`
	IncentiveID                          string   `json:"incentive_id"`
	Liquidity                            *big.Int `json:"liquidity"`
	SecondsPerLiquidityInsideInitialX128 *big.Int `json:"seconds_per_liquidity_inside_initial_x128"`
}

// StakedPositionRecord is a persisted row tracking a user's staked position.
type StakedPositionRecord struct {
	ChainID     uint64    `json:"chain_id"`
	Owner       string    `json:"owner"`
	TokenID     string    `json:"token_id"`
	IncentiveID string    `json:"incentive_id"`
	Pool        string    `json:"pool"`
	Liquidity   string    `json:"liquidity"`
	StakedAt    time.Time `json:"staked_at"`
}
