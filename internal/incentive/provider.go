package incentive

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"liquidityEngine/internal/model"
)

// Provider is the read-only staker-contract surface the estimator consumes.
// Missing records are reported with model.ErrNotFound.
type Provider interface {
	// GetIncentive returns the incentive's reward accounting by ID.
	GetIncentive(ctx context.Context, id common.Hash) (model.Incentive, error)

	// GetStake returns the stake snapshot for a position in an incentive.
	GetStake(ctx context.Context, tokenID *big.Int, id common.Hash) (model.StakeRecord, error)

	// GetRewardInfo returns the staker contract's exact accrued reward and
	// seconds-inside accumulator for a staked position. This is the
	// authoritative value the estimate approximates.
	GetRewardInfo(ctx context.Context, key model.IncentiveKey, tokenID *big.Int) (*big.Int, *big.Int, error)
}
