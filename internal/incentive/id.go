package incentive

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"liquidityEngine/internal/model"
)

var (
	keyArguments     abi.Arguments
	keyArgumentsOnce sync.Once
	keyArgumentsErr  error
)

func incentiveKeyArguments() (abi.Arguments, error) {
	keyArgumentsOnce.Do(func() {
		addressType, err := abi.NewType("address", "", nil)
		if err != nil {
			keyArgumentsErr = err
			return
		}
		uint256Type, err := abi.NewType("uint256", "", nil)
		if err != nil {
			keyArgumentsErr = err
			return
		}
		keyArguments = abi.Arguments{
			{Name: "rewardToken", Type: addressType},
			{Name: "pool", Type: addressType},
			{Name: "startTime", Type: uint256Type},
			{Name: "endTime", Type: uint256Type},
			{Name: "refundee", Type: addressType},
		}
	})
	return keyArguments, keyArgumentsErr
}

// ComputeID returns the incentive's canonical ID: the keccak256 hash of the
// ABI-encoded key tuple, matching the staker contract's derivation.
func ComputeID(key model.IncentiveKey) (common.Hash, error) {
	args, err := incentiveKeyArguments()
	if err != nil {
		return common.Hash{}, fmt.Errorf("incentive key abi: %w", err)
	}

	rewardToken, err := parseAddress(key.RewardToken)
	if err != nil {
		return common.Hash{}, fmt.Errorf("reward token: %w", err)
	}
	pool, err := parseAddress(key.Pool)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pool: %w", err)
	}
	refundee, err := parseAddress(key.Refundee)
	if err != nil {
		return common.Hash{}, fmt.Errorf("refundee: %w", err)
	}

	encoded, err := args.Pack(
		rewardToken,
		pool,
		new(big.Int).SetUint64(key.StartTime),
		new(big.Int).SetUint64(key.EndTime),
		refundee,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack incentive key: %w", err)
	}
	return crypto.Keccak256Hash(encoded), nil
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address %q: %w", value, model.ErrInvalidInput)
	}
	return common.HexToAddress(value), nil
}
