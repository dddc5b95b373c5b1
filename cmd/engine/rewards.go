package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"liquidityEngine/internal/chain"
	"liquidityEngine/internal/config"
	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/incentive"
	"liquidityEngine/internal/model"
)

type rewardsOutput struct {
	IncentiveID     string `json:"incentive_id"`
	Status          string `json:"status"`
	ProgressPercent int    `json:"progress_percent"`
	Duration        string `json:"duration"`
	StartsIn        string `json:"starts_in,omitempty"`
	Remaining       string `json:"remaining,omitempty"`

	TotalRewardUnclaimed string `json:"total_reward_unclaimed,omitempty"`
	NumberOfStakes       uint32 `json:"number_of_stakes,omitempty"`

	StakeLiquidity  string `json:"stake_liquidity,omitempty"`
	EstimatedReward string `json:"estimated_reward,omitempty"`
	PreciseReward   string `json:"precise_reward,omitempty"`

	APRPercent float64 `json:"apr_percent,omitempty"`
}

func runRewards(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Staker == "" || !common.IsHexAddress(cfg.Staker) {
		return fmt.Errorf("staker contract address is required")
	}

	rewardToken, _ := cmd.Flags().GetString("reward-token")
	pool, _ := cmd.Flags().GetString("pool")
	start, _ := cmd.Flags().GetUint64("start")
	end, _ := cmd.Flags().GetUint64("end")
	refundee, _ := cmd.Flags().GetString("refundee")
	tokenIDRaw, _ := cmd.Flags().GetString("token-id")
	totalRewardRaw, _ := cmd.Flags().GetString("total-reward")

	key := model.IncentiveKey{
		RewardToken: rewardToken,
		Pool:        pool,
		StartTime:   start,
		EndTime:     end,
		Refundee:    refundee,
	}
	id, err := incentive.ComputeID(key)
	if err != nil {
		return err
	}

	now := time.Now()
	output := rewardsOutput{
		IncentiveID:     id.Hex(),
		Status:          string(incentive.StatusAt(key, now)),
		ProgressPercent: incentive.ProgressPercent(key, now),
		Duration:        incentive.FormatDuration(key),
	}
	if countdown := incentive.TimeUntilStart(key, now); !countdown.Done {
		output.StartsIn = formatCountdown(countdown)
	}
	if countdown := incentive.TimeRemaining(key, now); !countdown.Done {
		output.Remaining = formatCountdown(countdown)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	provider := dex.NewLiveProvider(chainClient, common.HexToAddress(cfg.Staker), cfg.WrappedNative, logger)

	totalReward := new(big.Int)
	if totalRewardRaw != "" {
		if _, ok := totalReward.SetString(totalRewardRaw, 10); !ok {
			return fmt.Errorf("invalid total-reward %q", totalRewardRaw)
		}
	}

	inc, err := provider.GetIncentive(ctx, id)
	switch {
	case err == nil:
		output.TotalRewardUnclaimed = inc.TotalRewardUnclaimed.String()
		output.NumberOfStakes = inc.NumberOfStakes
		if totalRewardRaw == "" {
			// Unclaimed reward is the closest available stand-in for the
			// funded total once claims start draining it.
			totalReward.Set(inc.TotalRewardUnclaimed)
		}
	case errors.Is(err, model.ErrNotFound):
	default:
		return err
	}

	rewardPrice, _ := cmd.Flags().GetFloat64("reward-price")
	stakedValue, _ := cmd.Flags().GetFloat64("staked-value")
	if rewardPrice > 0 && stakedValue > 0 && totalReward.Sign() > 0 {
		decimals := uint8(18)
		if resolved, err := provider.ResolveToken(ctx, model.Token{ChainID: cfg.ChainID, Address: rewardToken}); err == nil {
			decimals = resolved.Decimals
		}
		output.APRPercent = incentive.APR(totalReward, decimals, key.Duration(), stakedValue, rewardPrice)
	}

	if tokenIDRaw != "" {
		tokenID, ok := new(big.Int).SetString(tokenIDRaw, 10)
		if !ok {
			return fmt.Errorf("invalid token-id %q", tokenIDRaw)
		}
		if err := resolveStakeRewards(ctx, provider, key, id, tokenID, totalReward, now, &output); err != nil {
			return err
		}
	}

	return printJSON(output)
}

// resolveStakeRewards fills the per-position fields: the share-based estimate
// and the staker contract's authoritative figure side by side.
func resolveStakeRewards(ctx context.Context, provider *dex.LiveProvider, key model.IncentiveKey, id common.Hash, tokenID, totalReward *big.Int, now time.Time, output *rewardsOutput) error {
	stake, err := provider.GetStake(ctx, tokenID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	output.StakeLiquidity = stake.Liquidity.String()

	if !common.IsHexAddress(key.Pool) {
		return fmt.Errorf("invalid pool address %q", key.Pool)
	}
	poolLiquidity, err := provider.GetPoolLiquidity(ctx, common.HexToAddress(key.Pool))
	if err != nil {
		return err
	}

	estimate, err := incentive.EstimatePendingReward(
		stake.Liquidity, poolLiquidity, totalReward,
		key.Duration(), elapsedSeconds(key, now),
	)
	if err != nil {
		return err
	}
	output.EstimatedReward = estimate.String()

	precise, _, err := provider.GetRewardInfo(ctx, key, tokenID)
	if err != nil {
		if errors.Is(err, model.ErrTransient) {
			// The precise figure is best-effort; the estimate already stands.
			return nil
		}
		return err
	}
	output.PreciseReward = precise.String()
	return nil
}

func formatCountdown(c incentive.Countdown) string {
	return fmt.Sprintf("%dd %dh %dm %ds", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// elapsedSeconds returns how long the incentive has been accruing, clamped to
// its time box.
func elapsedSeconds(key model.IncentiveKey, now time.Time) uint64 {
	ts := now.Unix()
	if ts < 0 || uint64(ts) <= key.StartTime {
		return 0
	}
	elapsed := uint64(ts) - key.StartTime
	if duration := key.Duration(); elapsed > duration {
		return duration
	}
	return elapsed
}
