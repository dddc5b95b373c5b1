package main

import (
	"context"
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
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/storage/postgres"
)

// openStore loads config and connects the staked-position store.
func openStore(ctx context.Context, cmd *cobra.Command) (*postgres.Store, config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, config.Config{}, err
	}
	if cfg.PostgresDSN == "" {
		return nil, config.Config{}, fmt.Errorf("postgres dsn is required")
	}
	if cfg.ChainID == 0 {
		return nil, config.Config{}, fmt.Errorf("chain id is required")
	}
	store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("connect postgres: %w", err)
	}
	return store, cfg, nil
}

func runPositionsList(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cfg, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		return fmt.Errorf("owner address is required")
	}

	positions, err := store.ListStakedPositions(ctx, cfg.ChainID, owner)
	if err != nil {
		return err
	}
	return printJSON(positions)
}

func runPositionsRecord(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cfg, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	owner, _ := cmd.Flags().GetString("owner")
	tokenID, _ := cmd.Flags().GetString("token-id")
	incentiveID, _ := cmd.Flags().GetString("incentive-id")
	pool, _ := cmd.Flags().GetString("pool")
	liquidity, _ := cmd.Flags().GetString("liquidity")

	record, err := parseStakedPosition(cfg.ChainID, owner, tokenID, incentiveID, pool, liquidity, time.Now().UTC())
	if err != nil {
		return err
	}

	if record.Liquidity == "" {
		stake, err := fetchStakeLiquidity(ctx, cfg, tokenID, record.IncentiveID)
		if err != nil {
			return err
		}
		record.Liquidity = stake.String()
	}

	if err := store.UpsertStakedPositions(ctx, []model.StakedPositionRecord{record}); err != nil {
		return fmt.Errorf("record staked position: %w", err)
	}
	return printJSON(record)
}

func runPositionsRemove(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cfg, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	tokenID, _ := cmd.Flags().GetString("token-id")
	if _, ok := new(big.Int).SetString(tokenID, 10); !ok {
		return fmt.Errorf("invalid token-id %q", tokenID)
	}
	incentiveID, _ := cmd.Flags().GetString("incentive-id")
	hash := common.HexToHash(incentiveID)
	if hash == (common.Hash{}) {
		return fmt.Errorf("invalid incentive-id %q", incentiveID)
	}

	if err := store.RemoveStakedPosition(ctx, cfg.ChainID, tokenID, hash.Hex()); err != nil {
		return fmt.Errorf("remove staked position: %w", err)
	}
	return printJSON(map[string]string{
		"removed_token_id":     tokenID,
		"removed_incentive_id": hash.Hex(),
	})
}

// parseStakedPosition validates CLI inputs into a persistable row. Liquidity
// may be left empty for a later chain lookup.
func parseStakedPosition(chainID uint64, owner, tokenID, incentiveID, pool, liquidity string, stakedAt time.Time) (model.StakedPositionRecord, error) {
	if !common.IsHexAddress(owner) {
		return model.StakedPositionRecord{}, fmt.Errorf("invalid owner address %q", owner)
	}
	if !common.IsHexAddress(pool) {
		return model.StakedPositionRecord{}, fmt.Errorf("invalid pool address %q", pool)
	}
	if _, ok := new(big.Int).SetString(tokenID, 10); !ok {
		return model.StakedPositionRecord{}, fmt.Errorf("invalid token-id %q", tokenID)
	}
	hash := common.HexToHash(incentiveID)
	if hash == (common.Hash{}) {
		return model.StakedPositionRecord{}, fmt.Errorf("invalid incentive-id %q", incentiveID)
	}
	if liquidity != "" {
		if _, ok := new(big.Int).SetString(liquidity, 10); !ok {
			return model.StakedPositionRecord{}, fmt.Errorf("invalid liquidity %q", liquidity)
		}
	}
	return model.StakedPositionRecord{
		ChainID:     chainID,
		Owner:       owner,
		TokenID:     tokenID,
		IncentiveID: hash.Hex(),
		Pool:        pool,
		Liquidity:   liquidity,
		StakedAt:    stakedAt,
	}, nil
}

// fetchStakeLiquidity reads the staked liquidity from the staker contract.
func fetchStakeLiquidity(ctx context.Context, cfg config.Config, tokenIDRaw, incentiveID string) (*big.Int, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("liquidity or an rpc url is required")
	}
	if cfg.Staker == "" || !common.IsHexAddress(cfg.Staker) {
		return nil, fmt.Errorf("staker contract address is required to look up liquidity")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	provider := dex.NewLiveProvider(chainClient, common.HexToAddress(cfg.Staker), cfg.WrappedNative, logger)
	tokenID, _ := new(big.Int).SetString(tokenIDRaw, 10)
	stake, err := provider.GetStake(ctx, tokenID, common.HexToHash(incentiveID))
	if err != nil {
		return nil, err
	}
	return stake.Liquidity, nil
}
