package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "engine",
		Short:        "Concentrated-liquidity pricing and routing engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Find the best swap quote across configured venues",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("rpc", "", "chain RPC URL")
	quoteCmd.Flags().Uint64("chain-id", 0, "chain ID")
	quoteCmd.Flags().String("token-in", "", "input token address (zero address for native)")
	quoteCmd.Flags().String("token-out", "", "output token address (zero address for native)")
	quoteCmd.Flags().String("amount-in", "", "exact input amount in base units")
	quoteCmd.Flags().Bool("record", false, "append the resolved quote to the quote log")
	quoteCmd.Flags().String("quote-log", "./data/quotes.jsonl", "quote history JSONL path")
	quoteCmd.Flags().Duration("query-timeout", 5*time.Second, "per-venue query timeout")
	quoteCmd.Flags().Int("max-retries", 3, "maximum retry attempts per query")
	quoteCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial retry backoff")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Compute aligned tick bounds for a range preset",
		RunE:  runRange,
	}

	rangeCmd.Flags().String("preset", "medium", "range preset (full, wide, medium, narrow, custom)")
	rangeCmd.Flags().Int32("tick", 0, "current pool tick")
	rangeCmd.Flags().Int32("tick-spacing", 60, "pool tick spacing")
	rangeCmd.Flags().Uint32("fee", 0, "fee tier, implies its canonical tick spacing")
	rangeCmd.Flags().Int32("lower", 0, "custom lower tick (custom preset only)")
	rangeCmd.Flags().Int32("upper", 0, "custom upper tick (custom preset only)")
	rangeCmd.Flags().Uint8("decimals0", 18, "token0 decimals")
	rangeCmd.Flags().Uint8("decimals1", 18, "token1 decimals")

	root.AddCommand(rangeCmd)

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Compute token amounts for a position's liquidity",
		RunE:  runPosition,
	}

	positionCmd.Flags().Int32("tick", 0, "current pool tick")
	positionCmd.Flags().String("sqrt-price", "", "current sqrt price Q64.96 (overrides --tick)")
	positionCmd.Flags().Int32("tick-lower", 0, "position lower tick")
	positionCmd.Flags().Int32("tick-upper", 0, "position upper tick")
	positionCmd.Flags().Int32("tick-spacing", 60, "pool tick spacing")
	positionCmd.Flags().String("liquidity", "", "position liquidity")
	positionCmd.Flags().String("pool-liquidity", "", "active pool liquidity (optional, for share)")
	positionCmd.Flags().String("owed0", "", "uncollected token0 fees (optional)")
	positionCmd.Flags().String("owed1", "", "uncollected token1 fees (optional)")

	root.AddCommand(positionCmd)

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Convert between ticks and human-readable prices",
		RunE:  runTick,
	}

	tickCmd.Flags().Int32("tick", 0, "tick to convert to a price")
	tickCmd.Flags().String("price", "", "price to convert to a tick (overrides --tick)")
	tickCmd.Flags().Uint8("decimals0", 18, "token0 decimals")
	tickCmd.Flags().Uint8("decimals1", 18, "token1 decimals")

	root.AddCommand(tickCmd)

	rewardsCmd := &cobra.Command{
		Use:   "rewards",
		Short: "Inspect an incentive and estimate a staked position's reward",
		RunE:  runRewards,
	}

	rewardsCmd.Flags().String("rpc", "", "chain RPC URL")
	rewardsCmd.Flags().String("staker", "", "staker contract address")
	rewardsCmd.Flags().String("reward-token", "", "incentive reward token address")
	rewardsCmd.Flags().String("pool", "", "incentive pool address")
	rewardsCmd.Flags().Uint64("start", 0, "incentive start time (unix seconds)")
	rewardsCmd.Flags().Uint64("end", 0, "incentive end time (unix seconds)")
	rewardsCmd.Flags().String("refundee", "", "incentive refundee address")
	rewardsCmd.Flags().String("token-id", "", "staked position token ID (optional)")
	rewardsCmd.Flags().String("total-reward", "", "incentive total reward for the estimate (optional)")
	rewardsCmd.Flags().Float64("reward-price", 0, "reward token USD price for the APR figure (optional)")
	rewardsCmd.Flags().Float64("staked-value", 0, "total staked USD value for the APR figure (optional)")
	rewardsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(rewardsCmd)

	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "Manage persisted staked positions",
	}

	positionsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List staked positions for an owner",
		RunE:  runPositionsList,
	}
	positionsListCmd.Flags().String("postgres-dsn", "", "Postgres DSN")
	positionsListCmd.Flags().Uint64("chain-id", 0, "chain ID")
	positionsListCmd.Flags().String("owner", "", "owner address")

	positionsRecordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a staked position after staking",
		RunE:  runPositionsRecord,
	}
	positionsRecordCmd.Flags().String("postgres-dsn", "", "Postgres DSN")
	positionsRecordCmd.Flags().Uint64("chain-id", 0, "chain ID")
	positionsRecordCmd.Flags().String("owner", "", "owner address")
	positionsRecordCmd.Flags().String("token-id", "", "position token ID")
	positionsRecordCmd.Flags().String("incentive-id", "", "incentive ID hash")
	positionsRecordCmd.Flags().String("pool", "", "incentive pool address")
	positionsRecordCmd.Flags().String("liquidity", "", "staked liquidity (fetched from the staker when omitted)")
	positionsRecordCmd.Flags().String("rpc", "", "chain RPC URL (for the liquidity lookup)")
	positionsRecordCmd.Flags().String("staker", "", "staker contract address (for the liquidity lookup)")
	positionsRecordCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	positionsRemoveCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a staked position after unstaking",
		RunE:  runPositionsRemove,
	}
	positionsRemoveCmd.Flags().String("postgres-dsn", "", "Postgres DSN")
	positionsRemoveCmd.Flags().Uint64("chain-id", 0, "chain ID")
	positionsRemoveCmd.Flags().String("token-id", "", "position token ID")
	positionsRemoveCmd.Flags().String("incentive-id", "", "incentive ID hash")

	positionsCmd.AddCommand(positionsListCmd, positionsRecordCmd, positionsRemoveCmd)
	root.AddCommand(positionsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
