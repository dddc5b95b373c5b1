package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityEngine/internal/chain"
	"liquidityEngine/internal/config"
	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/quote"
	"liquidityEngine/internal/storage"
)

type quoteOutput struct {
	TokenIn  string        `json:"token_in,omitempty"`
	TokenOut string        `json:"token_out,omitempty"`
	Best     *model.Quote  `json:"best"`
	Results  []venueResult `json:"results,omitempty"`
}

type venueResult struct {
	VenueID   string `json:"venue_id"`
	AmountOut string `json:"amount_out,omitempty"`
	FeeTier   uint32 `json:"fee_tier,omitempty"`
	Gas       uint64 `json:"gas,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
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
	if cfg.ChainID == 0 {
		return fmt.Errorf("chain id is required")
	}
	if len(cfg.Venues) == 0 {
		return fmt.Errorf("at least one venue must be configured")
	}

	tokenIn, _ := cmd.Flags().GetString("token-in")
	tokenOut, _ := cmd.Flags().GetString("token-out")
	amountInRaw, _ := cmd.Flags().GetString("amount-in")
	record, _ := cmd.Flags().GetBool("record")

	amountIn, ok := new(big.Int).SetString(amountInRaw, 10)
	if !ok {
		return fmt.Errorf("invalid amount-in %q", amountInRaw)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	aggregator, provider, err := buildAggregator(cfg, chainClient, logger)
	if err != nil {
		return err
	}

	request := quote.Request{
		TokenIn:  model.Token{ChainID: cfg.ChainID, Address: tokenIn},
		TokenOut: model.Token{ChainID: cfg.ChainID, Address: tokenOut},
		AmountIn: amountIn,
	}
	if resolved, err := provider.ResolveToken(ctx, request.TokenIn); err == nil {
		request.TokenIn = resolved
	} else {
		logger.Warn("token-in metadata unavailable", zap.String("token", tokenIn), zap.Error(err))
	}
	if resolved, err := provider.ResolveToken(ctx, request.TokenOut); err == nil {
		request.TokenOut = resolved
	} else {
		logger.Warn("token-out metadata unavailable", zap.String("token", tokenOut), zap.Error(err))
	}

	requestedAt := time.Now().UTC()
	best, results, err := aggregator.BestQuote(ctx, request)
	if err != nil {
		return err
	}

	output := quoteOutput{
		TokenIn:  request.TokenIn.Symbol,
		TokenOut: request.TokenOut.Symbol,
		Best:     best,
	}
	for _, result := range results {
		entry := venueResult{VenueID: result.VenueID}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		} else if result.Quote != nil {
			entry.AmountOut = result.Quote.AmountOut.String()
			entry.FeeTier = result.Quote.FeeTier
			entry.Gas = result.Quote.EstimatedGas
		}
		output.Results = append(output.Results, entry)
	}
	if err := printJSON(output); err != nil {
		return err
	}

	if record && best != nil {
		err := recordBestQuote(storage.NewJsonlStorage(cfg.QuoteLog), model.QuoteRecord{
			ChainID:      cfg.ChainID,
			TokenIn:      tokenIn,
			TokenOut:     tokenOut,
			AmountIn:     amountIn.String(),
			AmountOut:    best.AmountOut.String(),
			VenueID:      best.VenueID,
			FeeTier:      best.FeeTier,
			EstimatedGas: best.EstimatedGas,
			RequestedAt:  requestedAt,
		})
		if err != nil {
			return fmt.Errorf("record quote: %w", err)
		}
		logger.Info("quote recorded", zap.String("path", cfg.QuoteLog))
	}

	return nil
}

// recordBestQuote persists the winning quote through whichever sink is
// configured.
func recordBestQuote(sink storage.QuoteSink, record model.QuoteRecord) error {
	return sink.PutQuotes([]model.QuoteRecord{record})
}

// buildAggregator wires the live provider and aggregator from venue config.
func buildAggregator(cfg config.Config, chainClient *chain.Client, logger *zap.Logger) (*quote.Aggregator, *dex.LiveProvider, error) {
	var staker common.Address
	if cfg.Staker != "" {
		if !common.IsHexAddress(cfg.Staker) {
			return nil, nil, fmt.Errorf("invalid staker address %q", cfg.Staker)
		}
		staker = common.HexToAddress(cfg.Staker)
	}

	provider := dex.NewLiveProvider(chainClient, staker, cfg.WrappedNative, logger)
	aggregator := quote.NewAggregator(quote.Config{
		QueryTimeout:  cfg.QueryTimeout,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
		WrappedNative: cfg.WrappedNative,
	}, provider, logger)

	for _, venue := range cfg.Venues {
		protocol := quote.Protocol(venue.Protocol)
		contracts := dex.VenueContracts{Protocol: protocol}
		if venue.Factory != "" {
			if !common.IsHexAddress(venue.Factory) {
				return nil, nil, fmt.Errorf("venue %s: invalid factory %q", venue.ID, venue.Factory)
			}
			contracts.Factory = common.HexToAddress(venue.Factory)
		}
		if venue.Quoter != "" {
			if !common.IsHexAddress(venue.Quoter) {
				return nil, nil, fmt.Errorf("venue %s: invalid quoter %q", venue.ID, venue.Quoter)
			}
			contracts.Quoter = common.HexToAddress(venue.Quoter)
		}
		if venue.Router != "" {
			if !common.IsHexAddress(venue.Router) {
				return nil, nil, fmt.Errorf("venue %s: invalid router %q", venue.ID, venue.Router)
			}
			contracts.Router = common.HexToAddress(venue.Router)
		}
		provider.RegisterVenue(venue.ID, contracts)
		if err := aggregator.Register(quote.Venue{ID: venue.ID, Protocol: protocol, FeeTiers: venue.FeeTiers}); err != nil {
			return nil, nil, err
		}
	}

	return aggregator, provider, nil
}

func printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
