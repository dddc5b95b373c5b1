// Package quote aggregates swap quotes across constant-product and
// concentrated-liquidity venues and selects the best execution.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"liquidityEngine/internal/model"
)

// Config controls aggregation behavior.
type Config struct {
	// QueryTimeout bounds each individual venue or fee-tier query.
	QueryTimeout time.Duration
	// MaxRetries caps transient-failure retries per query.
	MaxRetries int
	// RetryBackoff is the initial backoff interval between retries.
	RetryBackoff time.Duration
	// WrappedNative maps chain ID to the wrapped-native token address, used
	// for the wrap/unwrap shortcut.
	WrappedNative map[uint64]string
}

// Request describes one exact-input swap to quote.
type Request struct {
	TokenIn  model.Token
	TokenOut model.Token
	AmountIn *big.Int
}

// VenueResult is one venue's outcome within an aggregation. A nil Quote with
// a non-nil Err means the venue was removed from consideration.
type VenueResult struct {
	VenueID string
	Quote   *model.Quote
	Err     error
}

// Aggregator fans a quote request out across its registered venues and picks
// the best output. Each request owns its own query set; the aggregator holds
// no request-scoped mutable state, so concurrent aggregations are independent.
type Aggregator struct {
	cfg      Config
	venues   []Venue
	provider Provider
	logger   *zap.Logger
}

func NewAggregator(cfg Config, provider Provider, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 200 * time.Millisecond
	}
	return &Aggregator{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
	}
}

// Register appends a venue. Earlier registrations win exact-output ties.
func (a *Aggregator) Register(v Venue) error {
	if err := v.validate(); err != nil {
		return err
	}
	for _, existing := range a.venues {
		if existing.ID == v.ID {
			return fmt.Errorf("venue %s already registered: %w", v.ID, model.ErrInvalidInput)
		}
	}
	a.venues = append(a.venues, v)
	return nil
}

// BestQuote resolves the request against all venues and returns the quote
// with the greatest output, along with every venue's individual result. A
// (nil, results, nil) return means no venue produced a usable quote, which is
// a normal outcome. Only a malformed request is an error.
func (a *Aggregator) BestQuote(ctx context.Context, req Request) (*model.Quote, []VenueResult, error) {
	if err := a.validateRequest(req); err != nil {
		return nil, nil, err
	}

	if wrap := model.WrapOperation(req.TokenIn, req.TokenOut, a.cfg.WrappedNative[req.TokenIn.ChainID]); wrap != model.WrapNone {
		gas := uint64(gasWrap)
		if wrap == model.UnwrapNative {
			gas = gasUnwrap
		}
		// 1:1 conversion, no AMM curve involved.
		shortcut := &model.Quote{
			AmountOut:    new(big.Int).Set(req.AmountIn),
			EstimatedGas: gas,
			VenueID:      "native",
			Wrap:         wrap,
		}
		return shortcut, nil, nil
	}

	if len(a.venues) == 0 {
		return nil, nil, nil
	}

	// All queries settle before selection: a slower venue may still return a
	// strictly better price, so there is no first-success short-circuit.
	results := make([]VenueResult, len(a.venues))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, venue := range a.venues {
		i, venue := i, venue
		group.Go(func() error {
			results[i] = a.queryVenue(groupCtx, venue, req)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, results, err
	}

	best := selectBest(results)
	if best == nil {
		a.logger.Debug("no quote available",
			zap.String("token_in", req.TokenIn.Address),
			zap.String("token_out", req.TokenOut.Address),
		)
	}
	return best, results, nil
}

func (a *Aggregator) validateRequest(req Request) error {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return fmt.Errorf("amount in must be positive: %w", model.ErrInvalidInput)
	}
	if model.SameToken(req.TokenIn, req.TokenOut) {
		return fmt.Errorf("token in equals token out: %w", model.ErrInvalidInput)
	}
	if req.TokenIn.ChainID != req.TokenOut.ChainID {
		return fmt.Errorf("cross-chain pair: %w", model.ErrInvalidInput)
	}
	return nil
}

// queryVenue resolves a single venue under its own timeout. Failures are
// recorded, never propagated to the aggregate.
func (a *Aggregator) queryVenue(ctx context.Context, venue Venue, req Request) VenueResult {
	queryCtx, cancel := context.WithTimeout(ctx, a.cfg.QueryTimeout)
	defer cancel()

	var (
		quote *model.Quote
		err   error
	)
	switch venue.Protocol {
	case ProtocolConstantProduct:
		quote, err = a.queryConstantProduct(queryCtx, venue, req)
	case ProtocolConcentrated:
		quote, err = a.queryConcentrated(queryCtx, venue, req)
	default:
		err = fmt.Errorf("unknown protocol %q: %w", venue.Protocol, model.ErrInvalidInput)
	}

	if err != nil {
		a.logger.Debug("venue removed from consideration",
			zap.String("venue", venue.ID),
			zap.Error(err),
		)
		return VenueResult{VenueID: venue.ID, Err: err}
	}
	return VenueResult{VenueID: venue.ID, Quote: quote}
}

func (a *Aggregator) queryConstantProduct(ctx context.Context, venue Venue, req Request) (*model.Quote, error) {
	amountOut, gas, err := a.exactQuoteWithRetry(ctx, venue.ID, req, 0)
	if err != nil {
		return nil, err
	}
	if gas == 0 {
		gas = gasConstantProduct
	}
	return &model.Quote{
		AmountOut:    amountOut,
		EstimatedGas: gas,
		VenueID:      venue.ID,
	}, nil
}

// queryConcentrated fans out over the venue's fee tiers, picks the tier with
// the most active liquidity as the routing candidate, and requests the exact
// quote from that tier only. Liquidity, not price, is the selection proxy:
// the true exact-input quote needs a trial execution against a single tier.
func (a *Aggregator) queryConcentrated(ctx context.Context, venue Venue, req Request) (*model.Quote, error) {
	pools := make([]*model.PoolState, len(venue.FeeTiers))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, tier := range venue.FeeTiers {
		i, tier := i, tier
		group.Go(func() error {
			state, err := a.poolStateWithRetry(groupCtx, venue.ID, req, tier)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					a.logger.Debug("fee tier query failed",
						zap.String("venue", venue.ID),
						zap.Uint32("fee_tier", tier),
						zap.Error(err),
					)
				}
				return nil
			}
			pools[i] = &state
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Greatest liquidity wins; earlier configured tier wins exact ties.
	bestIdx := -1
	for i, pool := range pools {
		if pool == nil || pool.Liquidity == nil || pool.Liquidity.Sign() == 0 {
			continue
		}
		if bestIdx < 0 || pool.Liquidity.Cmp(pools[bestIdx].Liquidity) > 0 {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("no pool with liquidity on %s: %w", venue.ID, model.ErrNotFound)
	}

	tier := venue.FeeTiers[bestIdx]
	amountOut, gas, err := a.exactQuoteWithRetry(ctx, venue.ID, req, tier)
	if err != nil {
		return nil, err
	}
	return &model.Quote{
		AmountOut:    amountOut,
		EstimatedGas: gas,
		VenueID:      venue.ID,
		FeeTier:      tier,
	}, nil
}

func (a *Aggregator) poolStateWithRetry(ctx context.Context, venueID string, req Request, tier uint32) (model.PoolState, error) {
	return retryTransient(ctx, a.cfg, func() (model.PoolState, error) {
		return a.provider.GetPoolState(ctx, venueID, req.TokenIn, req.TokenOut, tier)
	})
}

func (a *Aggregator) exactQuoteWithRetry(ctx context.Context, venueID string, req Request, tier uint32) (*big.Int, uint64, error) {
	type quoted struct {
		amountOut *big.Int
		gas       uint64
	}
	result, err := retryTransient(ctx, a.cfg, func() (quoted, error) {
		amountOut, gas, err := a.provider.GetExactQuote(ctx, venueID, req.TokenIn, req.TokenOut, tier, req.AmountIn)
		return quoted{amountOut: amountOut, gas: gas}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return result.amountOut, result.gas, nil
}

// retryTransient retries only model.ErrTransient failures; everything else
// fails immediately.
func retryTransient[T any](ctx context.Context, cfg Config, operation func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.RetryBackoff

	wrapped := func() (T, error) {
		value, err := operation()
		if err != nil && !errors.Is(err, model.ErrTransient) {
			return value, backoff.Permanent(err)
		}
		return value, err
	}

	maxTries := uint(cfg.MaxRetries) + 1
	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(maxTries),
	)
}

// selectBest scans results in registration order so the first-registered
// venue wins exact ties; map iteration order never decides.
func selectBest(results []VenueResult) *model.Quote {
	var best *model.Quote
	for _, result := range results {
		if result.Err != nil || result.Quote == nil || result.Quote.AmountOut == nil {
			continue
		}
		if best == nil || result.Quote.AmountOut.Cmp(best.AmountOut) > 0 {
			best = result.Quote
		}
	}
	return best
}
