package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"liquidityEngine/internal/model"
)

const (
	wbnbAddress = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"
	busdAddress = "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"
	cakeAddress = "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"
)

type fakeProvider struct {
	poolState func(venueID string, tier uint32) (model.PoolState, error)
	exact     func(venueID string, tier uint32, amountIn *big.Int) (*big.Int, uint64, error)
}

func (f *fakeProvider) GetPoolState(_ context.Context, venueID string, _, _ model.Token, tier uint32) (model.PoolState, error) {
	return f.poolState(venueID, tier)
}

func (f *fakeProvider) GetExactQuote(_ context.Context, venueID string, _, _ model.Token, tier uint32, amountIn *big.Int) (*big.Int, uint64, error) {
	return f.exact(venueID, tier, amountIn)
}

func testToken(address string) model.Token {
	return model.Token{ChainID: 56, Address: address, Decimals: 18}
}

func testConfig() Config {
	return Config{
		QueryTimeout: time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		WrappedNative: map[uint64]string{
			56: wbnbAddress,
		},
	}
}

func newTestAggregator(t *testing.T, provider Provider, venues ...Venue) *Aggregator {
	t.Helper()
	aggregator := NewAggregator(testConfig(), provider, nil)
	for _, venue := range venues {
		if err := aggregator.Register(venue); err != nil {
			t.Fatalf("register %s: %v", venue.ID, err)
		}
	}
	return aggregator
}

func TestBestQuotePicksDeepestTier(t *testing.T) {
	liquidityByTier := map[uint32]int64{500: 100, 3000: 1_000_000, 10000: 900}
	provider := &fakeProvider{
		poolState: func(_ string, tier uint32) (model.PoolState, error) {
			return model.PoolState{
				Liquidity: big.NewInt(liquidityByTier[tier]),
				FeeTier:   tier,
			}, nil
		},
		exact: func(_ string, tier uint32, amountIn *big.Int) (*big.Int, uint64, error) {
			if tier != 3000 {
				return nil, 0, fmt.Errorf("unexpected tier %d queried", tier)
			}
			return big.NewInt(998_500), 120_000, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "beta", Protocol: ProtocolConcentrated, FeeTiers: []uint32{500, 3000, 10000}},
	)

	best, results, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(1_000_000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil {
		t.Fatalf("expected a quote")
	}
	if best.FeeTier != 3000 {
		t.Fatalf("expected fee tier 3000, got %d", best.FeeTier)
	}
	if best.AmountOut.Cmp(big.NewInt(998_500)) != 0 {
		t.Fatalf("expected 998500, got %s", best.AmountOut)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestBestQuoteSurvivesVenueFailure(t *testing.T) {
	provider := &fakeProvider{
		poolState: func(venueID string, tier uint32) (model.PoolState, error) {
			if venueID == "alpha" {
				return model.PoolState{}, fmt.Errorf("no pair: %w", model.ErrNotFound)
			}
			return model.PoolState{Liquidity: new(big.Int).Exp(big.NewInt(10), big.NewInt(21), nil), FeeTier: tier}, nil
		},
		exact: func(venueID string, _ uint32, _ *big.Int) (*big.Int, uint64, error) {
			if venueID == "alpha" {
				return nil, 0, fmt.Errorf("no pair: %w", model.ErrNotFound)
			}
			return big.NewInt(998_500), 110_000, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
		Venue{ID: "beta", Protocol: ProtocolConcentrated, FeeTiers: []uint32{3000}},
	)

	best, results, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(1_000_000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.VenueID != "beta" {
		t.Fatalf("expected beta to win, got %+v", best)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].VenueID != "alpha" || !errors.Is(results[0].Err, model.ErrNotFound) {
		t.Fatalf("alpha should report not-found, got %+v", results[0])
	}
}

func TestBestQuoteAllVenuesFail(t *testing.T) {
	provider := &fakeProvider{
		poolState: func(string, uint32) (model.PoolState, error) {
			return model.PoolState{}, fmt.Errorf("down: %w", model.ErrNotFound)
		},
		exact: func(string, uint32, *big.Int) (*big.Int, uint64, error) {
			return nil, 0, fmt.Errorf("down: %w", model.ErrNotFound)
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
		Venue{ID: "beta", Protocol: ProtocolConcentrated, FeeTiers: []uint32{3000}},
	)

	best, results, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(1),
	})
	if err != nil {
		t.Fatalf("no-quote outcome must not be an error, got %v", err)
	}
	if best != nil {
		t.Fatalf("expected no quote, got %+v", best)
	}
	if len(results) != 2 {
		t.Fatalf("expected per-venue results, got %d", len(results))
	}
}

func TestBestQuoteTieGoesToFirstRegistered(t *testing.T) {
	provider := &fakeProvider{
		poolState: func(string, uint32) (model.PoolState, error) {
			return model.PoolState{Liquidity: big.NewInt(1)}, nil
		},
		exact: func(string, uint32, *big.Int) (*big.Int, uint64, error) {
			return big.NewInt(500), 0, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
		Venue{ID: "beta", Protocol: ProtocolConstantProduct},
	)

	best, _, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(1000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.VenueID != "alpha" {
		t.Fatalf("expected first-registered alpha to win the tie, got %+v", best)
	}
}

func TestBestQuoteFeeTierLiquidityTie(t *testing.T) {
	var queriedTier atomic.Uint32
	provider := &fakeProvider{
		poolState: func(_ string, tier uint32) (model.PoolState, error) {
			return model.PoolState{Liquidity: big.NewInt(777), FeeTier: tier}, nil
		},
		exact: func(_ string, tier uint32, _ *big.Int) (*big.Int, uint64, error) {
			queriedTier.Store(tier)
			return big.NewInt(1), 1, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "beta", Protocol: ProtocolConcentrated, FeeTiers: []uint32{500, 3000}},
	)

	if _, _, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(1),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := queriedTier.Load(); got != 500 {
		t.Fatalf("expected earlier configured tier 500 to win the tie, got %d", got)
	}
}

func TestBestQuoteWrapShortcut(t *testing.T) {
	aggregator := newTestAggregator(t, &fakeProvider{})

	best, results, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(model.NativeAddress),
		TokenOut: testToken(wbnbAddress),
		AmountIn: big.NewInt(123_456),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.VenueID != "native" {
		t.Fatalf("expected native shortcut, got %+v", best)
	}
	if best.AmountOut.Cmp(big.NewInt(123_456)) != 0 {
		t.Fatalf("wrap must convert 1:1, got %s", best.AmountOut)
	}
	if best.EstimatedGas != gasWrap || best.Wrap != model.WrapNative {
		t.Fatalf("unexpected wrap quote: %+v", best)
	}
	if results != nil {
		t.Fatalf("shortcut must skip venue queries, got %+v", results)
	}

	best, _, err = aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(wbnbAddress),
		TokenOut: testToken(model.NativeAddress),
		AmountIn: big.NewInt(42),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.EstimatedGas != gasUnwrap || best.Wrap != model.UnwrapNative {
		t.Fatalf("unexpected unwrap quote: %+v", best)
	}
}

func TestBestQuoteConstantProductGasFallback(t *testing.T) {
	provider := &fakeProvider{
		exact: func(string, uint32, *big.Int) (*big.Int, uint64, error) {
			return big.NewInt(10), 0, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
	)

	best, _, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.EstimatedGas != gasConstantProduct {
		t.Fatalf("expected fallback gas %d, got %+v", gasConstantProduct, best)
	}
}

func TestBestQuoteRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	provider := &fakeProvider{
		exact: func(string, uint32, *big.Int) (*big.Int, uint64, error) {
			if calls.Add(1) == 1 {
				return nil, 0, fmt.Errorf("rpc hiccup: %w", model.ErrTransient)
			}
			return big.NewInt(77), 90_000, nil
		},
	}
	aggregator := newTestAggregator(t, provider,
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
	)

	best, _, err := aggregator.BestQuote(context.Background(), Request{
		TokenIn:  testToken(busdAddress),
		TokenOut: testToken(cakeAddress),
		AmountIn: big.NewInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.AmountOut.Cmp(big.NewInt(77)) != 0 {
		t.Fatalf("expected retried quote, got %+v", best)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestBestQuoteRejectsMalformedRequest(t *testing.T) {
	aggregator := newTestAggregator(t, &fakeProvider{},
		Venue{ID: "alpha", Protocol: ProtocolConstantProduct},
	)

	cases := []Request{
		{TokenIn: testToken(busdAddress), TokenOut: testToken(cakeAddress), AmountIn: big.NewInt(0)},
		{TokenIn: testToken(busdAddress), TokenOut: testToken(cakeAddress), AmountIn: nil},
		{TokenIn: testToken(busdAddress), TokenOut: testToken(busdAddress), AmountIn: big.NewInt(1)},
		{TokenIn: testToken(busdAddress), TokenOut: model.Token{ChainID: 1, Address: cakeAddress}, AmountIn: big.NewInt(1)},
	}
	for i, request := range cases {
		if _, _, err := aggregator.BestQuote(context.Background(), request); !errors.Is(err, model.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid-input error, got %v", i, err)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	aggregator := NewAggregator(testConfig(), &fakeProvider{}, nil)
	if err := aggregator.Register(Venue{ID: "alpha", Protocol: ProtocolConstantProduct}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := aggregator.Register(Venue{ID: "alpha", Protocol: ProtocolConstantProduct}); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
	if err := aggregator.Register(Venue{ID: "gamma", Protocol: ProtocolConcentrated}); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("concentrated venue without tiers must be rejected, got %v", err)
	}
}
