package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityEngine/internal/chain"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/quote"
)

// VenueContracts holds one venue's on-chain entry points. Quoter is only set
// for concentrated venues, Router only for constant-product venues.
type VenueContracts struct {
	Protocol quote.Protocol
	Factory  common.Address
	Quoter   common.Address
	Router   common.Address
}

// LiveProvider answers pool-state, quote and incentive queries with eth_call
// against configured venue contracts. Native-asset legs are substituted with
// the chain's wrapped-native token before any pool lookup; the 1:1 wrap
// shortcut itself is handled upstream.
type LiveProvider struct {
	chainClient   *chain.Client
	venues        map[string]VenueContracts
	staker        common.Address
	wrappedNative map[uint64]string
	pools         *poolCache
	tokens        *TokenCache
	logger        *zap.Logger
}

func NewLiveProvider(chainClient *chain.Client, staker common.Address, wrappedNative map[uint64]string, logger *zap.Logger) *LiveProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveProvider{
		chainClient:   chainClient,
		venues:        make(map[string]VenueContracts),
		staker:        staker,
		wrappedNative: wrappedNative,
		pools:         newPoolCache(),
		tokens:        NewTokenCache(),
		logger:        logger,
	}
}

// ResolveToken fills in decimals and symbol from chain metadata. Native
// tokens resolve through their wrapped representation but keep the native
// address.
func (p *LiveProvider) ResolveToken(ctx context.Context, token model.Token) (model.Token, error) {
	address, err := p.effectiveAddress(token)
	if err != nil {
		return token, err
	}
	if cached, ok := p.tokens.Get(address); ok {
		token.Decimals = cached.Decimals
		token.Symbol = cached.Symbol
		return token, nil
	}
	meta, err := FetchToken(ctx, p.chainClient, token.ChainID, address, p.logger)
	if err != nil {
		return token, err
	}
	p.tokens.Set(address, meta)
	token.Decimals = meta.Decimals
	token.Symbol = meta.Symbol
	return token, nil
}

// RegisterVenue associates contract addresses with a venue ID.
func (p *LiveProvider) RegisterVenue(venueID string, contracts VenueContracts) {
	p.venues[venueID] = contracts
}

// GetPoolState returns a pricing snapshot for the pair on the venue. For
// constant-product venues only pair existence is checked; the state carries no
// curve data.
func (p *LiveProvider) GetPoolState(ctx context.Context, venueID string, tokenA, tokenB model.Token, feeTier uint32) (model.PoolState, error) {
	contracts, ok := p.venues[venueID]
	if !ok {
		return model.PoolState{}, fmt.Errorf("venue %s not configured: %w", venueID, model.ErrInvalidInput)
	}

	addrA, err := p.effectiveAddress(tokenA)
	if err != nil {
		return model.PoolState{}, err
	}
	addrB, err := p.effectiveAddress(tokenB)
	if err != nil {
		return model.PoolState{}, err
	}

	if contracts.Protocol == quote.ProtocolConstantProduct {
		if _, err := p.resolvePair(ctx, contracts.Factory, addrA, addrB); err != nil {
			return model.PoolState{}, err
		}
		return model.PoolState{}, nil
	}

	pool, err := p.resolvePool(ctx, contracts.Factory, addrA, addrB, feeTier)
	if err != nil {
		return model.PoolState{}, err
	}
	return p.fetchPoolState(ctx, pool, feeTier)
}

// GetExactQuote simulates an exact-input swap and returns the output amount
// and the venue's gas estimate. Constant-product venues report no gas figure.
func (p *LiveProvider) GetExactQuote(ctx context.Context, venueID string, tokenIn, tokenOut model.Token, feeTier uint32, amountIn *big.Int) (*big.Int, uint64, error) {
	contracts, ok := p.venues[venueID]
	if !ok {
		return nil, 0, fmt.Errorf("venue %s not configured: %w", venueID, model.ErrInvalidInput)
	}

	addrIn, err := p.effectiveAddress(tokenIn)
	if err != nil {
		return nil, 0, err
	}
	addrOut, err := p.effectiveAddress(tokenOut)
	if err != nil {
		return nil, 0, err
	}

	if contracts.Protocol == quote.ProtocolConstantProduct {
		return p.routerQuote(ctx, contracts, addrIn, addrOut, amountIn)
	}
	return p.quoterQuote(ctx, contracts.Quoter, addrIn, addrOut, feeTier, amountIn)
}

func (p *LiveProvider) resolvePool(ctx context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error) {
	cacheKey := fmt.Sprintf("%s/%s/%s/%d", factory.Hex(), tokenA.Hex(), tokenB.Hex(), feeTier)
	if pool, ok := p.pools.get(cacheKey); ok {
		return pool, nil
	}

	factoryABI, err := V3FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := p.call(ctx, factory, factoryABI, "getPool", tokenA, tokenB, big.NewInt(int64(feeTier)))
	if err != nil {
		return common.Address{}, err
	}
	pool, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	if pool == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no pool for fee tier %d: %w", feeTier, model.ErrNotFound)
	}

	p.pools.set(cacheKey, pool)
	return pool, nil
}

func (p *LiveProvider) resolvePair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	cacheKey := fmt.Sprintf("%s/%s/%s", factory.Hex(), tokenA.Hex(), tokenB.Hex())
	if pair, ok := p.pools.get(cacheKey); ok {
		return pair, nil
	}

	factoryABI, err := V2FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := p.call(ctx, factory, factoryABI, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	pair, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("getPair: %w", err)
	}
	if pair == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no pair: %w", model.ErrNotFound)
	}

	p.pools.set(cacheKey, pair)
	return pair, nil
}

func (p *LiveProvider) fetchPoolState(ctx context.Context, pool common.Address, feeTier uint32) (model.PoolState, error) {
	poolABI, err := V3PoolABI()
	if err != nil {
		return model.PoolState{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := p.call(ctx, pool, poolABI, "slot0")
	if err != nil {
		return model.PoolState{}, err
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 tick: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "liquidity")
	if err != nil {
		return model.PoolState{}, err
	}
	liquidity, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("liquidity: %w", err)
	}

	values, err = p.call(ctx, pool, poolABI, "tickSpacing")
	if err != nil {
		return model.PoolState{}, err
	}
	spacingInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick spacing: %w", err)
	}
	spacing, err := int24FromBig(spacingInt)
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick spacing: %w", err)
	}

	return model.PoolState{
		SqrtPriceX96: sqrtPrice,
		Tick:         tick,
		Liquidity:    liquidity,
		FeeTier:      feeTier,
		TickSpacing:  spacing,
	}, nil
}

func (p *LiveProvider) routerQuote(ctx context.Context, contracts VenueContracts, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, uint64, error) {
	// The router reverts on a missing pair, so existence is checked first to
	// keep the not-found case distinguishable from RPC trouble.
	if _, err := p.resolvePair(ctx, contracts.Factory, tokenIn, tokenOut); err != nil {
		return nil, 0, err
	}

	routerABI, err := V2RouterABI()
	if err != nil {
		return nil, 0, fmt.Errorf("parse router abi: %w", err)
	}
	values, err := p.call(ctx, contracts.Router, routerABI, "getAmountsOut", amountIn, []common.Address{tokenIn, tokenOut})
	if err != nil {
		return nil, 0, err
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, 0, fmt.Errorf("getAmountsOut: unexpected result %T", values[0])
	}
	return new(big.Int).Set(amounts[len(amounts)-1]), 0, nil
}

func (p *LiveProvider) quoterQuote(ctx context.Context, quoter, tokenIn, tokenOut common.Address, feeTier uint32, amountIn *big.Int) (*big.Int, uint64, error) {
	quoterABI, err := QuoterV2ABI()
	if err != nil {
		return nil, 0, fmt.Errorf("parse quoter abi: %w", err)
	}

	params := struct {
		TokenIn           common.Address
		TokenOut          common.Address
		AmountIn          *big.Int
		Fee               *big.Int
		SqrtPriceLimitX96 *big.Int
	}{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0),
	}
	values, err := p.call(ctx, quoter, quoterABI, "quoteExactInputSingle", params)
	if err != nil {
		return nil, 0, err
	}
	amountOut, err := asBigInt(values[0])
	if err != nil {
		return nil, 0, fmt.Errorf("quote amount out: %w", err)
	}
	gasEstimate, err := asBigInt(values[3])
	if err != nil {
		return nil, 0, fmt.Errorf("quote gas estimate: %w", err)
	}
	return amountOut, gasEstimate.Uint64(), nil
}

// GetPoolLiquidity returns the in-range liquidity of a pool by address.
func (p *LiveProvider) GetPoolLiquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := p.call(ctx, pool, poolABI, "liquidity")
	if err != nil {
		return nil, err
	}
	liquidity, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	return liquidity, nil
}

// GetIncentive returns the incentive's reward accounting by ID. An all-zero
// record means the staker contract has never seen this incentive.
func (p *LiveProvider) GetIncentive(ctx context.Context, id common.Hash) (model.Incentive, error) {
	stakerABI, err := StakerABI()
	if err != nil {
		return model.Incentive{}, fmt.Errorf("parse staker abi: %w", err)
	}
	values, err := p.call(ctx, p.staker, stakerABI, "incentives", id)
	if err != nil {
		return model.Incentive{}, err
	}
	unclaimed, err := asBigInt(values[0])
	if err != nil {
		return model.Incentive{}, fmt.Errorf("incentives unclaimed: %w", err)
	}
	secondsClaimed, err := asBigInt(values[1])
	if err != nil {
		return model.Incentive{}, fmt.Errorf("incentives seconds claimed: %w", err)
	}
	stakes, err := asBigInt(values[2])
	if err != nil {
		return model.Incentive{}, fmt.Errorf("incentives stakes: %w", err)
	}
	if unclaimed.Sign() == 0 && secondsClaimed.Sign() == 0 && stakes.Sign() == 0 {
		return model.Incentive{}, fmt.Errorf("incentive %s: %w", id.Hex(), model.ErrNotFound)
	}

	return model.Incentive{
		ID:                      id.Hex(),
		TotalRewardUnclaimed:    unclaimed,
		TotalSecondsClaimedX128: secondsClaimed,
		NumberOfStakes:          uint32(stakes.Uint64()),
	}, nil
}

// GetStake returns the stake snapshot for a position in an incentive. Zero
// liquidity means the position is not staked there.
func (p *LiveProvider) GetStake(ctx context.Context, tokenID *big.Int, id common.Hash) (model.StakeRecord, error) {
	stakerABI, err := StakerABI()
	if err != nil {
		return model.StakeRecord{}, fmt.Errorf("parse staker abi: %w", err)
	}
	values, err := p.call(ctx, p.staker, stakerABI, "stakes", tokenID, id)
	if err != nil {
		return model.StakeRecord{}, err
	}
	secondsPerLiquidity, err := asBigInt(values[0])
	if err != nil {
		return model.StakeRecord{}, fmt.Errorf("stake seconds per liquidity: %w", err)
	}
	liquidity, err := asBigInt(values[1])
	if err != nil {
		return model.StakeRecord{}, fmt.Errorf("stake liquidity: %w", err)
	}
	if liquidity.Sign() == 0 {
		return model.StakeRecord{}, fmt.Errorf("token %s not staked in %s: %w", tokenID, id.Hex(), model.ErrNotFound)
	}

	return model.StakeRecord{
		TokenID:                              new(big.Int).Set(tokenID),
		IncentiveID:                          id.Hex(),
		Liquidity:                            liquidity,
		SecondsPerLiquidityInsideInitialX128: secondsPerLiquidity,
	}, nil
}

// GetRewardInfo returns the staker contract's exact accrued reward and
// seconds-inside accumulator for a staked position.
func (p *LiveProvider) GetRewardInfo(ctx context.Context, key model.IncentiveKey, tokenID *big.Int) (*big.Int, *big.Int, error) {
	stakerABI, err := StakerABI()
	if err != nil {
		return nil, nil, fmt.Errorf("parse staker abi: %w", err)
	}
	if !common.IsHexAddress(key.RewardToken) || !common.IsHexAddress(key.Pool) || !common.IsHexAddress(key.Refundee) {
		return nil, nil, fmt.Errorf("incentive key has invalid address: %w", model.ErrInvalidInput)
	}

	packedKey := struct {
		RewardToken common.Address
		Pool        common.Address
		StartTime   *big.Int
		EndTime     *big.Int
		Refundee    common.Address
	}{
		RewardToken: common.HexToAddress(key.RewardToken),
		Pool:        common.HexToAddress(key.Pool),
		StartTime:   new(big.Int).SetUint64(key.StartTime),
		EndTime:     new(big.Int).SetUint64(key.EndTime),
		Refundee:    common.HexToAddress(key.Refundee),
	}
	values, err := p.call(ctx, p.staker, stakerABI, "getRewardInfo", packedKey, tokenID)
	if err != nil {
		return nil, nil, err
	}
	reward, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reward info reward: %w", err)
	}
	secondsInside, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("reward info seconds inside: %w", err)
	}
	return reward, secondsInside, nil
}

// call packs, executes and unpacks one eth_call. Only the RPC leg is
// retryable; pack and unpack failures are permanent.
func (p *LiveProvider) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := p.chainClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w: %w", method, model.ErrTransient, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func (p *LiveProvider) effectiveAddress(token model.Token) (common.Address, error) {
	address := token.Address
	if token.IsNative() {
		wrapped, ok := p.wrappedNative[token.ChainID]
		if !ok {
			return common.Address{}, fmt.Errorf("no wrapped-native token for chain %d: %w", token.ChainID, model.ErrInvalidInput)
		}
		address = wrapped
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid token address %q: %w", address, model.ErrInvalidInput)
	}
	return common.HexToAddress(address), nil
}
