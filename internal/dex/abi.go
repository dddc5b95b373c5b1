package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const v3FactoryABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "tokenA", "type": "address"},
      {"internalType": "address", "name": "tokenB", "type": "address"},
      {"internalType": "uint24", "name": "fee", "type": "uint24"}
    ],
    "name": "getPool",
    "outputs": [{"internalType": "address", "name": "", "type": "address"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const v3PoolABIJSON = `[
  {
    "inputs": [],
    "name": "liquidity",
    "outputs": [{"internalType": "uint128", "name": "", "type": "uint128"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "tickSpacing",
    "outputs": [{"internalType": "int24", "name": "", "type": "int24"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "slot0",
    "outputs": [
      {"internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
      {"internalType": "int24", "name": "tick", "type": "int24"},
      {"internalType": "uint16", "name": "observationIndex", "type": "uint16"},
      {"internalType": "uint16", "name": "observationCardinality", "type": "uint16"},
      {"internalType": "uint16", "name": "observationCardinalityNext", "type": "uint16"},
      {"internalType": "uint8", "name": "feeProtocol", "type": "uint8"},
      {"internalType": "bool", "name": "unlocked", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const quoterV2ABIJSON = `[
  {
    "inputs": [
      {
        "components": [
          {"internalType": "address", "name": "tokenIn", "type": "address"},
          {"internalType": "address", "name": "tokenOut", "type": "address"},
          {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
          {"internalType": "uint24", "name": "fee", "type": "uint24"},
          {"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
        ],
        "internalType": "struct IQuoterV2.QuoteExactInputSingleParams",
        "name": "params",
        "type": "tuple"
      }
    ],
    "name": "quoteExactInputSingle",
    "outputs": [
      {"internalType": "uint256", "name": "amountOut", "type": "uint256"},
      {"internalType": "uint160", "name": "sqrtPriceX96After", "type": "uint160"},
      {"internalType": "uint32", "name": "initializedTicksCrossed", "type": "uint32"},
      {"internalType": "uint256", "name": "gasEstimate", "type": "uint256"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const v2FactoryABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "tokenA", "type": "address"},
      {"internalType": "address", "name": "tokenB", "type": "address"}
    ],
    "name": "getPair",
    "outputs": [{"internalType": "address", "name": "", "type": "address"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const v2RouterABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"}
    ],
    "name": "getAmountsOut",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const stakerABIJSON = `[
  {
    "inputs": [{"internalType": "bytes32", "name": "incentiveId", "type": "bytes32"}],
    "name": "incentives",
    "outputs": [
      {"internalType": "uint256", "name": "totalRewardUnclaimed", "type": "uint256"},
      {"internalType": "uint160", "name": "totalSecondsClaimedX128", "type": "uint160"},
      {"internalType": "uint96", "name": "numberOfStakes", "type": "uint96"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "tokenId", "type": "uint256"},
      {"internalType": "bytes32", "name": "incentiveId", "type": "bytes32"}
    ],
    "name": "stakes",
    "outputs": [
      {"internalType": "uint160", "name": "secondsPerLiquidityInsideInitialX128", "type": "uint160"},
      {"internalType": "uint128", "name": "liquidity", "type": "uint128"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "components": [
          {"internalType": "address", "name": "rewardToken", "type": "address"},
          {"internalType": "address", "name": "pool", "type": "address"},
          {"internalType": "uint256", "name": "startTime", "type": "uint256"},
          {"internalType": "uint256", "name": "endTime", "type": "uint256"},
          {"internalType": "address", "name": "refundee", "type": "address"}
        ],
        "internalType": "struct IUniswapV3Staker.IncentiveKey",
        "name": "key",
        "type": "tuple"
      },
      {"internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "getRewardInfo",
    "outputs": [
      {"internalType": "uint256", "name": "reward", "type": "uint256"},
      {"internalType": "uint160", "name": "secondsInsideX128", "type": "uint160"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var abiRegistry = map[string]*struct {
	json   string
	once   sync.Once
	parsed abi.ABI
	err    error
}{
	"v3factory": {json: v3FactoryABIJSON},
	"v3pool":    {json: v3PoolABIJSON},
	"quoterv2":  {json: quoterV2ABIJSON},
	"v2factory": {json: v2FactoryABIJSON},
	"v2router":  {json: v2RouterABIJSON},
	"staker":    {json: stakerABIJSON},
	"erc20":     {json: erc20ABIJSON},
	"erc20b32":  {json: erc20ABIBytes32JSON},
}

func loadABI(name string) (abi.ABI, error) {
	entry := abiRegistry[name]
	entry.once.Do(func() {
		entry.parsed, entry.err = abi.JSON(strings.NewReader(entry.json))
	})
	return entry.parsed, entry.err
}

// V3FactoryABI returns the parsed concentrated-liquidity factory ABI.
func V3FactoryABI() (abi.ABI, error) { return loadABI("v3factory") }

// V3PoolABI returns the parsed concentrated-liquidity pool ABI.
func V3PoolABI() (abi.ABI, error) { return loadABI("v3pool") }

// QuoterV2ABI returns the parsed quoter ABI.
func QuoterV2ABI() (abi.ABI, error) { return loadABI("quoterv2") }

// V2FactoryABI returns the parsed constant-product factory ABI.
func V2FactoryABI() (abi.ABI, error) { return loadABI("v2factory") }

// V2RouterABI returns the parsed constant-product router ABI.
func V2RouterABI() (abi.ABI, error) { return loadABI("v2router") }

// StakerABI returns the parsed staker ABI.
func StakerABI() (abi.ABI, error) { return loadABI("staker") }

// ERC20ABI returns the parsed token ABI with string symbol.
func ERC20ABI() (abi.ABI, error) { return loadABI("erc20") }

// ERC20Bytes32ABI returns the parsed token ABI with bytes32 symbol.
func ERC20Bytes32ABI() (abi.ABI, error) { return loadABI("erc20b32") }

