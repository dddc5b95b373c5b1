package model

import "strings"

// NativeAddress is the placeholder identifier for a chain's native asset.
const NativeAddress = "0x0000000000000000000000000000000000000000"

// Token identifies an asset within a chain scope. The native asset and its
// wrapped representation are distinct tokens; the wrap relation between them
// is recognized explicitly via WrapOperation.
type Token struct {
	ChainID  uint64 `json:"chain_id"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
}

// IsNative reports whether the token is the chain's native asset.
func (t Token) IsNative() bool {
	return strings.EqualFold(t.Address, NativeAddress)
}

// SameToken reports whether two tokens refer to the same asset identifier.
func SameToken(a, b Token) bool {
	return a.ChainID == b.ChainID && strings.EqualFold(a.Address, b.Address)
}

// WrapKind identifies a native wrap/unwrap conversion.
type WrapKind string

const (
	WrapNone     WrapKind = ""
	WrapNative   WrapKind = "wrap"
	UnwrapNative WrapKind = "unwrap"
)

// WrapOperation reports whether a swap between tokenIn and tokenOut is a pure
// native wrap or unwrap given the chain's wrapped-native address. Such swaps
// involve no AMM curve and convert 1:1.
func WrapOperation(tokenIn, tokenOut Token, wrappedNative string) WrapKind {
	if wrappedNative == "" || tokenIn.ChainID != tokenOut.ChainID {
		return WrapNone
	}
	if tokenIn.IsNative() && strings.EqualFold(tokenOut.Address, wrappedNative) {
		return WrapNative
	}
	if tokenOut.IsNative() && strings.EqualFold(tokenIn.Address, wrappedNative) {
		return UnwrapNative
	}
	return WrapNone
}
