package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TokenSymbol names a token recognized by the registry.
type TokenSymbol string

const (
	TokenUSDC  TokenSymbol = "USDC" // native gas token of the Arc testnet
	TokenUSDCe TokenSymbol = "USDC.e"
	TokenEURC  TokenSymbol = "EURC"
	TokenWETH  TokenSymbol = "WETH"
)

// Token is fixed per-token configuration. Decimal precision is pinned here
// once and validated at startup; it is never re-derived per call site.
//
// The native USDC carries 18 decimals (the chain's native-currency
// definition), while the ERC-20 stable tokens carry 6. Conflating the two is
// the classic display bug this registry exists to prevent.
type Token struct {
	Symbol   TokenSymbol
	Address  common.Address // zero address for the native token
	Decimals int32
}

// IsNative reports whether the token is the chain's native currency.
// Native transfers attach value directly and never need an ERC-20 approval.
func (t Token) IsNative() bool {
	return t.Address == (common.Address{})
}

// Registry resolves tokens by symbol or address. Unrecognized addresses are
// labeled rather than treated as fatal.
type Registry struct {
	tokens []Token
}

// ArcTokens returns the registry for the Arc testnet deployment.
func ArcTokens() *Registry {
	return &Registry{tokens: []Token{
		{Symbol: TokenUSDC, Address: common.Address{}, Decimals: 18},
		{Symbol: TokenUSDCe, Address: common.HexToAddress("0x481490152281347052521953123120F527845366"), Decimals: 6},
		{Symbol: TokenEURC, Address: common.HexToAddress("0x89B50855Aa3bE2F677cD6303Cec089B5F319D72a"), Decimals: 6},
		{Symbol: TokenWETH, Address: common.HexToAddress("0x6FE689cA658F9430cd5F0E31a48AFCE591907298"), Decimals: 18},
	}}
}

// NewRegistry builds a registry from explicit token config, validating each
// entry once.
func NewRegistry(tokens []Token) (*Registry, error) {
	seen := make(map[TokenSymbol]bool, len(tokens))
	for _, t := range tokens {
		if t.Symbol == "" {
			return nil, &Error{Code: ErrCodeValidation, Message: "token symbol is required"}
		}
		if t.Decimals < 0 || t.Decimals > 36 {
			return nil, &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("token %s: decimals %d out of range", t.Symbol, t.Decimals)}
		}
		if seen[t.Symbol] {
			return nil, &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("duplicate token symbol %s", t.Symbol)}
		}
		seen[t.Symbol] = true
	}
	return &Registry{tokens: tokens}, nil
}

// BySymbol looks a token up by symbol.
func (r *Registry) BySymbol(sym TokenSymbol) (Token, bool) {
	for _, t := range r.tokens {
		if t.Symbol == sym {
			return t, true
		}
	}
	return Token{}, false
}

// ByAddress looks a token up by contract address. An address not matching any
// recognized token yields a placeholder entry with 18 decimals so callers can
// still render something instead of crashing.
func (r *Registry) ByAddress(addr common.Address) Token {
	for _, t := range r.tokens {
		if t.Address == addr {
			return t
		}
	}
	return Token{Symbol: "UNKNOWN", Address: addr, Decimals: 18}
}

// Tokens returns the registered token list.
func (r *Registry) Tokens() []Token {
	out := make([]Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}
