package router

import (
	"fmt"
	"strings"
)

// Token returns the token registered under the address.
func (pi *PoolIndex) Token(address string) (Token, bool) {
	token, exists := pi.tokens[address]
	if !exists {
		return Token{}, false
	}
	return *token, true
}

// ResolveToken finds a token by address, or by symbol (case-insensitive)
// when no token has that address.
func (pi *PoolIndex) ResolveToken(addressOrSymbol string) (Token, error) {
	if token, ok := pi.Token(addressOrSymbol); ok {
		return token, nil
	}
	if address, ok := pi.symbols[strings.ToUpper(strings.TrimSpace(addressOrSymbol))]; ok {
		return *pi.tokens[address], nil
	}
	return Token{}, fmt.Errorf("%w: %s", ErrUnknownToken, addressOrSymbol)
}

// Tokens returns a copy of all tokens in registry order.
func (pi *PoolIndex) Tokens() []Token {
	tokens := make([]Token, 0, len(pi.tokenOrder))
	for _, address := range pi.tokenOrder {
		tokens = append(tokens, *pi.tokens[address])
	}
	return tokens
}

// Pools returns a copy of all pools in registry order.
func (pi *PoolIndex) Pools() []LiquidityPool {
	pools := make([]LiquidityPool, len(pi.pools))
	copy(pools, pi.pools)
	return pools
}

// poolsTouching returns the registry positions of every pool trading the token.
func (pi *PoolIndex) poolsTouching(address string) []int {
	return pi.tokenPools[address]
}
