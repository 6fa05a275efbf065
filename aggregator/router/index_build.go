package router

import (
	"fmt"
	"strings"
)

// NewPoolIndex creates a new PoolIndex with initialized maps
func NewPoolIndex() *PoolIndex {
	return &PoolIndex{
		tokens:     make(map[string]*Token),
		symbols:    make(map[string]string),
		tokenPools: make(map[string][]int),
	}
}

// BuildIndex builds the pool index from the given registry.
// It must be called once, before the index is shared with a RouteFinder.
func (pi *PoolIndex) BuildIndex(tokens []Token, pools []LiquidityPool) error {
	if len(tokens) == 0 {
		return fmt.Errorf("no tokens to build index for")
	}
	if len(pi.tokenOrder) > 0 {
		return fmt.Errorf("pool index is already built")
	}

	// First pass: register all tokens
	for _, token := range tokens {
		if token.Address == "" {
			return fmt.Errorf("token %q has an empty address", token.Symbol)
		}
		if _, exists := pi.tokens[token.Address]; exists {
			return fmt.Errorf("duplicate token address %s", token.Address)
		}
		tokenCopy := token
		pi.tokens[token.Address] = &tokenCopy
		pi.tokenOrder = append(pi.tokenOrder, token.Address)

		// first symbol wins, the address is always the unambiguous key
		symbol := strings.ToUpper(token.Symbol)
		if _, exists := pi.symbols[symbol]; !exists && symbol != "" {
			pi.symbols[symbol] = token.Address
		}
	}

	// Second pass: index pools by the tokens they touch
	pi.pools = make([]LiquidityPool, 0, len(pools))
	for i, pool := range pools {
		if pool.TokenA == pool.TokenB {
			return fmt.Errorf("pool %d (%s) trades %s against itself", i, pool.Source, pool.TokenA)
		}
		for _, address := range []string{pool.TokenA, pool.TokenB} {
			if _, known := pi.tokens[address]; !known {
				return fmt.Errorf("pool %d (%s) references %w %s", i, pool.Source, ErrUnknownToken, address)
			}
		}

		pi.pools = append(pi.pools, pool)
		pi.tokenPools[pool.TokenA] = append(pi.tokenPools[pool.TokenA], i)
		pi.tokenPools[pool.TokenB] = append(pi.tokenPools[pool.TokenB], i)
	}

	return nil
}
