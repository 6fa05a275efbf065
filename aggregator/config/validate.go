package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/mr-tron/base58"
)

// addressLength is the decoded size of a mint address.
const addressLength = 32

// ValidateRegistry checks the registry before it is indexed.
// All problems are reported together.
func ValidateRegistry(registry *Registry) error {
	if registry == nil || len(registry.Tokens) == 0 {
		return fmt.Errorf("registry has no tokens")
	}

	var errs []error
	known := make(map[string]struct{}, len(registry.Tokens))

	for i, token := range registry.Tokens {
		if token.Symbol == "" {
			errs = append(errs, fmt.Errorf("token %d: symbol is required", i))
		}
		if err := validateAddress(token.Address); err != nil {
			errs = append(errs, fmt.Errorf("token %d (%s): %w", i, token.Symbol, err))
			continue
		}
		if _, exists := known[token.Address]; exists {
			errs = append(errs, fmt.Errorf("token %d (%s): duplicate address %s", i, token.Symbol, token.Address))
			continue
		}
		if token.USDPrice < 0 || !isFinite(token.USDPrice) {
			errs = append(errs, fmt.Errorf("token %d (%s): usd price must be a non-negative number", i, token.Symbol))
		}
		known[token.Address] = struct{}{}
	}

	for i, pool := range registry.Pools {
		if pool.Source == "" {
			errs = append(errs, fmt.Errorf("pool %d: source is required", i))
		}
		if pool.TokenA == pool.TokenB {
			errs = append(errs, fmt.Errorf("pool %d (%s): token_a and token_b must differ", i, pool.Source))
		}
		for _, address := range []string{pool.TokenA, pool.TokenB} {
			if _, ok := known[address]; !ok {
				errs = append(errs, fmt.Errorf("pool %d (%s): unknown token %q", i, pool.Source, address))
			}
		}
		if pool.LiquidityA <= 0 || !isFinite(pool.LiquidityA) ||
			pool.LiquidityB <= 0 || !isFinite(pool.LiquidityB) {
			errs = append(errs, fmt.Errorf("pool %d (%s): reserves must be positive", i, pool.Source))
		}
		if pool.Fee < 0 || pool.Fee >= 100 || !isFinite(pool.Fee) {
			errs = append(errs, fmt.Errorf("pool %d (%s): fee must be within [0, 100)", i, pool.Source))
		}
	}

	return errors.Join(errs...)
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address is required")
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("address %q is not base58: %w", address, err)
	}
	if len(decoded) != addressLength {
		return fmt.Errorf("address %q decodes to %d bytes, expected %d", address, len(decoded), addressLength)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
