package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/pelletier/go-toml/v2"
)

// Registry is the validated token and pool registry in router types.
type Registry struct {
	Tokens []router.Token
	Pools  []router.LiquidityPool
}

// RegistryLoader loads token and pool registries and converts them
// to the router types used by the route finder.
type RegistryLoader struct {
	// fetchDir is where remote registries are downloaded to, empty uses os.TempDir
	fetchDir string
}

// NewRegistryLoader creates a new registry loader.
func NewRegistryLoader() *RegistryLoader {
	return &RegistryLoader{}
}

// Load resolves a registry source. An empty source returns the built-in registry,
// a remote source is fetched first and a local path is read directly.
func (l *RegistryLoader) Load(ctx context.Context, source string) (*Registry, error) {
	if source == "" {
		return DefaultRegistry(), nil
	}

	path := source
	if isRemoteSource(source) {
		fetched, cleanup, err := l.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = fetched
	}

	return l.LoadFromFile(path)
}

// LoadFromFile loads a registry from a TOML or JSON file.
func (l *RegistryLoader) LoadFromFile(filePath string) (*Registry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file RegistryFile

	if strings.HasSuffix(filePath, ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON registry: %w", err)
		}
	} else {
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML registry: %w", err)
		}
	}

	return l.ConvertToRouterTypes(&file)
}

// ConvertToRouterTypes converts a RegistryFile to router types and validates the result.
// Pool token references may be addresses or symbols.
func (l *RegistryLoader) ConvertToRouterTypes(file *RegistryFile) (*Registry, error) {
	if file == nil || len(file.Tokens) == 0 {
		return nil, fmt.Errorf("no tokens in registry")
	}

	registry := &Registry{
		Tokens: make([]router.Token, len(file.Tokens)),
		Pools:  make([]router.LiquidityPool, len(file.Pools)),
	}

	bySymbol := make(map[string]string, len(file.Tokens))
	for i, token := range file.Tokens {
		registry.Tokens[i] = router.Token{
			Address:  strings.TrimSpace(token.Address),
			Symbol:   strings.TrimSpace(token.Symbol),
			Name:     token.Name,
			Logo:     token.Logo,
			USDPrice: token.USDPrice,
		}
		symbol := strings.ToUpper(registry.Tokens[i].Symbol)
		if _, exists := bySymbol[symbol]; !exists {
			bySymbol[symbol] = registry.Tokens[i].Address
		}
	}

	resolve := func(ref string) string {
		ref = strings.TrimSpace(ref)
		if address, ok := bySymbol[strings.ToUpper(ref)]; ok {
			return address
		}
		return ref
	}

	for i, pool := range file.Pools {
		registry.Pools[i] = router.LiquidityPool{
			Source:     pool.Source,
			TokenA:     resolve(pool.TokenA),
			TokenB:     resolve(pool.TokenB),
			LiquidityA: pool.LiquidityA,
			LiquidityB: pool.LiquidityB,
			Fee:        pool.Fee,
		}
	}

	if err := ValidateRegistry(registry); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}

	return registry, nil
}

// BuildIndex builds a router pool index from the registry.
func (r *Registry) BuildIndex() (*router.PoolIndex, error) {
	index := router.NewPoolIndex()
	if err := index.BuildIndex(r.Tokens, r.Pools); err != nil {
		return nil, fmt.Errorf("failed to build pool index: %w", err)
	}
	return index, nil
}
