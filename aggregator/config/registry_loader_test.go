package config_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/Cogwheel-Validator/spectra-launchpad/aggregator/config"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/zeebo/assert"
)

const tomlRegistry = `
[[tokens]]
address = "So11111111111111111111111111111111111111112"
symbol = "SOL"
name = "Solana"
usd_price = 170.0

[[tokens]]
address = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
symbol = "USDC"
name = "USD Coin"
usd_price = 1.0

[[pools]]
source = "Orca"
token_a = "SOL"
token_b = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
liquidity_a = 80000.0
liquidity_b = 13600000.0
fee = 0.3
`

const jsonRegistry = `{
  "tokens": [
    {"address": "So11111111111111111111111111111111111111112", "symbol": "SOL", "usd_price": 170},
    {"address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "symbol": "USDC", "usd_price": 1}
  ],
  "pools": [
    {"source": "Raydium", "token_a": "SOL", "token_b": "USDC", "liquidity_a": 50000, "liquidity_b": 8500000, "fee": 0.25}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing temp registry: %v", err)
	}
	return path
}

func TestRegistryLoader_LoadFromFile_TOML(t *testing.T) {
	loader := NewRegistryLoader()
	registry, err := loader.LoadFromFile(writeFile(t, "registry.toml", tomlRegistry))
	assert.NoError(t, err)
	assert.Equal(t, len(registry.Tokens), 2)
	assert.Equal(t, len(registry.Pools), 1)

	// symbol references resolve to addresses
	pool := registry.Pools[0]
	assert.Equal(t, pool.TokenA, SOLAddress)
	assert.Equal(t, pool.TokenB, USDCAddress)
	assert.Equal(t, pool.Fee, 0.3)
	assert.Equal(t, registry.Tokens[0].USDPrice, 170.0)
}

func TestRegistryLoader_LoadFromFile_JSON(t *testing.T) {
	loader := NewRegistryLoader()
	registry, err := loader.LoadFromFile(writeFile(t, "registry.json", jsonRegistry))
	assert.NoError(t, err)
	assert.Equal(t, len(registry.Pools), 1)
	assert.Equal(t, registry.Pools[0].Source, "Raydium")
	assert.Equal(t, registry.Pools[0].TokenB, USDCAddress)
}

func TestRegistryLoader_LoadFromFile_Malformed(t *testing.T) {
	loader := NewRegistryLoader()

	_, err := loader.LoadFromFile(writeFile(t, "registry.json", "{not json"))
	assert.Error(t, err)

	_, err = loader.LoadFromFile(writeFile(t, "registry.toml", "tokens = ["))
	assert.Error(t, err)

	_, err = loader.LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestRegistryLoader_Load_Default(t *testing.T) {
	loader := NewRegistryLoader()
	registry, err := loader.Load(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, len(registry.Tokens), 5)
	assert.Equal(t, len(registry.Pools), 6)
	assert.NoError(t, ValidateRegistry(registry))

	index, err := registry.BuildIndex()
	assert.NoError(t, err)
	sol, err := index.ResolveToken("sol")
	assert.NoError(t, err)
	assert.Equal(t, sol.Address, SOLAddress)
}

func TestRegistryLoader_Load_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registry.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonRegistry))
	}))
	defer srv.Close()

	loader := NewRegistryLoader()
	registry, err := loader.Load(context.Background(), srv.URL+"/registry.json")
	assert.NoError(t, err)
	assert.Equal(t, len(registry.Tokens), 2)
	assert.Equal(t, registry.Pools[0].Source, "Raydium")

	_, err = loader.Load(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestRegistryLoader_Load_LocalPath(t *testing.T) {
	loader := NewRegistryLoader()
	registry, err := loader.Load(context.Background(), writeFile(t, "registry.toml", tomlRegistry))
	assert.NoError(t, err)
	assert.Equal(t, registry.Pools[0].Source, "Orca")
}

func TestValidateRegistry_Rejects(t *testing.T) {
	valid := func() *Registry { return DefaultRegistry() }

	cases := []struct {
		name    string
		mutate  func(r *Registry)
		message string
	}{
		{"not base58", func(r *Registry) { r.Tokens[0].Address = "0OIl-not-base58" }, "not base58"},
		{"wrong length", func(r *Registry) { r.Tokens[0].Address = "abc" }, "expected 32"},
		{"duplicate address", func(r *Registry) { r.Tokens[1].Address = SOLAddress }, "duplicate address"},
		{"missing symbol", func(r *Registry) { r.Tokens[2].Symbol = "" }, "symbol is required"},
		{"negative price", func(r *Registry) { r.Tokens[3].USDPrice = -1 }, "usd price"},
		{"zero reserve", func(r *Registry) { r.Pools[0].LiquidityA = 0 }, "reserves must be positive"},
		{"fee of 100", func(r *Registry) { r.Pools[1].Fee = 100 }, "fee must be within"},
		{"negative fee", func(r *Registry) { r.Pools[1].Fee = -0.1 }, "fee must be within"},
		{"self pair", func(r *Registry) { r.Pools[2].TokenB = r.Pools[2].TokenA }, "must differ"},
		{"unknown token", func(r *Registry) { r.Pools[3].TokenB = "GkGvUYAUQXJXtq2EpuR2FpTKjQGeHuPJkEbYDrKxmStF" }, "unknown token"},
		{"missing source", func(r *Registry) { r.Pools[4].Source = "" }, "source is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry := valid()
			tc.mutate(registry)
			err := ValidateRegistry(registry)
			assert.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.message))
		})
	}

	assert.Error(t, ValidateRegistry(&Registry{}))
}

func TestRegistryLoader_ConvertRejectsInvalid(t *testing.T) {
	loader := NewRegistryLoader()
	_, err := loader.ConvertToRouterTypes(&RegistryFile{
		Tokens: []TokenEntry{{Address: SOLAddress, Symbol: "SOL"}},
		Pools:  []PoolEntry{{Source: "Orca", TokenA: "SOL", TokenB: "USDC", LiquidityA: 1, LiquidityB: 1}},
	})
	assert.Error(t, err)

	_, err = loader.ConvertToRouterTypes(&RegistryFile{})
	assert.Error(t, err)
}

func TestDefaultRegistry_RoutesThroughFinder(t *testing.T) {
	index, err := DefaultRegistry().BuildIndex()
	assert.NoError(t, err)

	finder := router.NewRouteFinder(index, router.WithLatency(0))
	route, err := finder.FindBestRoute(context.Background(), SOLAddress, USDCAddress, 100)
	assert.NoError(t, err)
	assert.Equal(t, route.Path[0], "Orca")

	_, err = finder.FindBestRoute(context.Background(), JUPAddress, NBLAddress, 10)
	assert.True(t, errors.Is(err, router.ErrNoRouteFound))
}
