package router_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	router "github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/zeebo/assert"
)

var tokens = []router.Token{
	{Address: solAddr, Symbol: "SOL", Name: "Solana", USDPrice: 170},
	{Address: usdcAddr, Symbol: "USDC", Name: "USD Coin", USDPrice: 1},
	{Address: jupAddr, Symbol: "JUP", Name: "Jupiter", USDPrice: 1.7},
	{Address: qtcAddr, Symbol: "QTC", Name: "Quantum Coin", USDPrice: 2},
	{Address: nblAddr, Symbol: "NBL", Name: "Nebula", USDPrice: 4},
	{Address: bonkAddr, Symbol: "BONK", Name: "Bonk", USDPrice: 0.00002},
}

var pools = []router.LiquidityPool{
	{Source: "Raydium", TokenA: solAddr, TokenB: usdcAddr, LiquidityA: 50000, LiquidityB: 8500000, Fee: 0.25},
	{Source: "Orca", TokenA: solAddr, TokenB: usdcAddr, LiquidityA: 80000, LiquidityB: 13600000, Fee: 0.3},
	{Source: "Raydium", TokenA: solAddr, TokenB: jupAddr, LiquidityA: 20000, LiquidityB: 2000000, Fee: 0.25},
	{Source: "Orca", TokenA: usdcAddr, TokenB: qtcAddr, LiquidityA: 1000000, LiquidityB: 500000, Fee: 0.3},
	{Source: "Raydium", TokenA: usdcAddr, TokenB: nblAddr, LiquidityA: 800000, LiquidityB: 200000, Fee: 0.25},
	{Source: "Orca", TokenA: jupAddr, TokenB: qtcAddr, LiquidityA: 750000, LiquidityB: 400000, Fee: 0.3},
}

func setupTestFinder(t *testing.T, tokens []router.Token, pools []router.LiquidityPool) *router.RouteFinder {
	t.Helper()
	index := router.NewPoolIndex()
	assert.NoError(t, index.BuildIndex(tokens, pools))
	return router.NewRouteFinder(index, router.WithLatency(0))
}

func TestRouteFinder_PicksPoolWithHigherOutput(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)

	route, err := finder.FindBestRoute(context.Background(), solAddr, usdcAddr, 100)
	assert.NoError(t, err)
	assert.NotNil(t, route)

	raydium, _ := router.CalculateSwapOutput(&pools[0], solAddr, 100)
	orca, _ := router.CalculateSwapOutput(&pools[1], solAddr, 100)
	assert.True(t, orca.AmountOut > raydium.AmountOut)

	assert.Equal(t, len(route.Path), 2)
	assert.Equal(t, route.Path[0], "Orca")
	assert.Equal(t, route.Path[1], "SOL/USDC")
	assert.Equal(t, route.OutputAmount, orca.AmountOut)
	assert.Equal(t, route.PriceImpact, orca.PriceImpact)
	assert.Equal(t, route.InputAmount, 100.0)
	assert.False(t, route.IsOneHop())

	// fee is the input valued in USD times the pool fee fraction
	assert.True(t, withinRelative(route.FeeInUSD, 100*170*0.003, 1e-12))
}

func TestRouteFinder_ReverseDirectionUsesSameDirectPools(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)

	route, err := finder.FindBestRoute(context.Background(), usdcAddr, solAddr, 1000)
	assert.NoError(t, err)
	assert.Equal(t, route.Path[1], "USDC/SOL")
	assert.Equal(t, len(route.Legs), 1)
	assert.Equal(t, route.Legs[0].TokenIn.Symbol, "USDC")
	assert.Equal(t, route.Legs[0].TokenOut.Symbol, "SOL")
}

func TestRouteFinder_OneHopComposition(t *testing.T) {
	hopTokens := []router.Token{
		{Address: "a", Symbol: "AAA", USDPrice: 3},
		{Address: "b", Symbol: "BBB", USDPrice: 0.5},
		{Address: "c", Symbol: "CCC", USDPrice: 10},
	}
	hopPools := []router.LiquidityPool{
		{Source: "Raydium", TokenA: "a", TokenB: "b", LiquidityA: 10000, LiquidityB: 60000, Fee: 0.25},
		{Source: "Orca", TokenA: "c", TokenB: "b", LiquidityA: 5000, LiquidityB: 100000, Fee: 0.3},
	}
	finder := setupTestFinder(t, hopTokens, hopPools)

	route, err := finder.FindBestRoute(context.Background(), "a", "c", 250)
	assert.NoError(t, err)

	first, err := router.CalculateSwapOutput(&hopPools[0], "a", 250)
	assert.NoError(t, err)
	second, err := router.CalculateSwapOutput(&hopPools[1], "b", first.AmountOut)
	assert.NoError(t, err)

	assert.True(t, route.IsOneHop())
	assert.Equal(t, route.Path[0], "Raydium, Orca")
	assert.Equal(t, route.Path[1], "AAA → BBB → CCC")
	assert.Equal(t, route.OutputAmount, second.AmountOut)
	assert.Equal(t, route.PriceImpact, math.Max(first.PriceImpact, second.PriceImpact))

	expectedFee := 250*3*0.0025 + first.AmountOut*0.5*0.003
	assert.True(t, withinRelative(route.FeeInUSD, expectedFee, 1e-12))

	assert.Equal(t, len(route.Legs), 2)
	assert.Equal(t, route.Legs[0].AmountOut, route.Legs[1].AmountIn)
	assert.Equal(t, route.Legs[1].Source, "Orca")
}

func TestRouteFinder_OneHopBestAmongCandidates(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)

	// no SOL/QTC pool: candidates go through USDC (two venues) or JUP
	route, err := finder.FindBestRoute(context.Background(), solAddr, qtcAddr, 10)
	assert.NoError(t, err)
	assert.True(t, route.IsOneHop())

	best := 0.0
	for _, fromPool := range []int{0, 1, 2} {
		first, err := router.CalculateSwapOutput(&pools[fromPool], solAddr, 10)
		assert.NoError(t, err)
		toPool := 3
		intermediate := usdcAddr
		if fromPool == 2 {
			toPool = 5
			intermediate = jupAddr
		}
		second, err := router.CalculateSwapOutput(&pools[toPool], intermediate, first.AmountOut)
		assert.NoError(t, err)
		best = math.Max(best, second.AmountOut)
	}
	assert.Equal(t, route.OutputAmount, best)
}

func TestRouteFinder_NoRouteFound(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)

	// JUP reaches SOL and QTC, NBL only reaches USDC
	route, err := finder.FindBestRoute(context.Background(), jupAddr, nblAddr, 10)
	assert.Error(t, err)
	assert.True(t, route == nil)
	assert.True(t, errors.Is(err, router.ErrNoRouteFound))
	assert.True(t, router.IsCannotQuote(err))

	// BONK has no pool at all
	_, err = finder.FindBestRoute(context.Background(), bonkAddr, usdcAddr, 10)
	assert.True(t, errors.Is(err, router.ErrNoRouteFound))
}

func TestRouteFinder_InsufficientLiquidity(t *testing.T) {
	drained := []router.LiquidityPool{
		{Source: "Raydium", TokenA: solAddr, TokenB: usdcAddr, LiquidityA: 50000, LiquidityB: 0, Fee: 0.25},
		{Source: "Orca", TokenA: solAddr, TokenB: usdcAddr, LiquidityA: 50000, LiquidityB: 8500000, Fee: 100},
	}
	finder := setupTestFinder(t, tokens, drained)

	route, err := finder.FindBestRoute(context.Background(), solAddr, usdcAddr, 100)
	assert.True(t, route == nil)
	assert.True(t, errors.Is(err, router.ErrInsufficientLiquidity))
	assert.False(t, errors.Is(err, router.ErrNoRouteFound))
	assert.True(t, router.IsCannotQuote(err))
}

func TestRouteFinder_InvalidInput(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)
	ctx := context.Background()

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		route, err := finder.FindBestRoute(ctx, solAddr, usdcAddr, amount)
		assert.True(t, route == nil)
		assert.True(t, errors.Is(err, router.ErrInvalidInput))
	}

	_, err := finder.FindBestRoute(ctx, solAddr, solAddr, 1)
	assert.True(t, errors.Is(err, router.ErrInvalidInput))

	_, err = finder.FindBestRoute(ctx, "missing", usdcAddr, 1)
	assert.True(t, errors.Is(err, router.ErrUnknownToken))
}

func TestRouteFinder_TiesKeepRegistryOrder(t *testing.T) {
	twins := []router.LiquidityPool{
		{Source: "First", TokenA: solAddr, TokenB: usdcAddr, LiquidityA: 1000, LiquidityB: 170000, Fee: 0.3},
		{Source: "Second", TokenA: usdcAddr, TokenB: solAddr, LiquidityA: 170000, LiquidityB: 1000, Fee: 0.3},
	}
	finder := setupTestFinder(t, tokens, twins)

	route, err := finder.FindBestRoute(context.Background(), solAddr, usdcAddr, 5)
	assert.NoError(t, err)
	assert.Equal(t, route.Path[0], "First")
}

func TestRouteFinder_LatencyRespectsContext(t *testing.T) {
	index := router.NewPoolIndex()
	assert.NoError(t, index.BuildIndex(tokens, pools))
	finder := router.NewRouteFinder(index, router.WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	route, err := finder.FindBestRoute(ctx, solAddr, usdcAddr, 1)
	assert.True(t, route == nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRouteFinder_SimulatedLatency(t *testing.T) {
	index := router.NewPoolIndex()
	assert.NoError(t, index.BuildIndex(tokens, pools))
	finder := router.NewRouteFinder(index, router.WithLatency(20*time.Millisecond))

	start := time.Now()
	_, err := finder.FindBestRoute(context.Background(), solAddr, usdcAddr, 1)
	assert.NoError(t, err)
	assert.True(t, time.Since(start) >= 20*time.Millisecond)
}

func TestRouteFinder_ConcurrentQueries(t *testing.T) {
	finder := setupTestFinder(t, tokens, pools)

	expected, err := finder.FindBestRoute(context.Background(), solAddr, qtcAddr, 42)
	assert.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route, err := finder.FindBestRoute(context.Background(), solAddr, qtcAddr, 42)
			if err == nil {
				results[i] = route.OutputAmount
			}
		}(i)
	}
	wg.Wait()

	for _, output := range results {
		assert.Equal(t, output, expected.OutputAmount)
	}
	assert.True(t, reflect.DeepEqual(finder.Index().Pools(), pools))
}

func TestPoolIndex_BuildIndexRejectsBadRegistry(t *testing.T) {
	index := router.NewPoolIndex()
	assert.Error(t, index.BuildIndex(nil, pools))

	index = router.NewPoolIndex()
	err := index.BuildIndex(tokens[:2], pools)
	assert.True(t, errors.Is(err, router.ErrUnknownToken))

	index = router.NewPoolIndex()
	err = index.BuildIndex(append([]router.Token{}, tokens[0], tokens[0]), nil)
	assert.Error(t, err)

	index = router.NewPoolIndex()
	err = index.BuildIndex(tokens, []router.LiquidityPool{{Source: "Self", TokenA: solAddr, TokenB: solAddr, LiquidityA: 1, LiquidityB: 1}})
	assert.Error(t, err)
}

func TestPoolIndex_ResolveToken(t *testing.T) {
	index := router.NewPoolIndex()
	assert.NoError(t, index.BuildIndex(tokens, pools))

	token, err := index.ResolveToken("usdc")
	assert.NoError(t, err)
	assert.Equal(t, token.Address, usdcAddr)

	token, err = index.ResolveToken(jupAddr)
	assert.NoError(t, err)
	assert.Equal(t, token.Symbol, "JUP")

	_, err = index.ResolveToken("DOGE")
	assert.True(t, errors.Is(err, router.ErrUnknownToken))

	assert.Equal(t, len(index.Tokens()), len(tokens))
	assert.Equal(t, index.Tokens()[0].Symbol, "SOL")
}
