package quoter_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/quoter"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/zeebo/assert"
)

// blockingFinder resolves each lookup when its amount is released, or on cancel
type blockingFinder struct {
	mu       sync.Mutex
	started  chan float64
	releases map[float64]chan struct{}
}

func newBlockingFinder() *blockingFinder {
	return &blockingFinder{
		started:  make(chan float64, 16),
		releases: make(map[float64]chan struct{}),
	}
}

func (f *blockingFinder) release(amount float64) {
	f.mu.Lock()
	ch, ok := f.releases[amount]
	if !ok {
		ch = make(chan struct{})
		f.releases[amount] = ch
	}
	f.mu.Unlock()
	close(ch)
}

func (f *blockingFinder) FindBestRoute(ctx context.Context, from, to string, amount float64) (*router.SwapRoute, error) {
	f.mu.Lock()
	ch, ok := f.releases[amount]
	if !ok {
		ch = make(chan struct{})
		f.releases[amount] = ch
	}
	f.mu.Unlock()

	f.started <- amount
	select {
	case <-ch:
		return &router.SwapRoute{InputAmount: amount, OutputAmount: amount * 2}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type result struct {
	route *router.SwapRoute
	err   error
}

func TestSession_LatestRequestWins(t *testing.T) {
	finder := newBlockingFinder()
	session := quoter.NewSession(finder)

	first := make(chan result, 1)
	go func() {
		route, err := session.Request(context.Background(), "a", "b", 1)
		first <- result{route, err}
	}()
	assert.Equal(t, <-finder.started, 1.0)

	second := make(chan result, 1)
	go func() {
		route, err := session.Request(context.Background(), "a", "b", 2)
		second <- result{route, err}
	}()
	assert.Equal(t, <-finder.started, 2.0)

	// the first lookup is canceled by the second request
	r1 := <-first
	assert.True(t, errors.Is(r1.err, quoter.ErrSuperseded))
	assert.True(t, r1.route == nil)

	finder.release(2)
	r2 := <-second
	assert.NoError(t, r2.err)
	assert.Equal(t, r2.route.OutputAmount, 4.0)
	assert.Equal(t, session.Generation(), uint64(2))
}

func TestSession_StaleResultIsDropped(t *testing.T) {
	// finder ignores cancellation so the stale lookup completes normally
	started := make(chan struct{}, 2)
	gate := make(chan struct{})
	finder := finderFunc(func(ctx context.Context, from, to string, amount float64) (*router.SwapRoute, error) {
		started <- struct{}{}
		if amount == 1 {
			<-gate
		}
		return &router.SwapRoute{InputAmount: amount, OutputAmount: amount}, nil
	})
	session := quoter.NewSession(finder)

	first := make(chan result, 1)
	go func() {
		route, err := session.Request(context.Background(), "a", "b", 1)
		first <- result{route, err}
	}()
	<-started

	route, err := session.Request(context.Background(), "a", "b", 5)
	assert.NoError(t, err)
	assert.Equal(t, route.OutputAmount, 5.0)

	close(gate)
	r1 := <-first
	assert.True(t, errors.Is(r1.err, quoter.ErrSuperseded))
}

func TestSession_CancelDropsInFlight(t *testing.T) {
	finder := newBlockingFinder()
	session := quoter.NewSession(finder)

	done := make(chan result, 1)
	go func() {
		route, err := session.Request(context.Background(), "a", "b", 3)
		done <- result{route, err}
	}()
	<-finder.started

	session.Cancel()

	select {
	case r := <-done:
		assert.True(t, errors.Is(r.err, quoter.ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("request was not canceled")
	}
}

func TestSession_ErrorsPassThrough(t *testing.T) {
	finder := finderFunc(func(ctx context.Context, from, to string, amount float64) (*router.SwapRoute, error) {
		return nil, router.ErrNoRouteFound
	})
	session := quoter.NewSession(finder)

	_, err := session.Request(context.Background(), "a", "b", 1)
	assert.True(t, errors.Is(err, router.ErrNoRouteFound))
}

func TestSession_WithRouteFinder(t *testing.T) {
	index := router.NewPoolIndex()
	assert.NoError(t, index.BuildIndex(
		[]router.Token{{Address: "a", Symbol: "A", USDPrice: 1}, {Address: "b", Symbol: "B", USDPrice: 1}},
		[]router.LiquidityPool{{Source: "Orca", TokenA: "a", TokenB: "b", LiquidityA: 1000, LiquidityB: 1000, Fee: 0.3}},
	))
	session := quoter.NewSession(router.NewRouteFinder(index, router.WithLatency(50*time.Millisecond)))

	var wg sync.WaitGroup
	results := make([]result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route, err := session.Request(context.Background(), "a", "b", float64(i+1))
			results[i] = result{route, err}
		}(i)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	delivered := 0
	for _, r := range results {
		if r.err == nil {
			delivered++
			continue
		}
		assert.True(t, errors.Is(r.err, quoter.ErrSuperseded))
	}
	assert.Equal(t, delivered, 1)
}

type finderFunc func(ctx context.Context, from, to string, amount float64) (*router.SwapRoute, error)

func (f finderFunc) FindBestRoute(ctx context.Context, from, to string, amount float64) (*router.SwapRoute, error) {
	return f(ctx, from, to, amount)
}
