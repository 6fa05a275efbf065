package router

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var routerLog zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	routerLog = zerolog.New(out).With().Timestamp().Str("component", "router").Logger()
}

// SetLogger replaces the router logger
func SetLogger(l zerolog.Logger) {
	routerLog = l.With().Str("component", "router").Logger()
}

const tracerName = "github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"

// DefaultLatency is the simulated network delay of a route lookup
const DefaultLatency = 750 * time.Millisecond

// RouteFinder searches the pool index for the best direct or one-hop route.
// It holds no mutable state, so one finder can serve overlapping calls.
type RouteFinder struct {
	index   *PoolIndex
	latency time.Duration
	tracer  trace.Tracer
}

// Option configures a RouteFinder
type Option func(*RouteFinder)

// WithLatency sets the simulated delay before a lookup resolves. Zero disables it.
func WithLatency(latency time.Duration) Option {
	return func(f *RouteFinder) {
		if latency >= 0 {
			f.latency = latency
		}
	}
}

// NewRouteFinder creates a RouteFinder over a built pool index
func NewRouteFinder(index *PoolIndex, opts ...Option) *RouteFinder {
	f := &RouteFinder{
		index:   index,
		latency: DefaultLatency,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Index returns the pool index the finder searches
func (f *RouteFinder) Index() *PoolIndex {
	return f.index
}

/*
FindBestRoute finds the route with the greatest output for selling amount of
fromAddress into toAddress, using at most one intermediate token.

Parameters:
- ctx: cancels the simulated latency
- fromAddress, toAddress: token addresses from the registry, must differ
- amount: positive finite input amount

Returns:
- *SwapRoute: the best candidate, direct routes win ties against one-hop routes
- error: ErrInvalidInput, ErrUnknownToken, ErrNoRouteFound, ErrInsufficientLiquidity or ctx.Err()
*/
func (f *RouteFinder) FindBestRoute(ctx context.Context, fromAddress, toAddress string, amount float64) (*SwapRoute, error) {
	ctx, span := f.tracer.Start(ctx, "router.FindBestRoute", trace.WithAttributes(
		attribute.String("token.from", fromAddress),
		attribute.String("token.to", toAddress),
		attribute.Float64("amount.in", amount),
	))
	defer span.End()

	route, err := f.findBestRoute(ctx, fromAddress, toAddress, amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("amount.out", route.OutputAmount),
		attribute.Int("route.legs", len(route.Legs)),
	)
	return route, nil
}

func (f *RouteFinder) findBestRoute(ctx context.Context, fromAddress, toAddress string, amount float64) (*SwapRoute, error) {
	if !isPositiveAmount(amount) {
		return nil, fmt.Errorf("%w: amount %v must be a positive finite number", ErrInvalidInput, amount)
	}
	if fromAddress == toAddress {
		return nil, fmt.Errorf("%w: cannot swap %s into itself", ErrInvalidInput, fromAddress)
	}

	from, ok := f.index.Token(fromAddress)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, fromAddress)
	}
	to, ok := f.index.Token(toAddress)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, toAddress)
	}

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	routerLog.Debug().
		Str("from", from.Symbol).
		Str("to", to.Symbol).
		Float64("amount", amount).
		Msg("Finding best route")

	directRoutes, directConnected := f.findDirectRoutes(from, to, amount)
	oneHopRoutes, oneHopConnected := f.findOneHopRoutes(from, to, amount)

	// direct candidates first so they keep ties
	candidates := append(directRoutes, oneHopRoutes...)
	if len(candidates) == 0 {
		if directConnected || oneHopConnected {
			return nil, fmt.Errorf("%w: every route from %s to %s has no output", ErrInsufficientLiquidity, from.Symbol, to.Symbol)
		}
		return nil, fmt.Errorf("%w between %s and %s", ErrNoRouteFound, from.Symbol, to.Symbol)
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.OutputAmount > best.OutputAmount {
			best = candidate
		}
	}

	routerLog.Debug().
		Int("candidates", len(candidates)).
		Strs("path", best.Path).
		Float64("output", best.OutputAmount).
		Msg("Selected best route")
	return best, nil
}

// wait simulates the network latency of a lookup
func (f *RouteFinder) wait(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
