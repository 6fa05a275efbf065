package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/models"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/shopspring/decimal"
)

// FindBestRouteProcedure is the Connect procedure path of the quote endpoint.
const FindBestRouteProcedure = "/aggregator.v1.AggregatorService/FindBestRoute"

// amountPlaces is the number of decimals used for amounts on the wire.
const amountPlaces = 6

// QuoteServer answers quote requests with the route finder.
type QuoteServer struct {
	finder             *router.RouteFinder
	defaultSlippageBps uint32
}

// NewQuoteServer creates a new QuoteServer
func NewQuoteServer(finder *router.RouteFinder, defaultSlippageBps uint32) *QuoteServer {
	return &QuoteServer{
		finder:             finder,
		defaultSlippageBps: defaultSlippageBps,
	}
}

// FindBestRoute implements the Connect handler for quoting a swap.
// Tokens may be given by address or by symbol.
//
// Returns:
//   - invalid_argument: bad amount, slippage, same or unknown token
//   - not_found: no pool or pool pair connects the tokens
//   - failed_precondition: routes exist but none gives a positive output
func (s *QuoteServer) FindBestRoute(
	ctx context.Context,
	req *connect.Request[models.QuoteRequest],
) (*connect.Response[models.QuoteResponse], error) {
	start := time.Now()
	defer func() { quoteDuration.Observe(time.Since(start).Seconds()) }()

	resp, err := s.findBestRoute(ctx, req.Msg)
	if err != nil {
		quotesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return nil, toConnectError(err)
	}
	quotesTotal.WithLabelValues(outcomeOK).Inc()

	return connect.NewResponse(resp), nil
}

func (s *QuoteServer) findBestRoute(ctx context.Context, msg *models.QuoteRequest) (*models.QuoteResponse, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: empty request", router.ErrInvalidInput)
	}

	amount, err := ParseAmount(msg.AmountIn)
	if err != nil {
		return nil, err
	}

	slippage := s.defaultSlippageBps
	if msg.SlippageBps != nil {
		slippage = *msg.SlippageBps
	}
	if slippage > 10000 {
		return nil, fmt.Errorf("%w: slippage_bps %d exceeds 10000", router.ErrInvalidInput, slippage)
	}

	index := s.finder.Index()
	from, err := index.ResolveToken(msg.FromToken)
	if err != nil {
		return nil, fmt.Errorf("source token: %w", err)
	}
	to, err := index.ResolveToken(msg.ToToken)
	if err != nil {
		return nil, fmt.Errorf("destination token: %w", err)
	}

	route, err := s.finder.FindBestRoute(ctx, from.Address, to.Address, amount.InexactFloat64())
	if err != nil {
		return nil, err
	}

	resp, err := QuoteFromRoute(route, slippage)
	if err != nil {
		return nil, err
	}

	kind := "direct"
	if route.IsOneHop() {
		kind = "one_hop"
	}
	routeKind.WithLabelValues(kind, route.Path[0]).Inc()

	return resp, nil
}

// ParseAmount parses a positive decimal amount, failures wrap router.ErrInvalidInput
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount_in is required", router.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount_in %q is not a decimal number", router.ErrInvalidInput, raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount_in must be positive", router.ErrInvalidInput)
	}
	return amount, nil
}

// QuoteFromRoute renders a route as the wire response, applying the slippage tolerance
func QuoteFromRoute(route *router.SwapRoute, slippageBps uint32) (*models.QuoteResponse, error) {
	if route == nil || len(route.Legs) == 0 || len(route.Path) == 0 {
		return nil, fmt.Errorf("route has no legs")
	}

	minOut, err := route.MinOutputAmount(slippageBps)
	if err != nil {
		return nil, err
	}

	resp := &models.QuoteResponse{
		Path:            append([]string(nil), route.Path...),
		FromToken:       route.Legs[0].TokenIn.Address,
		ToToken:         route.Legs[len(route.Legs)-1].TokenOut.Address,
		AmountIn:        formatAmount(route.InputAmount),
		AmountOut:       formatAmount(route.OutputAmount),
		MinOutputAmount: minOut.StringFixed(amountPlaces),
		SlippageBps:     slippageBps,
		Rate:            formatAmount(route.Rate()),
		PriceImpact:     formatPercent(route.PriceImpact),
		FeeInUSD:        formatAmount(route.FeeInUSD),
		OneHop:          route.IsOneHop(),
		Legs:            make([]models.RouteLeg, len(route.Legs)),
	}

	for i, leg := range route.Legs {
		resp.Legs[i] = models.RouteLeg{
			Source:      leg.Source,
			TokenIn:     leg.TokenIn.Address,
			TokenOut:    leg.TokenOut.Address,
			SymbolIn:    leg.TokenIn.Symbol,
			SymbolOut:   leg.TokenOut.Symbol,
			AmountIn:    formatAmount(leg.AmountIn),
			AmountOut:   formatAmount(leg.AmountOut),
			PriceImpact: formatPercent(leg.PriceImpact),
			FeeInUSD:    formatAmount(leg.FeeInUSD),
		}
	}

	return resp, nil
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(amountPlaces)
}

func formatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

// toConnectError maps router errors to Connect codes
func toConnectError(err error) error {
	switch {
	case errors.Is(err, router.ErrInvalidInput), errors.Is(err, router.ErrUnknownToken):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, router.ErrNoRouteFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, router.ErrInsufficientLiquidity):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	Logger.Error().Err(err).Msg("unexpected quote error")
	return connect.NewError(connect.CodeInternal, fmt.Errorf("internal server error"))
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, router.ErrInvalidInput), errors.Is(err, router.ErrUnknownToken):
		return outcomeInvalid
	case errors.Is(err, router.ErrNoRouteFound):
		return outcomeNoRoute
	case errors.Is(err, router.ErrInsufficientLiquidity):
		return outcomeInsufficient
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	}
	return outcomeError
}

// ListTokens returns the token registry in registry order
func (s *QuoteServer) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens := s.finder.Index().Tokens()
	list := models.TokenList{Tokens: make([]models.TokenDetails, len(tokens))}
	for i, token := range tokens {
		list.Tokens[i] = models.TokenDetails{
			Address:  token.Address,
			Symbol:   token.Symbol,
			Name:     token.Name,
			Logo:     token.Logo,
			USDPrice: decimal.NewFromFloat(token.USDPrice).String(),
		}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPools returns the pool registry in registry order
func (s *QuoteServer) ListPools(w http.ResponseWriter, r *http.Request) {
	index := s.finder.Index()
	pools := index.Pools()
	list := models.PoolList{Pools: make([]models.PoolDetails, len(pools))}
	for i, pool := range pools {
		tokenA, _ := index.Token(pool.TokenA)
		tokenB, _ := index.Token(pool.TokenB)
		list.Pools[i] = models.PoolDetails{
			Source:     pool.Source,
			TokenA:     pool.TokenA,
			TokenB:     pool.TokenB,
			SymbolA:    tokenA.Symbol,
			SymbolB:    tokenB.Symbol,
			LiquidityA: decimal.NewFromFloat(pool.LiquidityA).String(),
			LiquidityB: decimal.NewFromFloat(pool.LiquidityB).String(),
			Fee:        decimal.NewFromFloat(pool.Fee).String(),
		}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		Logger.Error().Err(err).Msg("failed to write response")
	}
}
