package router

import "math"

// findOneHopRoutes composes two pools through a shared intermediate token:
// from -> intermediate through the first pool, then intermediate -> to
// through a different second pool, feeding the first output into the second leg.
func (f *RouteFinder) findOneHopRoutes(from, to Token, amount float64) (routes []*SwapRoute, connected bool) {
	toPools := f.index.poolsTouching(to.Address)

	for _, fromPosition := range f.index.poolsTouching(from.Address) {
		fromPool := &f.index.pools[fromPosition]
		intermediateAddr, _ := fromPool.Other(from.Address)

		for _, toPosition := range toPools {
			if toPosition == fromPosition {
				continue
			}
			toPool := &f.index.pools[toPosition]
			if otherAddr, _ := toPool.Other(to.Address); otherAddr != intermediateAddr {
				continue
			}

			intermediate, ok := f.index.Token(intermediateAddr)
			if !ok {
				continue
			}
			connected = true

			route := f.composeOneHop(fromPool, toPool, from, intermediate, to, amount)
			if route != nil {
				routes = append(routes, route)
			}
		}
	}
	return routes, connected
}

// composeOneHop chains the two quotes. It returns nil when either leg has no output.
func (f *RouteFinder) composeOneHop(fromPool, toPool *LiquidityPool, from, intermediate, to Token, amount float64) *SwapRoute {
	first, err := CalculateSwapOutput(fromPool, from.Address, amount)
	if err != nil || first.AmountOut <= 0 {
		return nil
	}

	second, err := CalculateSwapOutput(toPool, intermediate.Address, first.AmountOut)
	if err != nil || second.AmountOut <= 0 {
		return nil
	}

	legs := []RouteLeg{
		{
			Source:      fromPool.Source,
			TokenIn:     from,
			TokenOut:    intermediate,
			AmountIn:    amount,
			AmountOut:   first.AmountOut,
			PriceImpact: first.PriceImpact,
			FeeInUSD:    legFeeInUSD(fromPool, from, amount),
		},
		{
			Source:      toPool.Source,
			TokenIn:     intermediate,
			TokenOut:    to,
			AmountIn:    first.AmountOut,
			AmountOut:   second.AmountOut,
			PriceImpact: second.PriceImpact,
			FeeInUSD:    legFeeInUSD(toPool, intermediate, first.AmountOut),
		},
	}

	return &SwapRoute{
		Path:         []string{venueLabel(fromPool, toPool), symbolChain(from, intermediate, to)},
		InputAmount:  amount,
		OutputAmount: second.AmountOut,
		// larger of the two legs, not compounded
		PriceImpact: math.Max(first.PriceImpact, second.PriceImpact),
		FeeInUSD:    legs[0].FeeInUSD + legs[1].FeeInUSD,
		Legs:        legs,
	}
}
