package router

// findDirectRoutes quotes every pool that trades exactly {from, to}, in registry order.
// connected is true when at least one such pool exists, even if none of them
// produced a positive output.
func (f *RouteFinder) findDirectRoutes(from, to Token, amount float64) (routes []*SwapRoute, connected bool) {
	for _, position := range f.index.poolsTouching(from.Address) {
		pool := &f.index.pools[position]
		if !pool.Connects(from.Address, to.Address) {
			continue
		}
		connected = true

		quote, err := CalculateSwapOutput(pool, from.Address, amount)
		if err != nil || quote.AmountOut <= 0 {
			routerLog.Debug().
				Str("source", pool.Source).
				Str("pair", pairLabel(from, to)).
				Msg("Direct pool produced no output")
			continue
		}

		leg := RouteLeg{
			Source:      pool.Source,
			TokenIn:     from,
			TokenOut:    to,
			AmountIn:    amount,
			AmountOut:   quote.AmountOut,
			PriceImpact: quote.PriceImpact,
			FeeInUSD:    legFeeInUSD(pool, from, amount),
		}

		routes = append(routes, &SwapRoute{
			Path:         []string{pool.Source, pairLabel(from, to)},
			InputAmount:  amount,
			OutputAmount: quote.AmountOut,
			PriceImpact:  quote.PriceImpact,
			FeeInUSD:     leg.FeeInUSD,
			Legs:         []RouteLeg{leg},
		})
	}
	return routes, connected
}
