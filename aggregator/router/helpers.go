package router

import (
	"strings"
)

// pairLabel renders a direct route pair, e.g. "SOL/USDC"
func pairLabel(from, to Token) string {
	return from.Symbol + "/" + to.Symbol
}

// symbolChain renders the tokens a route traverses, e.g. "SOL → JUP → QTC"
func symbolChain(tokens ...Token) string {
	symbols := make([]string, len(tokens))
	for i, token := range tokens {
		symbols[i] = token.Symbol
	}
	return strings.Join(symbols, " → ")
}

// venueLabel joins the venue names of the pools a route uses, e.g. "Raydium, Orca"
func venueLabel(pools ...*LiquidityPool) string {
	sources := make([]string, len(pools))
	for i, pool := range pools {
		sources[i] = pool.Source
	}
	return strings.Join(sources, ", ")
}
