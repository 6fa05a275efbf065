package router

import (
	"fmt"
	"math"
)

// CalculateSwapOutput simulates selling amountIn of tokenIn into the pool
// using the constant product formula (x + Δx) * (y - Δy) = k.
//
// The pool fee is taken from the gross output. A pool with an empty side
// returns a zero output quote rather than an error, so route search can
// report it as insufficient liquidity.
func CalculateSwapOutput(pool *LiquidityPool, tokenIn string, amountIn float64) (SwapQuote, error) {
	if !isPositiveAmount(amountIn) {
		return SwapQuote{}, fmt.Errorf("%w: amount %v must be a positive finite number", ErrInvalidInput, amountIn)
	}

	reserveIn, reserveOut, ok := pool.reserves(tokenIn)
	if !ok {
		return SwapQuote{}, fmt.Errorf("%w: %s in %s pool", ErrTokenNotInPool, tokenIn, pool.Source)
	}

	quote := SwapQuote{AmountIn: amountIn}
	if reserveIn <= 0 || reserveOut <= 0 {
		return quote, nil
	}

	k := reserveIn * reserveOut
	newReserveIn := reserveIn + amountIn
	newReserveOut := k / newReserveIn

	quote.GrossOut = reserveOut - newReserveOut
	quote.FeeAmount = quote.GrossOut * (pool.Fee / 100)
	quote.AmountOut = quote.GrossOut - quote.FeeAmount

	quote.MidPrice = reserveIn / reserveOut
	if quote.AmountOut > 0 {
		quote.ExecutionPrice = amountIn / quote.AmountOut
		quote.PriceImpact = math.Abs(quote.MidPrice-quote.ExecutionPrice) / quote.MidPrice * 100
	}

	return quote, nil
}

// legFeeInUSD expresses the pool fee paid on a leg in USD: the leg input
// amount valued at the input token reference price times the fee fraction.
func legFeeInUSD(pool *LiquidityPool, tokenIn Token, amountIn float64) float64 {
	return amountIn * tokenIn.USDPrice * (pool.Fee / 100)
}

func isPositiveAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
