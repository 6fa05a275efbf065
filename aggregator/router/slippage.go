package router

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultSlippageBps is the slippage tolerance applied when the caller gives none (1%)
const DefaultSlippageBps uint32 = 100

const maxBps = 10000

// CalculateMinOutput calculates the minimum output with slippage tolerance.
// slippageBps is basis points (e.g., 100 = 1%)
// minOutput = expected * (10000 - slippageBps) / 10000
func CalculateMinOutput(expectedOutput decimal.Decimal, slippageBps uint32) (decimal.Decimal, error) {
	if slippageBps > maxBps {
		return decimal.Zero, fmt.Errorf("%w: slippage %d bps exceeds %d", ErrInvalidInput, slippageBps, maxBps)
	}
	if expectedOutput.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative expected output %s", ErrInvalidInput, expectedOutput)
	}

	keep := decimal.NewFromInt(int64(maxBps - slippageBps))
	return expectedOutput.Mul(keep).Div(decimal.NewFromInt(maxBps)), nil
}

// MinOutputAmount applies the slippage tolerance to the route output
func (r *SwapRoute) MinOutputAmount(slippageBps uint32) (decimal.Decimal, error) {
	return CalculateMinOutput(decimal.NewFromFloat(r.OutputAmount), slippageBps)
}

// Rate is the effective price of the route: output tokens per input token
func (r *SwapRoute) Rate() float64 {
	if r.InputAmount <= 0 {
		return 0
	}
	return r.OutputAmount / r.InputAmount
}
