package router

import "errors"

var (
	// ErrInvalidInput is returned for a non-positive or non-finite amount,
	// or when both sides of the swap are the same token.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownToken is returned when a token is not in the registry.
	ErrUnknownToken = errors.New("unknown token")

	// ErrTokenNotInPool is returned when a pool is quoted with a token it does not trade.
	ErrTokenNotInPool = errors.New("token is not part of the pool")

	// ErrNoRouteFound means no pool and no pool pair connects the two tokens.
	ErrNoRouteFound = errors.New("no trade route found")

	// ErrInsufficientLiquidity means routes exist but none of them produces a positive output.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// IsCannotQuote reports whether err is one of the "cannot quote" conditions.
// Callers can present both the same way while keeping the distinct message.
func IsCannotQuote(err error) bool {
	return errors.Is(err, ErrNoRouteFound) || errors.Is(err, ErrInsufficientLiquidity)
}
