package router

// Token is one tradable asset known to the aggregator.
type Token struct {
	// Address is the unique key of the token (base58 mint address)
	Address string
	Symbol  string
	Name    string
	// Logo is a reference to the token image (URL or asset path)
	Logo string
	// USDPrice is the reference price used to express fees in USD.
	// It never takes part in the routing math.
	USDPrice float64
}

// LiquidityPool is a constant product venue for one unordered token pair.
type LiquidityPool struct {
	// Source is the venue name (e.g., "Raydium", "Orca")
	Source     string
	TokenA     string // token address
	TokenB     string // token address
	LiquidityA float64
	LiquidityB float64
	// Fee is the pool fee as a percentage (e.g., 0.3 for 0.3%)
	Fee float64
}

// Contains reports whether the token address is one side of the pool.
func (p *LiquidityPool) Contains(address string) bool {
	return p.TokenA == address || p.TokenB == address
}

// Other returns the address on the opposite side of the given token.
// The second value is false when the token is not part of the pool.
func (p *LiquidityPool) Other(address string) (string, bool) {
	switch address {
	case p.TokenA:
		return p.TokenB, true
	case p.TokenB:
		return p.TokenA, true
	}
	return "", false
}

// Connects reports whether the pool trades exactly the unordered pair {a, b}.
func (p *LiquidityPool) Connects(a, b string) bool {
	return (p.TokenA == a && p.TokenB == b) || (p.TokenA == b && p.TokenB == a)
}

// reserves returns the input and output side reserves for a swap that
// sells tokenIn into the pool.
func (p *LiquidityPool) reserves(tokenIn string) (reserveIn, reserveOut float64, ok bool) {
	switch tokenIn {
	case p.TokenA:
		return p.LiquidityA, p.LiquidityB, true
	case p.TokenB:
		return p.LiquidityB, p.LiquidityA, true
	}
	return 0, 0, false
}

// SwapQuote is the simulated result of selling AmountIn into a single pool.
// Quotes never mutate the pool reserves.
type SwapQuote struct {
	AmountIn float64
	// GrossOut is the constant product output before the pool fee
	GrossOut float64
	// FeeAmount is the part of GrossOut kept by the pool (in the output token)
	FeeAmount float64
	// AmountOut is GrossOut minus FeeAmount
	AmountOut      float64
	MidPrice       float64 // reserveIn / reserveOut before the trade
	ExecutionPrice float64 // AmountIn / AmountOut
	PriceImpact    float64 // percentage
}

// RouteLeg is one pool hop of a SwapRoute.
type RouteLeg struct {
	Source      string
	TokenIn     Token
	TokenOut    Token
	AmountIn    float64
	AmountOut   float64
	PriceImpact float64
	FeeInUSD    float64
}

// SwapRoute is the best route found for one query. It is built fresh for
// every call and never cached.
type SwapRoute struct {
	// Path holds the venue description followed by the symbol chain,
	// e.g. ["Raydium", "SOL/USDC"] or ["Raydium, Orca", "SOL → JUP → QTC"]
	Path         []string
	InputAmount  float64
	OutputAmount float64
	// PriceImpact is a percentage. One-hop routes report the larger leg impact.
	PriceImpact float64
	FeeInUSD    float64
	Legs        []RouteLeg
}

// IsOneHop reports whether the route goes through an intermediate token.
func (r *SwapRoute) IsOneHop() bool {
	return len(r.Legs) > 1
}

// PoolIndex is the read-only lookup structure the RouteFinder searches.
// It is built once from the registry and never modified afterwards.
type PoolIndex struct {
	tokens     map[string]*Token // address -> token
	tokenOrder []string          // addresses in registry order
	symbols    map[string]string // upper case symbol -> address
	pools      []LiquidityPool   // registry order
	tokenPools map[string][]int  // address -> positions in pools, registry order
}
