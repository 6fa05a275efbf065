package models

// QuoteRequest - body of the FindBestRoute procedure
type QuoteRequest struct {
	FromToken   string  `json:"from_token"`             // token address or symbol, e.g. "SOL"
	ToToken     string  `json:"to_token"`               // token address or symbol, e.g. "USDC"
	AmountIn    string  `json:"amount_in"`              // decimal string, e.g. "12.5"
	SlippageBps *uint32 `json:"slippage_bps,omitempty"` // if nil the default of 100 (1%) is used
}

// RouteLeg represents one pool hop of a quoted route
type RouteLeg struct {
	Source      string `json:"source"`       // venue name, e.g. "Raydium"
	TokenIn     string `json:"token_in"`     // token address
	TokenOut    string `json:"token_out"`    // token address
	SymbolIn    string `json:"symbol_in"`    // e.g. "SOL"
	SymbolOut   string `json:"symbol_out"`   // e.g. "USDC"
	AmountIn    string `json:"amount_in"`    // decimal string
	AmountOut   string `json:"amount_out"`   // decimal string
	PriceImpact string `json:"price_impact"` // percentage, e.g. "0.45"
	FeeInUSD    string `json:"fee_in_usd"`
}

// QuoteResponse - best route for a QuoteRequest
type QuoteResponse struct {
	Path            []string   `json:"path"`              // ["Orca", "SOL/USDC"]
	FromToken       string     `json:"from_token"`        // resolved token address
	ToToken         string     `json:"to_token"`          // resolved token address
	AmountIn        string     `json:"amount_in"`         // decimal string
	AmountOut       string     `json:"amount_out"`        // decimal string, 6 decimals
	MinOutputAmount string     `json:"min_output_amount"` // amount out after slippage
	SlippageBps     uint32     `json:"slippage_bps"`
	Rate            string     `json:"rate"`         // output tokens per input token
	PriceImpact     string     `json:"price_impact"` // percentage
	FeeInUSD        string     `json:"fee_in_usd"`
	OneHop          bool       `json:"one_hop"`
	Legs            []RouteLeg `json:"legs"`
}

// TokenDetails provides full information about a token
type TokenDetails struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	USDPrice string `json:"usd_price"`
}

// PoolDetails provides full information about a liquidity pool
type PoolDetails struct {
	Source     string `json:"source"`
	TokenA     string `json:"token_a"`
	TokenB     string `json:"token_b"`
	SymbolA    string `json:"symbol_a"`
	SymbolB    string `json:"symbol_b"`
	LiquidityA string `json:"liquidity_a"`
	LiquidityB string `json:"liquidity_b"`
	Fee        string `json:"fee"` // percentage, e.g. "0.3"
}

// TokenList - response of the token listing endpoint
type TokenList struct {
	Tokens []TokenDetails `json:"tokens"`
}

// PoolList - response of the pool listing endpoint
type PoolList struct {
	Pools []PoolDetails `json:"pools"`
}
