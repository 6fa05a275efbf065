package config

import "github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"

// Mint addresses of the built-in registry.
const (
	SOLAddress  = "So11111111111111111111111111111111111111112"
	USDCAddress = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	JUPAddress  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	QTCAddress  = "F7wixV25bULg4Dc3e279dv2naHCCeh9vxQJN61b1X65N"
	NBLAddress  = "GkGvUYAUQXJXtq2EpuR2FpTKjQGeHuPJkEbYDrKxmStE"
)

// DefaultRegistry returns the built-in registry used when no registry source is configured.
// Every call returns fresh slices.
func DefaultRegistry() *Registry {
	return &Registry{
		Tokens: []router.Token{
			{Address: SOLAddress, Symbol: "SOL", Name: "Solana", Logo: "/tokens/sol.svg", USDPrice: 170},
			{Address: USDCAddress, Symbol: "USDC", Name: "USD Coin", Logo: "/tokens/usdc.svg", USDPrice: 1},
			{Address: JUPAddress, Symbol: "JUP", Name: "Jupiter", Logo: "/tokens/jup.svg", USDPrice: 1.7},
			{Address: QTCAddress, Symbol: "QTC", Name: "Quantum Coin", Logo: "/tokens/qtc.svg", USDPrice: 2},
			{Address: NBLAddress, Symbol: "NBL", Name: "Nebula", Logo: "/tokens/nbl.svg", USDPrice: 4},
		},
		Pools: []router.LiquidityPool{
			{Source: "Raydium", TokenA: SOLAddress, TokenB: USDCAddress, LiquidityA: 50000, LiquidityB: 8500000, Fee: 0.25},
			{Source: "Orca", TokenA: SOLAddress, TokenB: USDCAddress, LiquidityA: 80000, LiquidityB: 13600000, Fee: 0.3},
			{Source: "Raydium", TokenA: SOLAddress, TokenB: JUPAddress, LiquidityA: 20000, LiquidityB: 2000000, Fee: 0.25},
			{Source: "Orca", TokenA: USDCAddress, TokenB: QTCAddress, LiquidityA: 1000000, LiquidityB: 500000, Fee: 0.3},
			{Source: "Raydium", TokenA: USDCAddress, TokenB: NBLAddress, LiquidityA: 800000, LiquidityB: 200000, Fee: 0.25},
			{Source: "Orca", TokenA: JUPAddress, TokenB: QTCAddress, LiquidityA: 750000, LiquidityB: 400000, Fee: 0.3},
		},
	}
}
