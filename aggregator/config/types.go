package config

import "time"

type RPCAggregatorConfig struct {
	// rpc configs
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`

	// CORS configs
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// rate limiting configs
	RatePerMinute         int `mapstructure:"rate_per_minute"`
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests"`

	// logging: trace, debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	// aggregator configs
	// RegistrySource is a local file or a remote source (https, s3, git::...)
	// holding the token and pool registry. Empty uses the built-in registry.
	RegistrySource     string        `mapstructure:"registry_source"`
	SimulatedLatency   time.Duration `mapstructure:"simulated_latency"`
	DefaultSlippageBps uint32        `mapstructure:"default_slippage_bps"`

	// OpenTelemetry configs
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"` // PROD, DEV, TEST, LOCAL
	EnableTracing  bool   `mapstructure:"enable_tracing"`
	UseOTLPTraces  bool   `mapstructure:"use_otlp_traces"`
	OTLPTracesURL  string `mapstructure:"otlp_traces_url"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	UsePrometheus  bool   `mapstructure:"use_prometheus"`
	UseOTLPMetrics bool   `mapstructure:"use_otlp_metrics"`
	OTLPMetricsURL string `mapstructure:"otlp_metrics_url"`
	EnableLogs     bool   `mapstructure:"enable_logs"`
	UseOTLPLogs    bool   `mapstructure:"use_otlp_logs"`
	OTLPLogsURL    string `mapstructure:"otlp_logs_url"`

	InsecureOTLP bool `mapstructure:"insecure_otlp"`

	// Development mode uses stdout exporters
	DevelopmentMode bool `mapstructure:"development_mode"`
}

// RegistryFile is the on-disk layout of the token and pool registry (TOML or JSON).
type RegistryFile struct {
	Tokens []TokenEntry `toml:"tokens" json:"tokens"`
	Pools  []PoolEntry  `toml:"pools" json:"pools"`
}

type TokenEntry struct {
	Address  string  `toml:"address" json:"address"`
	Symbol   string  `toml:"symbol" json:"symbol"`
	Name     string  `toml:"name" json:"name"`
	Logo     string  `toml:"logo" json:"logo"`
	USDPrice float64 `toml:"usd_price" json:"usd_price"`
}

// PoolEntry references its tokens by address or by symbol.
type PoolEntry struct {
	Source     string  `toml:"source" json:"source"`
	TokenA     string  `toml:"token_a" json:"token_a"`
	TokenB     string  `toml:"token_b" json:"token_b"`
	LiquidityA float64 `toml:"liquidity_a" json:"liquidity_a"`
	LiquidityB float64 `toml:"liquidity_b" json:"liquidity_b"`
	Fee        float64 `toml:"fee" json:"fee"` // percentage
}
