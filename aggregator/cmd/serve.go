package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/config"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/rpc"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quote RPC server",
		RunE:  runServe,
	}
	cmd.Flags().String("config-rpc", "", "config file for the rpc server, empty reads AGGREGATOR_* env vars")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config-rpc")

	var pathArg *string
	if configPath != "" {
		pathArg = &configPath
	}

	rpcConfig, err := config.LoadRPCAggregatorConfig(pathArg)
	if err != nil {
		return fmt.Errorf("failed to load RPC config: %w", err)
	}

	// the --log-level flag wins over the config
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel == "" {
		if err := setLogLevel(rpcConfig.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}

	log.Info().
		Str("rpc_config", configPath).
		Str("registry", registryName(rpcConfig.RegistrySource)).
		Msg("Starting Spectra's swap aggregator")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := config.NewRegistryLoader().Load(ctx, rpcConfig.RegistrySource)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	log.Info().
		Int("tokens", len(registry.Tokens)).
		Int("pools", len(registry.Pools)).
		Msg("Loaded registry")

	index, err := registry.BuildIndex()
	if err != nil {
		return err
	}

	finder := router.NewRouteFinder(index, router.WithLatency(rpcConfig.SimulatedLatency))

	server, err := rpc.NewServer(ctx, buildServerConfig(rpcConfig), finder)
	if err != nil {
		return fmt.Errorf("failed to create RPC server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// buildServerConfig converts the loaded RPCAggregatorConfig to rpc.ServerConfig
func buildServerConfig(c *config.RPCAggregatorConfig) *rpc.ServerConfig {
	ratePerMinute := c.RatePerMinute
	maxConcurrent := c.MaxConcurrentRequests

	otelConfig := rpc.DefaultOTelConfig()
	otelConfig.ServiceName = c.ServiceName
	otelConfig.ServiceVersion = c.ServiceVersion
	otelConfig.Environment = c.Environment
	otelConfig.EnableTracing = c.EnableTracing
	otelConfig.UseOTLPTraces = c.UseOTLPTraces
	otelConfig.EnableMetrics = c.EnableMetrics
	otelConfig.UsePrometheus = c.UsePrometheus
	otelConfig.UseOTLPMetrics = c.UseOTLPMetrics
	otelConfig.EnableLogs = c.EnableLogs
	otelConfig.UseOTLPLogs = c.UseOTLPLogs
	otelConfig.InsecureOTLP = c.InsecureOTLP
	otelConfig.DevelopmentMode = c.DevelopmentMode
	if c.OTLPTracesURL != "" {
		otelConfig.OTLPTracesURL = c.OTLPTracesURL
	}
	if c.OTLPMetricsURL != "" {
		otelConfig.OTLPMetricsURL = c.OTLPMetricsURL
	}
	if c.OTLPLogsURL != "" {
		otelConfig.OTLPLogsURL = c.OTLPLogsURL
	}

	return &rpc.ServerConfig{
		Address:               fmt.Sprintf("%s:%d", c.Host, c.Port),
		AllowedOrigins:        c.AllowedOrigins,
		EnableMetrics:         true,
		RatePerMinute:         &ratePerMinute,
		MaxConcurrentRequests: &maxConcurrent,
		DefaultSlippageBps:    c.DefaultSlippageBps,
		OTelConfig:            otelConfig,
	}
}

func registryName(source string) string {
	if source == "" {
		return "built-in"
	}
	return source
}
