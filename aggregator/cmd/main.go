package main

import (
	"os"
	"time"

	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/quoter"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/rpc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	// Share the logger with the other packages
	rpc.SetLogger(log.With().Str("component", "rpc").Logger())
	router.SetLogger(log)
	quoter.SetLogger(log)
}

func main() {
	root := &cobra.Command{
		Use:          "aggregator",
		Short:        "Swap route aggregator over constant product pools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return setLogLevel(level)
		},
	}

	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error), overrides the config")

	root.AddCommand(newServeCmd())
	root.AddCommand(newQuoteCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setLogLevel sets the global zerolog level, an empty level keeps the current one
func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}
