package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"connectrpc.com/connect"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/config"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/models"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/quoter"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/rpc"
	"github.com/spf13/cobra"
)

// quoteBackend answers one quote request, locally or over the network
type quoteBackend interface {
	FindBestRoute(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error)
}

type localBackend struct {
	server *rpc.QuoteServer
}

func (b localBackend) FindBestRoute(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	resp, err := b.server.FindBestRoute(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote FROM TO [AMOUNT]",
		Short: "Quote the best route between two tokens (address or symbol)",
		Long: "Quote the best route between two tokens.\n" +
			"With --watch, amounts are read line by line from stdin and only the\n" +
			"latest one is answered, an empty line clears the pending quote.",
		Args: cobra.RangeArgs(2, 3),
		RunE: runQuote,
	}

	cmd.Flags().String("registry", "", "registry file or remote source, empty uses the built-in registry")
	cmd.Flags().Duration("latency", router.DefaultLatency, "simulated lookup latency")
	cmd.Flags().Uint32("slippage-bps", router.DefaultSlippageBps, "slippage tolerance in basis points")
	cmd.Flags().String("remote", "", "aggregator RPC base URL (e.g. http://localhost:8080), empty quotes locally")
	cmd.Flags().String("output", "text", "output format (text, json)")
	cmd.Flags().Bool("watch", false, "read amounts from stdin, latest amount wins")

	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	registrySource, _ := cmd.Flags().GetString("registry")
	latency, _ := cmd.Flags().GetDuration("latency")
	slippage, _ := cmd.Flags().GetUint32("slippage-bps")
	remote, _ := cmd.Flags().GetString("remote")
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")

	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		if remote != "" {
			return fmt.Errorf("--watch quotes locally, it cannot be combined with --remote")
		}
		finder, err := newLocalFinder(ctx, registrySource, latency)
		if err != nil {
			return err
		}
		return watchQuotes(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), finder, args[0], args[1], slippage, output)
	}

	if len(args) != 3 {
		return fmt.Errorf("AMOUNT is required unless --watch is set")
	}

	var backend quoteBackend
	if remote != "" {
		backend = rpc.NewQuoteClient(nil, remote)
	} else {
		finder, err := newLocalFinder(ctx, registrySource, latency)
		if err != nil {
			return err
		}
		backend = localBackend{server: rpc.NewQuoteServer(finder, slippage)}
	}

	resp, err := backend.FindBestRoute(ctx, &models.QuoteRequest{
		FromToken:   args[0],
		ToToken:     args[1],
		AmountIn:    args[2],
		SlippageBps: &slippage,
	})
	if err != nil {
		return describeQuoteError(err)
	}
	return printQuote(cmd.OutOrStdout(), resp, output)
}

func newLocalFinder(ctx context.Context, source string, latency time.Duration) (*router.RouteFinder, error) {
	registry, err := config.NewRegistryLoader().Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	index, err := registry.BuildIndex()
	if err != nil {
		return nil, err
	}
	return router.NewRouteFinder(index, router.WithLatency(latency)), nil
}

// watchQuotes answers amounts read from in, dropping answers overtaken by a newer amount
func watchQuotes(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	finder *router.RouteFinder,
	fromRef, toRef string,
	slippage uint32,
	output string,
) error {
	from, err := finder.Index().ResolveToken(fromRef)
	if err != nil {
		return err
	}
	to, err := finder.Index().ResolveToken(toRef)
	if err != nil {
		return err
	}

	session := quoter.NewSession(finder)
	var (
		wg      sync.WaitGroup
		printMu sync.Mutex
	)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			session.Cancel()
			continue
		}

		amount, err := rpc.ParseAmount(line)
		if err != nil {
			log.Warn().Err(err).Msg("skipping amount")
			continue
		}

		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			route, err := session.Request(ctx, from.Address, to.Address, amount)
			if errors.Is(err, quoter.ErrSuperseded) {
				return
			}

			printMu.Lock()
			defer printMu.Unlock()
			if err != nil {
				log.Warn().Err(err).Float64("amount", amount).Msg("cannot quote")
				return
			}
			resp, err := rpc.QuoteFromRoute(route, slippage)
			if err != nil {
				log.Error().Err(err).Msg("failed to render quote")
				return
			}
			if err := printQuote(out, resp, output); err != nil {
				log.Error().Err(err).Msg("failed to print quote")
			}
		}(amount.InexactFloat64())
	}

	wg.Wait()
	return scanner.Err()
}

// describeQuoteError turns the "cannot quote" conditions into short messages
func describeQuoteError(err error) error {
	switch connect.CodeOf(err) {
	case connect.CodeNotFound:
		return fmt.Errorf("no route found: %w", err)
	case connect.CodeFailedPrecondition:
		return fmt.Errorf("insufficient liquidity: %w", err)
	case connect.CodeInvalidArgument:
		return fmt.Errorf("invalid request: %w", err)
	}
	return err
}

func printQuote(w io.Writer, resp *models.QuoteResponse, output string) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Route\t%s\n", strings.Join(resp.Path, "  "))
	fmt.Fprintf(tw, "Amount in\t%s\n", resp.AmountIn)
	fmt.Fprintf(tw, "Amount out\t%s\n", resp.AmountOut)
	fmt.Fprintf(tw, "Minimum out\t%s (%d bps)\n", resp.MinOutputAmount, resp.SlippageBps)
	fmt.Fprintf(tw, "Rate\t%s\n", resp.Rate)
	fmt.Fprintf(tw, "Price impact\t%s%%\n", resp.PriceImpact)
	fmt.Fprintf(tw, "Fee\t$%s\n", resp.FeeInUSD)
	for i, leg := range resp.Legs {
		fmt.Fprintf(tw, "Leg %d\t%s %s %s -> %s %s\n", i+1, leg.Source, leg.AmountIn, leg.SymbolIn, leg.AmountOut, leg.SymbolOut)
	}
	return tw.Flush()
}
