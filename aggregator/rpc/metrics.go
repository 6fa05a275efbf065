package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aggregator",
		Name:      "quotes_total",
		Help:      "Number of FindBestRoute requests by outcome.",
	}, []string{"outcome"})

	quoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aggregator",
		Name:      "quote_duration_seconds",
		Help:      "Time spent answering FindBestRoute, simulated latency included.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5},
	})

	routeKind = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aggregator",
		Name:      "routes_total",
		Help:      "Returned routes by kind (direct or one_hop) and venue path.",
	}, []string{"kind", "venues"})
)

// quoteOutcome labels for quotesTotal.
const (
	outcomeOK           = "ok"
	outcomeInvalid      = "invalid_argument"
	outcomeNoRoute      = "no_route"
	outcomeInsufficient = "insufficient_liquidity"
	outcomeCanceled     = "canceled"
	outcomeError        = "error"
)
