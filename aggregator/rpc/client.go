package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/models"
)

// QuoteClient calls a remote aggregator over the Connect protocol
type QuoteClient struct {
	findBestRoute *connect.Client[models.QuoteRequest, models.QuoteResponse]
}

// NewQuoteClient creates a client for the aggregator at baseURL (e.g. "http://localhost:8080").
// A nil httpClient uses http.DefaultClient.
func NewQuoteClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *QuoteClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &QuoteClient{
		findBestRoute: connect.NewClient[models.QuoteRequest, models.QuoteResponse](
			httpClient,
			strings.TrimRight(baseURL, "/")+FindBestRouteProcedure,
			opts...,
		),
	}
}

// FindBestRoute asks the remote aggregator for the best route.
// Failures come back as *connect.Error carrying the server's code.
func (c *QuoteClient) FindBestRoute(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	resp, err := c.findBestRoute.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
