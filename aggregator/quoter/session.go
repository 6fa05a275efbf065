package quoter

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cogwheel-Validator/spectra-launchpad/aggregator/router"
	"github.com/rs/zerolog"
)

var quoterLog zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	quoterLog = zerolog.New(out).With().Timestamp().Str("component", "quoter").Logger()
}

// SetLogger replaces the quoter logger
func SetLogger(l zerolog.Logger) {
	quoterLog = l.With().Str("component", "quoter").Logger()
}

// ErrSuperseded is returned to a caller whose request was overtaken by a newer one.
var ErrSuperseded = errors.New("quote superseded by a newer request")

// RouteFinder is the lookup a Session drives, *router.RouteFinder satisfies it.
type RouteFinder interface {
	FindBestRoute(ctx context.Context, fromAddress, toAddress string, amount float64) (*router.SwapRoute, error)
}

// Session serializes quote requests coming from one user. Only the latest
// request may deliver a result, older in-flight lookups are canceled and
// their results discarded.
type Session struct {
	finder RouteFinder

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation atomic.Uint64
}

// NewSession creates a session over the finder
func NewSession(finder RouteFinder) *Session {
	return &Session{finder: finder}
}

// Request starts a lookup and blocks until it resolves. Starting a request
// cancels the one before it. If a newer request starts before this one
// resolves, the result is dropped and ErrSuperseded is returned.
func (s *Session) Request(ctx context.Context, fromAddress, toAddress string, amount float64) (*router.SwapRoute, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	gen := s.generation.Add(1)
	s.mu.Unlock()

	route, err := s.finder.FindBestRoute(ctx, fromAddress, toAddress, amount)

	if current := s.generation.Load(); current != gen {
		quoterLog.Debug().
			Uint64("generation", gen).
			Uint64("current", current).
			Msg("dropping stale quote")
		return nil, ErrSuperseded
	}
	return route, err
}

// Cancel aborts the in-flight request, if any. Its caller receives ErrSuperseded.
// Used when the input is cleared and no quote should be shown.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation.Add(1)
}

// Generation returns the number of requests and cancels seen so far
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}
