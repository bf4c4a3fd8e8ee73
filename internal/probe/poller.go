// Package probe polls a local HTTP endpoint until it is ready.
//
// The child server is expected to be unreachable for a bounded startup
// window, so connection failures and non-200 responses are "not yet ready",
// logged at debug level, never errors. Readiness is exactly one thing:
// status 200 from GET http://host:port/.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultInterval is the pause between attempts.
	DefaultInterval = 1 * time.Second

	// DefaultAttemptTimeout bounds a single GET, separately from the
	// interval: a hung connection must not stall the loop.
	DefaultAttemptTimeout = 3 * time.Second
)

// ErrReadinessTimeout is returned when the overall wait budget elapsed
// without observing a ready response.
var ErrReadinessTimeout = errors.New("server did not become ready in time")

// Result is the outcome of a single attempt. Status is 0 when no HTTP
// response was received at all.
type Result struct {
	Ready  bool
	Status int
	Err    error
}

// Options configures a Poller.
type Options struct {
	Interval       time.Duration
	AttemptTimeout time.Duration

	// MaxWait bounds the whole loop; 0 polls until the context ends.
	MaxWait time.Duration

	// OnAttempt, when set, observes every attempt's Result. Used by the
	// supervisor to publish probe events.
	OnAttempt func(Result)
}

// Poller repeatedly probes one host:port. Safe to use for a single
// PollUntilReady call at a time.
type Poller struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
}

// New creates a Poller.
func New(opts Options, logger *slog.Logger) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	return &Poller{
		opts: opts,
		// Timeout covers the full exchange including body close; redirects
		// are followed, only the final status counts.
		client: &http.Client{Timeout: opts.AttemptTimeout},
		logger: logger,
	}
}

// PollUntilReady probes http://host:port/ on the configured interval until a
// 200 is observed, the context is cancelled, or the MaxWait budget elapses.
// Returns nil on ready, ErrReadinessTimeout on budget exhaustion, or the
// context error on cancellation. Cancellation is observed within one
// interval and stops all further probes.
func (p *Poller) PollUntilReady(ctx context.Context, host string, port int) error {
	var cancel context.CancelFunc
	if p.opts.MaxWait > 0 {
		ctx, cancel = context.WithTimeoutCause(ctx, p.opts.MaxWait, ErrReadinessTimeout)
		defer cancel()
	}

	url := fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprintf("%d", port)))

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		res := p.attempt(ctx, url)
		if p.opts.OnAttempt != nil {
			p.opts.OnAttempt(res)
		}
		if res.Ready {
			p.logger.Info("server is ready", "url", url)
			return nil
		}
		p.logger.Debug("server not available yet, retrying",
			"url", url, "status", res.Status, "error", res.Err)

		select {
		case <-ctx.Done():
			if cause := context.Cause(ctx); errors.Is(cause, ErrReadinessTimeout) {
				return fmt.Errorf("%w (waited %s)", ErrReadinessTimeout, p.opts.MaxWait)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// attempt performs one GET. Only a clean 200 counts as ready.
func (p *Poller) attempt(ctx context.Context, url string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	return Result{Ready: resp.StatusCode == http.StatusOK, Status: resp.StatusCode}
}
