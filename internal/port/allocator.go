// Package port chooses the TCP port the child server binds to.
//
// The allocator prefers a fixed port (8080 by default) so the child URL is
// stable across runs. When the preferred port is busy it evicts the current
// owner — forcefully killing unrelated processes that hold the port, which is
// deliberately aggressive and must be opted out of via Options.Evict — and
// falls back to a uniformly random free port in [1024, 65535] when the
// eviction did not free it.
package port

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"time"
)

const (
	// MinPort and MaxPort bound every port the allocator may return.
	MinPort = 1024
	MaxPort = 65535

	// DefaultPreferred is the port tried first.
	DefaultPreferred = 8080

	// DefaultMaxAttempts caps the random fallback search. The port space
	// is finite so exhaustion is practically impossible, but pathological
	// environments that report every port busy would otherwise loop
	// forever.
	DefaultMaxAttempts = 1000

	dialTimeout = 250 * time.Millisecond
)

// ErrPortUnavailable is returned when the attempt budget ran out without
// finding a free port.
var ErrPortUnavailable = errors.New("no free port available")

// Options configures an Allocator.
type Options struct {
	// Host the availability check dials. Local host names only.
	Host string

	// Evict enables killing whatever process holds the preferred port.
	Evict bool

	// MaxAttempts caps the random search; 0 means unbounded.
	MaxAttempts int
}

// Allocator picks the port for one Start attempt. Each Allocate call is
// independent; no state is held between calls.
type Allocator struct {
	probe  ProcessProbe
	opts   Options
	logger *slog.Logger

	// inUse reports whether host:port currently accepts connections.
	// Overridable in tests.
	inUse func(host string, port int) bool

	// randPort draws a random candidate in [MinPort, MaxPort].
	randPort func() int
}

// NewAllocator creates an Allocator using the given process probe for
// eviction. The probe must not be nil when Options.Evict is set.
func NewAllocator(probe ProcessProbe, opts Options, logger *slog.Logger) *Allocator {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	return &Allocator{
		probe:    probe,
		opts:     opts,
		logger:   logger,
		inUse:    portInUse,
		randPort: func() int { return MinPort + rand.Intn(MaxPort-MinPort+1) },
	}
}

// Allocate returns a port believed free on the local host, preferring the
// given port. The result is always within [MinPort, MaxPort].
func (a *Allocator) Allocate(ctx context.Context, preferred int) (int, error) {
	if preferred < MinPort || preferred > MaxPort {
		return 0, fmt.Errorf("preferred port %d outside valid range %d-%d", preferred, MinPort, MaxPort)
	}

	if !a.inUse(a.opts.Host, preferred) {
		return preferred, nil
	}

	if a.opts.Evict {
		a.logger.Warn("preferred port is in use, attempting to free it", "port", preferred)
		a.evict(ctx, preferred)

		if !a.inUse(a.opts.Host, preferred) {
			return preferred, nil
		}
	}

	a.logger.Warn("preferred port is still in use, selecting a random port", "port", preferred)
	return a.findRandomFree(ctx)
}

// evict kills every process currently listening on the port. Failures are
// logged and swallowed: the caller re-checks the port and falls back.
func (a *Allocator) evict(ctx context.Context, port int) {
	pids, err := a.probe.OwnersOfPort(ctx, port)
	if err != nil {
		a.logger.Error("failed to enumerate processes on port", "port", port, "error", err)
		return
	}
	for _, pid := range pids {
		a.logger.Info("killing process on port", "pid", pid, "port", port)
		if err := a.probe.Kill(pid); err != nil {
			a.logger.Error("failed to kill process on port", "pid", pid, "port", port, "error", err)
		}
	}
}

// findRandomFree draws random candidates until one is free, the context is
// cancelled, or the attempt budget runs out.
func (a *Allocator) findRandomFree(ctx context.Context) (int, error) {
	for attempt := 0; a.opts.MaxAttempts == 0 || attempt < a.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		candidate := a.randPort()
		if !a.inUse(a.opts.Host, candidate) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrPortUnavailable, a.opts.MaxAttempts)
}

// portInUse dials the port and treats a successful connection as "busy".
// Dialing rather than binding matches what the child will experience and
// needs no elevated permissions.
func portInUse(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)), dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
