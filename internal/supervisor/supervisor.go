// Package supervisor composes port allocation, process spawning and
// readiness polling into a single lifecycle:
//
//	Idle --Start--> Allocating --ok--> Spawning --ok--> Polling --ready--> Ready
//	Allocating --fail--> Failed
//	Spawning   --fail--> Failed
//	Polling    --timeout/fail--> Failed
//	any state  --Stop--> Stopped
//
// A Supervisor is one-shot: after Stop it rejects further Starts and a fresh
// instance is required. Stop is safe from every state, any number of times,
// including before Start, and always terminates the child.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/webuidesk/webuidesk/internal/events"
	"github.com/webuidesk/webuidesk/internal/proc"
)

// State of the lifecycle. Transitions are monotonic except Stop.
type State int

const (
	StateIdle State = iota
	StateAllocating
	StateSpawning
	StatePolling
	StateReady
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAllocating:
		return "Allocating"
	case StateSpawning:
		return "Spawning"
	case StatePolling:
		return "Polling"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrAlreadyStarted is returned by a second Start on the same instance.
	ErrAlreadyStarted = errors.New("supervisor already started")

	// ErrStopped is returned by Start after Stop; supervisors are one-shot.
	ErrStopped = errors.New("supervisor is stopped; create a new instance to restart")
)

// Allocator picks the port the child will bind to.
type Allocator interface {
	Allocate(ctx context.Context, preferred int) (int, error)
}

// Owner spawns and terminates the single child process.
type Owner interface {
	Spawn(ctx context.Context, spec proc.Spec) (int, error)
	Terminate() error
}

// Prober polls the child until it answers HTTP 200.
type Prober interface {
	PollUntilReady(ctx context.Context, host string, port int) error
}

// Config parameterizes a session.
type Config struct {
	// Host the child binds to and the URL is built from. Local only.
	Host string

	// PreferredPort is handed to the allocator.
	PreferredPort int

	// Server describes the child; Host and Port are filled in by the
	// supervisor once the port is resolved.
	Server proc.Spec
}

// Status is a point-in-time snapshot for front ends.
type Status struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	URL       string `json:"url,omitempty"`
	Failure   string `json:"failure,omitempty"`
}

// Supervisor drives one server session. All exported methods are safe for
// concurrent use; the lifecycle itself runs on a single goroutine.
type Supervisor struct {
	cfg       Config
	alloc     Allocator
	owner     Owner
	prober    Prober
	hub       *events.Hub
	logger    *slog.Logger
	sessionID string

	mu      sync.Mutex
	state   State
	url     string
	failure error
	started bool
	cancel  context.CancelFunc

	readyCh  chan string
	doneCh   chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
}

// New creates a Supervisor in state Idle.
func New(cfg Config, alloc Allocator, owner Owner, prober Prober, hub *events.Hub, logger *slog.Logger) *Supervisor {
	id := uuid.NewString()
	return &Supervisor{
		cfg:       cfg,
		alloc:     alloc,
		owner:     owner,
		prober:    prober,
		hub:       hub,
		logger:    logger.With("session_id", id),
		sessionID: id,
		state:     StateIdle,
		readyCh:   make(chan string, 1),
		doneCh:    make(chan struct{}),
	}
}

// SessionID identifies this session in logs and events.
func (s *Supervisor) SessionID() string { return s.sessionID }

// Start begins the allocate → spawn → poll sequence in the background and
// returns immediately. The outcome arrives on Ready or Done. Start is the
// single entry point and may be called once per instance.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)
	return nil
}

// Ready yields the child URL exactly once, when the session reaches Ready.
func (s *Supervisor) Ready() <-chan string { return s.readyCh }

// Done is closed when the session reaches a terminal state (Failed or
// Stopped). A Ready session stays open until Stop.
func (s *Supervisor) Done() <-chan struct{} { return s.doneCh }

// Err returns the failure reason after the session failed, nil otherwise.
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Snapshot returns the current status.
func (s *Supervisor) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		SessionID: s.sessionID,
		State:     s.state.String(),
		URL:       s.url,
	}
	if s.failure != nil {
		st.Failure = s.failure.Error()
	}
	return st
}

// Stop ends the session from any state: cancels an in-flight poll,
// terminates the child unconditionally (a no-op when nothing was spawned)
// and moves to Stopped. Idempotent; at most one termination signal reaches
// the process layer.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()

		// Termination failures are warnings: the child being already gone
		// is the common case on external crashes.
		if err := s.owner.Terminate(); err != nil {
			s.logger.Warn("terminating server process", "error", err)
		}

		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()

		s.logger.Info("supervisor stopped")
		s.publishState(StateStopped)
		s.doneOnce.Do(func() { close(s.doneCh) })
	})
}

// run executes the lifecycle stages. Each failure short-circuits the rest.
func (s *Supervisor) run(ctx context.Context) {
	s.setState(StateAllocating)
	port, err := s.alloc.Allocate(ctx, s.cfg.PreferredPort)
	if err != nil {
		s.fail(ctx, fmt.Errorf("port allocation: %w", err))
		return
	}
	s.logger.Info("port allocated", "port", port)

	s.setState(StateSpawning)
	spec := s.cfg.Server
	spec.Host = s.cfg.Host
	spec.Port = port
	if _, err := s.owner.Spawn(ctx, spec); err != nil {
		s.fail(ctx, err)
		return
	}

	// Stop may have raced the spawn: its Terminate saw no handle yet. Kill
	// the fresh child here so it cannot outlive the session.
	if s.currentState() == StateStopped {
		if err := s.owner.Terminate(); err != nil {
			s.logger.Warn("terminating server process", "error", err)
		}
		return
	}

	s.setState(StatePolling)
	if err := s.prober.PollUntilReady(ctx, s.cfg.Host, port); err != nil {
		s.fail(ctx, err)
		return
	}

	url := fmt.Sprintf("http://%s:%d", s.cfg.Host, port)

	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateReady
	s.url = url
	s.mu.Unlock()

	s.logger.Info("server is ready", "url", url)
	s.publishState(StateReady)
	s.hub.Publish(events.TypeReady, map[string]string{
		"session_id": s.sessionID,
		"url":        url,
	})
	s.readyCh <- url
}

// fail records a terminal failure unless the session was stopped first, in
// which case the error is the cancellation's echo and is dropped.
func (s *Supervisor) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateFailed
	s.failure = err
	s.mu.Unlock()

	s.logger.Error("session failed", "error", err)
	s.publishState(StateFailed)
	s.hub.Publish(events.TypeFailed, map[string]string{
		"session_id": s.sessionID,
		"reason":     err.Error(),
	})
	s.doneOnce.Do(func() { close(s.doneCh) })
}

func (s *Supervisor) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// setState advances a non-terminal transition; terminal states win races.
func (s *Supervisor) setState(next State) {
	s.mu.Lock()
	if s.state == StateStopped || s.state == StateFailed {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("state transition", "state", next.String())
	s.publishState(next)
}

func (s *Supervisor) publishState(st State) {
	s.hub.Publish(events.TypeState, map[string]string{
		"session_id": s.sessionID,
		"state":      st.String(),
	})
}
