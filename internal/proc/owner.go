// Package proc owns the single child server process.
//
// The child is launched with the resolved bind address injected through the
// environment variables the server honors:
//
//	HOST        host the server should bind to
//	PORT        port the server should bind to
//	WEBUI_AUTH  "False" when the shell disables the server's built-in auth
//
// and, when Spec.PortFlag is set, the port is additionally appended as a
// command-line flag (open-webui reads "serve --port N").
package proc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// Environment variables injected into the child. Documented contract with
// the spawned server.
const (
	EnvHost        = "HOST"
	EnvPort        = "PORT"
	EnvDisableAuth = "WEBUI_AUTH"
)

// ErrAlreadyRunning is returned by Spawn while a child is still tracked.
// The supervisor never spawns twice, so hitting this indicates a caller bug.
var ErrAlreadyRunning = errors.New("a child process is already running")

// SpawnError wraps a failed process launch. NotFound distinguishes a missing
// executable from other OS-level start failures so the shell can show
// install guidance instead of a generic error.
type SpawnError struct {
	Executable string
	NotFound   bool
	Err        error
}

func (e *SpawnError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("executable %q not found in PATH", e.Executable)
	}
	return fmt.Sprintf("failed to start %q: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Spec describes the child to launch.
type Spec struct {
	Executable  string
	Args        []string
	PortFlag    string
	Host        string
	Port        int
	DisableAuth bool

	// ExtraEnv is applied last and may override the injected variables.
	ExtraEnv map[string]string
}

// Owner spawns, tracks and terminates exactly one child process. At most one
// live handle exists per Owner; Spawn refuses while one is tracked, and
// Terminate clears it regardless of outcome so repeated calls are no-ops.
type Owner struct {
	logger *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	waitCh chan error
}

// NewOwner creates an Owner.
func NewOwner(logger *slog.Logger) *Owner {
	return &Owner{logger: logger}
}

// Spawn launches the child described by spec and returns its PID. It returns
// as soon as the OS confirms process creation; readiness is the prober's
// concern. The context only bounds the launch itself, not the child's
// lifetime — termination stays under the Owner's control so Stop semantics
// do not depend on context plumbing.
func (o *Owner) Spawn(ctx context.Context, spec Spec) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cmd != nil {
		return 0, ErrAlreadyRunning
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	args := append([]string(nil), spec.Args...)
	if spec.PortFlag != "" {
		args = append(args, spec.PortFlag, strconv.Itoa(spec.Port))
	}

	cmd := exec.Command(spec.Executable, args...)
	cmd.Env = buildEnv(spec)

	o.logger.Info("starting server process",
		"executable", spec.Executable, "args", args, "port", spec.Port)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return 0, &SpawnError{Executable: spec.Executable, NotFound: true, Err: err}
		}
		return 0, &SpawnError{Executable: spec.Executable, Err: err}
	}

	// Reap the child in the background so a crash before Terminate does
	// not leave a zombie behind.
	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	o.cmd = cmd
	o.waitCh = waitCh

	pid := cmd.Process.Pid
	o.logger.Info("server process started", "pid", pid)
	return pid, nil
}

// Terminate force-kills the tracked child. A child that already exited is
// success, not an error. The handle is cleared on completion regardless of
// outcome, so calling Terminate again is a safe no-op.
func (o *Owner) Terminate() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cmd == nil {
		return nil
	}

	pid := o.cmd.Process.Pid
	o.logger.Info("stopping server process", "pid", pid)

	err := o.cmd.Process.Kill()
	// The wait goroutine observes the exit; block until it does so the
	// process is fully gone before the supervisor reports Stopped.
	<-o.waitCh

	o.cmd = nil
	o.waitCh = nil

	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	o.logger.Info("server process terminated", "pid", pid)
	return nil
}

// PID returns the tracked child's PID, if any.
func (o *Owner) PID() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cmd == nil {
		return 0, false
	}
	return o.cmd.Process.Pid, true
}

// buildEnv overlays the bind variables and any extra entries on the current
// process environment.
func buildEnv(spec Spec) []string {
	env := os.Environ()
	env = append(env, EnvHost+"="+spec.Host)
	env = append(env, EnvPort+"="+strconv.Itoa(spec.Port))
	if spec.DisableAuth {
		env = append(env, EnvDisableAuth+"=False")
	}
	for k, v := range spec.ExtraEnv {
		env = append(env, k+"="+v)
	}
	return env
}
