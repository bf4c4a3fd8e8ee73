//go:build !windows

package port

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

// hostProbe implements ProcessProbe with lsof and SIGKILL.
type hostProbe struct{}

// NewHostProbe returns the ProcessProbe for the current platform.
func NewHostProbe() ProcessProbe {
	return hostProbe{}
}

func (hostProbe) OwnersOfPort(ctx context.Context, port int) ([]int, error) {
	// lsof exits non-zero when nothing matches; that is the "port free"
	// case, not an error.
	out, err := exec.CommandContext(ctx, "lsof", "-t", "-i:"+strconv.Itoa(port)).Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("lsof: %w", err)
	}
	return parseLsofPIDs(string(out)), nil
}

func (hostProbe) Kill(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
		if err == syscall.ESRCH {
			// Already gone.
			return nil
		}
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}
