//go:build windows

package port

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// hostProbe implements ProcessProbe with netstat and taskkill.
type hostProbe struct{}

// NewHostProbe returns the ProcessProbe for the current platform.
func NewHostProbe() ProcessProbe {
	return hostProbe{}
}

func (hostProbe) OwnersOfPort(ctx context.Context, port int) ([]int, error) {
	out, err := exec.CommandContext(ctx, "netstat", "-ano").Output()
	if err != nil {
		return nil, fmt.Errorf("netstat: %w", err)
	}
	return parseNetstatPIDs(string(out), port), nil
}

func (hostProbe) Kill(pid int) error {
	if err := exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid)).Run(); err != nil {
		return fmt.Errorf("taskkill pid %d: %w", pid, err)
	}
	return nil
}
