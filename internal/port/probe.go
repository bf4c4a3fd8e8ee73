package port

import (
	"context"
	"strconv"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_probe.go -package=mocks github.com/webuidesk/webuidesk/internal/port ProcessProbe

// ProcessProbe is the host process-control capability the allocator needs:
// find out who owns a port, and forcefully kill a process by id. Both are
// OS-specific and privileged, so they live behind this interface and are
// stubbed in tests.
type ProcessProbe interface {
	// OwnersOfPort returns the PIDs of processes listening on the given
	// local TCP port. An empty slice with nil error means nobody owns it.
	OwnersOfPort(ctx context.Context, port int) ([]int, error)

	// Kill sends an unconditional, forceful termination to the process.
	Kill(pid int) error
}

// parseLsofPIDs parses `lsof -t -i:PORT` output: one PID per line.
func parseLsofPIDs(out string) []int {
	var pids []int
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if pid, err := strconv.Atoi(line); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids
}

// parseNetstatPIDs parses `netstat -ano` output, keeping the owning PID of
// listening sockets bound to the given port. Lines look like:
//
//	TCP    0.0.0.0:8080    0.0.0.0:0    LISTENING    4312
func parseNetstatPIDs(out string, port int) []int {
	suffix := ":" + strconv.Itoa(port)
	seen := make(map[int]bool)
	var pids []int

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "TCP" {
			continue
		}
		if !strings.HasSuffix(fields[1], suffix) {
			continue
		}
		if !strings.EqualFold(fields[3], "LISTENING") {
			continue
		}
		pid, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil || seen[pid] {
			continue
		}
		seen[pid] = true
		pids = append(pids, pid)
	}
	return pids
}
