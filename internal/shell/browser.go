package shell

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNoWindow means no embedded window could be created on this host.
var ErrNoWindow = errors.New("no embedded browser window available")

// WindowOptions sizes and titles the shell window.
type WindowOptions struct {
	Title  string
	Width  int
	Height int
}

// OpenBrowser opens url in the user's default browser. Fallback path when
// no embedded window is available.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		// 'start' is a cmd builtin; the empty string is the window title slot.
		cmd = exec.Command("cmd", "/c", "start", "", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		return fmt.Errorf("unsupported platform %q", runtime.GOOS)
	}
	return cmd.Start()
}
