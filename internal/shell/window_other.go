//go:build !windows

package shell

import (
	"context"
	"log/slog"

	"github.com/zserge/lorca"
)

// OpenWindow opens url in a Chrome/Edge app window via lorca and blocks
// until the window is closed or ctx is cancelled. Returns ErrNoWindow when
// no compatible browser is installed so the caller can fall back to the
// system browser.
func OpenWindow(ctx context.Context, url string, opts WindowOptions, logger *slog.Logger) error {
	ui, err := lorca.New(url, "", opts.Width, opts.Height)
	if err != nil {
		logger.Warn("failed to launch app window", "error", err)
		return ErrNoWindow
	}
	defer ui.Close()

	select {
	case <-ui.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
