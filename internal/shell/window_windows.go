//go:build windows

package shell

import (
	"context"
	"log/slog"

	"github.com/jchv/go-webview2"
)

// OpenWindow opens url in a WebView2 window and blocks until the window is
// closed. Returns ErrNoWindow when the WebView2 runtime is unavailable so
// the caller can fall back to the system browser.
//
// webview2 has no cancellation hook, so ctx cancellation terminates the
// window loop from a watcher goroutine.
func OpenWindow(ctx context.Context, url string, opts WindowOptions, logger *slog.Logger) error {
	w := webview2.New(false)
	if w == nil {
		logger.Warn("failed to create WebView2 window; is the Edge WebView2 Runtime installed?")
		return ErrNoWindow
	}
	defer w.Destroy()

	w.SetTitle(opts.Title)
	w.SetSize(opts.Width, opts.Height, webview2.HintNone)
	w.Navigate(url)

	stop := context.AfterFunc(ctx, w.Terminate)
	defer stop()

	w.Run()
	return ctx.Err()
}
