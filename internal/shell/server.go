// Package shell presents the supervised server to the user: a small local
// HTTP server with the waiting page and status API, plus the window (or
// browser) that displays it.
package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/webuidesk/webuidesk/internal/supervisor"
)

// StatusFunc yields the supervisor snapshot served at /api/status.
type StatusFunc func() supervisor.Status

// Server is the internal shell HTTP server. It binds an ephemeral localhost
// port so it can never collide with the child server's port.
type Server struct {
	statusFn StatusFunc
	logger   *slog.Logger
	ln       net.Listener
	srv      *http.Server
}

// NewServer binds the listener immediately so URL is valid before Start.
func NewServer(statusFn StatusFunc, logger *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("bind shell listener: %w", err)
	}

	s := &Server{statusFn: statusFn, logger: logger, ln: ln}
	s.srv = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s, nil
}

// URL is the address the window should load.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s", s.ln.Addr().String())
}

// Start serves until ctx is cancelled (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("shell server starting", "url", s.URL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shell server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("shell server: %w", err)
	}
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/status", s.handleStatus)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(waitingPage))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.statusFn()); err != nil {
		s.logger.Error("encode status", "error", err)
	}
}
