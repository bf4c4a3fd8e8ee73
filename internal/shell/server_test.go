package shell

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webuidesk/webuidesk/internal/log"
	"github.com/webuidesk/webuidesk/internal/supervisor"
)

func startShell(t *testing.T, statusFn StatusFunc) *Server {
	t.Helper()

	s, err := NewServer(statusFn, log.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("shell server did not shut down")
		}
	})
	return s
}

func TestServerURLIsLoopback(t *testing.T) {
	s := startShell(t, func() supervisor.Status { return supervisor.Status{State: "Idle"} })
	assert.True(t, strings.HasPrefix(s.URL(), "http://127.0.0.1:"))
}

func TestIndexServesWaitingPage(t *testing.T) {
	s := startShell(t, func() supervisor.Status { return supervisor.Status{State: "Polling"} })

	resp, err := http.Get(s.URL() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Waiting for the server to start")
	assert.Contains(t, string(body), "/api/status")
}

func TestStatusEndpoint(t *testing.T) {
	s := startShell(t, func() supervisor.Status {
		return supervisor.Status{
			SessionID: "abc",
			State:     "Ready",
			URL:       "http://localhost:8080",
		}
	})

	resp, err := http.Get(s.URL() + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got supervisor.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Ready", got.State)
	assert.Equal(t, "http://localhost:8080", got.URL)
	assert.Equal(t, "abc", got.SessionID)
}

func TestStatusReportsFailure(t *testing.T) {
	s := startShell(t, func() supervisor.Status {
		return supervisor.Status{State: "Failed", Failure: `executable "open-webui" not found in PATH`}
	})

	resp, err := http.Get(s.URL() + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got supervisor.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Failed", got.State)
	assert.Contains(t, got.Failure, "not found in PATH")
}
