package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webuidesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "open-webui", cfg.Server.Executable)
	assert.Equal(t, []string{"serve"}, cfg.Server.Args)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.True(t, cfg.Server.DisableAuth)
	assert.Equal(t, 8080, cfg.Port.Preferred)
	assert.True(t, cfg.Port.Evict)
	assert.Equal(t, 1*time.Second, cfg.Poll.Interval)
	assert.NoError(t, Validate(cfg))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  executable: my-server
  args: [start]
  port_flag: "-p"
port:
  preferred: 9000
  evict: false
poll:
  interval: 250ms
  max_wait: 30s
headless: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-server", cfg.Server.Executable)
	assert.Equal(t, []string{"start"}, cfg.Server.Args)
	assert.Equal(t, "-p", cfg.Server.PortFlag)
	assert.Equal(t, 9000, cfg.Port.Preferred)
	assert.False(t, cfg.Port.Evict)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 30*time.Second, cfg.Poll.MaxWait)
	assert.True(t, cfg.Headless)

	// Untouched sections keep their defaults.
	assert.Equal(t, 3*time.Second, cfg.Poll.AttemptTimeout)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("WEBUIDESK_TEST_EXE", "custom-webui")

	path := writeConfig(t, `
server:
  executable: ${WEBUIDESK_TEST_EXE}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-webui", cfg.Server.Executable)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty executable", func(c *Config) { c.Server.Executable = "" }, "server.executable"},
		{"port too low", func(c *Config) { c.Port.Preferred = 80 }, "outside valid range"},
		{"port too high", func(c *Config) { c.Port.Preferred = 70000 }, "outside valid range"},
		{"zero interval", func(c *Config) { c.Poll.Interval = 0 }, "poll.interval"},
		{"negative max wait", func(c *Config) { c.Poll.MaxWait = -time.Second }, "poll.max_wait"},
		{"zero window", func(c *Config) { c.Window.Width = 0 }, "window dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
