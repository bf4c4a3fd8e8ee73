package config

import "time"

// Config is the complete webuidesk configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Port   PortConfig   `yaml:"port"`
	Poll   PollConfig   `yaml:"poll"`
	Log    LogConfig    `yaml:"log"`
	Window WindowConfig `yaml:"window"`

	// LockPath is the PID lock file guarding against a second shell
	// instance. Defaults to webuidesk.pid in the OS temp directory.
	LockPath string `yaml:"lock_path"`

	// Headless skips the window and shows the terminal status view instead.
	Headless bool `yaml:"headless"`
}

// ServerConfig describes the child web server to launch.
type ServerConfig struct {
	// Executable is resolved via PATH. Defaults to "open-webui".
	Executable string `yaml:"executable"`

	// Args are the base arguments; the resolved port is appended as
	// "<port_flag> <port>" when PortFlag is non-empty.
	Args     []string `yaml:"args"`
	PortFlag string   `yaml:"port_flag"`

	// Host the child binds to and the prober targets. Local only.
	Host string `yaml:"host"`

	// DisableAuth injects WEBUI_AUTH=False so the shell window is the only
	// authentication boundary.
	DisableAuth bool `yaml:"disable_auth"`

	// Env is merged over the inherited environment, after the built-in
	// HOST/PORT/WEBUI_AUTH variables.
	Env map[string]string `yaml:"env"`
}

// PortConfig controls port selection.
type PortConfig struct {
	Preferred int `yaml:"preferred"`

	// Evict kills whatever currently holds the preferred port. Aggressive
	// and on by default to match the upstream launcher behavior.
	Evict bool `yaml:"evict"`

	// MaxAttempts caps the random fallback search. 0 means unbounded.
	MaxAttempts int `yaml:"max_attempts"`
}

// PollConfig controls the readiness probe loop.
type PollConfig struct {
	Interval       time.Duration `yaml:"interval"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// MaxWait bounds the whole wait; 0 polls until the session ends.
	MaxWait time.Duration `yaml:"max_wait"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// WindowConfig controls the shell window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}
