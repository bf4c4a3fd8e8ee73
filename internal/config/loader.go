// Package config loads and validates the webuidesk YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Defaults returns the configuration used when no file is present. The shell
// is expected to work with zero configuration against a stock open-webui
// install.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Executable:  "open-webui",
			Args:        []string{"serve"},
			PortFlag:    "--port",
			Host:        "localhost",
			DisableAuth: true,
		},
		Port: PortConfig{
			Preferred:   8080,
			Evict:       true,
			MaxAttempts: 1000,
		},
		Poll: PollConfig{
			Interval:       1 * time.Second,
			AttemptTimeout: 3 * time.Second,
			MaxWait:        2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
			File:   "webui.log",
		},
		Window: WindowConfig{
			Title:  "Open WebUI",
			Width:  1200,
			Height: 800,
		},
		LockPath: filepath.Join(os.TempDir(), "webuidesk.pid"),
	}
}

// Load reads configPath, expands ${VAR} references from the environment,
// unmarshals over Defaults and validates the result.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: check the path or run with --config", absPath)
	}

	cfg := Defaults()
	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", absPath, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", absPath, err)
	}
	return cfg, nil
}

// Discover looks for webuidesk.yaml next to the binary's working directory,
// then under the user config directory. Returns "" when nothing is found,
// which callers treat as "run on Defaults".
func Discover() string {
	candidates := []string{"webuidesk.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "webuidesk", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func Validate(cfg *Config) error {
	if cfg.Server.Executable == "" {
		return fmt.Errorf("server.executable is required")
	}
	if cfg.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if cfg.Port.Preferred < 1024 || cfg.Port.Preferred > 65535 {
		return fmt.Errorf("port.preferred %d outside valid range 1024-65535", cfg.Port.Preferred)
	}
	if cfg.Port.MaxAttempts < 0 {
		return fmt.Errorf("port.max_attempts must not be negative")
	}
	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if cfg.Poll.AttemptTimeout <= 0 {
		return fmt.Errorf("poll.attempt_timeout must be positive")
	}
	if cfg.Poll.MaxWait < 0 {
		return fmt.Errorf("poll.max_wait must not be negative")
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive")
	}
	return nil
}

// expandEnvVars replaces ${VAR} with the environment value. Unset variables
// expand to the empty string, matching shell semantics.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
