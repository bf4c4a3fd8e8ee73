// Package doctor runs preflight checks so launch failures surface as
// actionable messages before a window ever opens.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/webuidesk/webuidesk/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates a loaded configuration against the host environment.
type Doctor struct {
	cfg *config.Config

	// lookPath is exec.LookPath, replaceable in tests.
	lookPath func(string) (string, error)
}

// New creates a Doctor for the given configuration.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg, lookPath: exec.LookPath}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.checkExecutable(r)
	d.checkPorts(r)
	d.checkPolling(r)
	d.checkLogging(r)
	d.checkPaths(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// checkExecutable verifies the server binary is resolvable. This is the
// failure users hit most, so the message carries install guidance.
func (d *Doctor) checkExecutable(r *Result) {
	exe := d.cfg.Server.Executable
	if exe == "" {
		d.addError(r, "server", "server.executable", "server.executable is required")
		return
	}
	if _, err := d.lookPath(exe); err != nil {
		d.addError(r, "server", "server.executable",
			fmt.Sprintf("executable %q not found in PATH; ensure it is installed (e.g. pip install open-webui)", exe))
	}
	if d.cfg.Server.PortFlag == "" {
		d.addWarning(r, "server", "server.port_flag",
			"port_flag is empty; the port will only be passed via the PORT environment variable")
	}
}

func (d *Doctor) checkPorts(r *Result) {
	p := d.cfg.Port.Preferred
	if p < 1024 || p > 65535 {
		d.addError(r, "port", "port.preferred",
			fmt.Sprintf("preferred port %d outside valid range 1024-65535", p))
	}
	if d.cfg.Port.MaxAttempts < 0 {
		d.addError(r, "port", "port.max_attempts", "max_attempts must not be negative")
	}
	if d.cfg.Port.MaxAttempts == 0 {
		d.addWarning(r, "port", "port.max_attempts",
			"max_attempts is 0 (unbounded); a pathological host could stall allocation forever")
	}
	if !d.cfg.Port.Evict {
		d.addWarning(r, "port", "port.evict",
			"eviction disabled; a busy preferred port always falls back to a random one")
	}
}

func (d *Doctor) checkPolling(r *Result) {
	if d.cfg.Poll.Interval <= 0 {
		d.addError(r, "poll", "poll.interval", "interval must be positive")
	}
	if d.cfg.Poll.AttemptTimeout <= 0 {
		d.addError(r, "poll", "poll.attempt_timeout", "attempt_timeout must be positive")
	}
	if d.cfg.Poll.MaxWait == 0 {
		d.addWarning(r, "poll", "poll.max_wait",
			"max_wait is 0; a server that never comes up will be polled until the window closes")
	}
}

func (d *Doctor) checkLogging(r *Result) {
	switch strings.ToUpper(d.cfg.Log.Level) {
	case "", "DEBUG", "INFO", "WARN", "ERROR":
	default:
		d.addWarning(r, "log", "log.level",
			fmt.Sprintf("unknown log level %q, falling back to INFO", d.cfg.Log.Level))
	}
	switch strings.ToLower(d.cfg.Log.Format) {
	case "", "text", "json":
	default:
		d.addWarning(r, "log", "log.format",
			fmt.Sprintf("unknown log format %q, falling back to text", d.cfg.Log.Format))
	}
}

// checkPaths verifies the directories for writable artifacts exist or can
// be created.
func (d *Doctor) checkPaths(r *Result) {
	if d.cfg.Log.File != "" {
		if err := writableDir(filepath.Dir(d.cfg.Log.File)); err != nil {
			d.addWarning(r, "log", "log.file",
				fmt.Sprintf("log file directory not writable: %v", err))
		}
	}
	if d.cfg.LockPath != "" {
		if err := writableDir(filepath.Dir(d.cfg.LockPath)); err != nil {
			d.addError(r, "lock", "lock_path",
				fmt.Sprintf("lock directory not writable: %v", err))
		}
	}
}

func writableDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// FormatHuman renders a result for terminal output.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid {
		b.WriteString("Status: OK\n")
	} else {
		b.WriteString("Status: FAILED\n")
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  ERROR [%s] %s", e.Category, e.Message)
		if e.Field != "" {
			fmt.Fprintf(&b, " (%s)", e.Field)
		}
		b.WriteString("\n")
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  WARN  [%s] %s", w.Category, w.Message)
		if w.Field != "" {
			fmt.Fprintf(&b, " (%s)", w.Field)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatJSON renders a result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
