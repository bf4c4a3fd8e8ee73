// Command webuidesk is a desktop shell for Open WebUI: it launches the
// server as a child process, waits for it to answer HTTP 200, shows it in an
// app window and guarantees the server dies with the session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/webuidesk/webuidesk/internal/config"
	"github.com/webuidesk/webuidesk/internal/doctor"
	"github.com/webuidesk/webuidesk/internal/events"
	"github.com/webuidesk/webuidesk/internal/lock"
	"github.com/webuidesk/webuidesk/internal/log"
	"github.com/webuidesk/webuidesk/internal/port"
	"github.com/webuidesk/webuidesk/internal/probe"
	"github.com/webuidesk/webuidesk/internal/proc"
	"github.com/webuidesk/webuidesk/internal/shell"
	"github.com/webuidesk/webuidesk/internal/supervisor"
	"github.com/webuidesk/webuidesk/internal/tui"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		// Launched without arguments (e.g. from a desktop icon).
		os.Exit(runRun(nil))
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "run":
		os.Exit(runRun(rest))
	case "doctor":
		os.Exit(runDoctor(rest))
	case "version":
		fmt.Printf("webuidesk version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`webuidesk - desktop shell for Open WebUI

Usage:
  webuidesk [command] [flags]

Commands:
  run       Launch the server and open the shell window (default)
  doctor    Validate configuration and host environment
  version   Show version information
  help      Show this help message

Run flags:
  --config PATH   Configuration file (default: discovered webuidesk.yaml)
  --port N        Override the preferred server port
  --headless      Terminal status view instead of a window

Doctor flags:
  --config PATH   Configuration file
  --json          Output in JSON
  --strict        Treat warnings as errors
`)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.Discover()
	}
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	portFlag := fs.Int("port", 0, "Override the preferred server port")
	headless := fs.Bool("headless", false, "Terminal status view instead of a window")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *portFlag != 0 {
		cfg.Port.Preferred = *portFlag
	}
	if *headless {
		cfg.Headless = true
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, logCloser, err := log.New(log.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	logger.Info("webuidesk starting", "version", version)

	pidLock, err := lock.AcquirePIDLock(cfg.LockPath)
	if err != nil {
		logger.Error("another instance appears to be running", "path", cfg.LockPath, "error", err)
		return 1
	}
	defer pidLock.Release()

	hub := events.NewHub()

	allocator := port.NewAllocator(port.NewHostProbe(), port.Options{
		Host:        cfg.Server.Host,
		Evict:       cfg.Port.Evict,
		MaxAttempts: cfg.Port.MaxAttempts,
	}, log.WithComponent(logger, "port"))

	owner := proc.NewOwner(log.WithComponent(logger, "proc"))

	poller := probe.New(probe.Options{
		Interval:       cfg.Poll.Interval,
		AttemptTimeout: cfg.Poll.AttemptTimeout,
		MaxWait:        cfg.Poll.MaxWait,
		OnAttempt: func(r probe.Result) {
			fields := map[string]string{"ready": fmt.Sprintf("%t", r.Ready)}
			if r.Status != 0 {
				fields["status"] = fmt.Sprintf("%d", r.Status)
			}
			hub.Publish(events.TypeProbeAttempt, fields)
		},
	}, log.WithComponent(logger, "probe"))

	sup := supervisor.New(supervisor.Config{
		Host:          cfg.Server.Host,
		PreferredPort: cfg.Port.Preferred,
		Server: proc.Spec{
			Executable:  cfg.Server.Executable,
			Args:        cfg.Server.Args,
			PortFlag:    cfg.Server.PortFlag,
			DisableAuth: cfg.Server.DisableAuth,
			ExtraEnv:    cfg.Server.Env,
		},
	}, allocator, owner, poller, hub, log.WithComponent(logger, "supervisor"))

	// The child must never outlive the session: Stop runs on every exit
	// path, including signals, and is idempotent.
	defer sup.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		sup.Stop()
		cancel()
	}()

	// Subscribe before Start so the front end sees every transition.
	hubCh, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	if err := sup.Start(); err != nil {
		logger.Error("failed to start supervisor", "error", err)
		return 1
	}

	if cfg.Headless {
		return runHeadless(ctx, sup, hubCh, logger)
	}
	return runWindowed(ctx, cfg, sup, logger)
}

// runWindowed serves the waiting page on an internal loopback port and shows
// it in an app window, falling back to the system browser when no embedded
// window is available.
func runWindowed(ctx context.Context, cfg *config.Config, sup *supervisor.Supervisor, logger *slog.Logger) int {
	srv, err := shell.NewServer(sup.Snapshot, log.WithComponent(logger, "shell"))
	if err != nil {
		logger.Error("failed to start shell server", "error", err)
		return 1
	}
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("shell server error", "error", err)
		}
	}()

	err = shell.OpenWindow(ctx, srv.URL(), shell.WindowOptions{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}, log.WithComponent(logger, "shell"))

	switch {
	case err == nil:
		logger.Info("window closed, shutting down")
	case errors.Is(err, shell.ErrNoWindow):
		logger.Warn("no app window available, opening system browser")
		if berr := shell.OpenBrowser(srv.URL()); berr != nil {
			logger.Error("failed to open browser", "error", berr)
			fmt.Fprintf(os.Stderr, "Open %s in your browser\n", srv.URL())
		}
		// With a detached browser there is no close signal to watch; run
		// until interrupted or the supervisor gives up.
		select {
		case <-ctx.Done():
		case <-sup.Done():
			if serr := sup.Err(); serr != nil {
				logger.Error("server failed", "error", serr)
				return 1
			}
		}
	case errors.Is(err, context.Canceled):
		// Shutdown signal closed the window.
	default:
		logger.Error("window error", "error", err)
		return 1
	}

	if serr := sup.Err(); serr != nil {
		return 1
	}
	return 0
}

// runHeadless drives the terminal status view until the user quits.
func runHeadless(ctx context.Context, sup *supervisor.Supervisor, hubCh <-chan events.Event, logger *slog.Logger) int {
	p := tea.NewProgram(tui.New(sup.Snapshot, hubCh))
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		logger.Error("status view error", "error", err)
		return 1
	}
	if serr := sup.Err(); serr != nil {
		logger.Error("server failed", "error", serr)
		return 1
	}
	return 0
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	jsonOut := fs.Bool("json", false, "Output in JSON")
	strict := fs.Bool("strict", false, "Treat warnings as errors")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	result := doctor.New(cfg).Validate()

	if *jsonOut {
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
			return 1
		}
		fmt.Println(out)
	} else {
		fmt.Print(doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	if *strict && len(result.Warnings) > 0 {
		return 1
	}
	return 0
}
