// Package launcher makes the target application reachable before any
// browser work starts: it spawns the configured app command when one is set
// and polls the base URL until it answers or the startup window expires.
package launcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/config"
)

const (
	// StartupWindow bounds how long we wait for the app to come up.
	StartupWindow = 60 * time.Second

	// pollInterval is the fixed delay between reachability probes.
	pollInterval = 1 * time.Second
)

// StartupTimeoutError reports that the base URL never became reachable
// within the startup window.
type StartupTimeoutError struct {
	BaseURL string
	Window  time.Duration
}

func (e *StartupTimeoutError) Error() string {
	return fmt.Sprintf("app at %s not reachable within %s", e.BaseURL, e.Window)
}

// App is a spawned target application process. A nil *App is a valid no-op
// handle, returned when the config declares no command.
type App struct {
	cmd *exec.Cmd
	log *logrus.Entry
}

// Ensure makes the target application reachable. When the config declares a
// command, it is spawned with the configured working directory, the parent's
// environment and inherited standard streams. The base URL is then polled
// with GET requests every second for up to 60 seconds; an app that never
// answers yields a *StartupTimeoutError. Without a base URL there is nothing
// to poll and Ensure returns immediately after any spawn.
func Ensure(ctx context.Context, app config.App, log *logrus.Entry) (*App, error) {
	var spawned *App

	if app.Command != "" {
		cmd := exec.Command("sh", "-c", app.Command)
		cmd.Dir = app.Cwd
		cmd.Env = os.Environ()
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		log.WithFields(logrus.Fields{"command": app.Command, "cwd": app.Cwd}).Info("starting app")
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start app command: %w", err)
		}
		spawned = &App{cmd: cmd, log: log}
	}

	if app.BaseURL == "" {
		return spawned, nil
	}

	if err := WaitReachable(ctx, app.BaseURL, StartupWindow); err != nil {
		if spawned != nil {
			spawned.Stop()
		}
		return nil, err
	}
	return spawned, nil
}

// WaitReachable polls baseURL until any HTTP response arrives. Response
// status does not matter, only that something answered.
func WaitReachable(ctx context.Context, baseURL string, window time.Duration) error {
	client := &http.Client{Timeout: pollInterval}
	deadline := time.Now().Add(window)

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return fmt.Errorf("probe %s: %w", baseURL, err)
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			return &StartupTimeoutError{BaseURL: baseURL, Window: window}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Stop signals the spawned process to terminate. Safe on a nil App. Errors
// are logged, never returned; cleanup must not mask the primary failure.
func (a *App) Stop() {
	if a == nil || a.cmd == nil || a.cmd.Process == nil {
		return
	}
	if err := a.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		a.log.WithError(err).Warn("failed to signal app process")
		return
	}
	// Reap the child so it does not linger as a zombie.
	go a.cmd.Wait()
}
