// Package preflight runs the environment checks behind the doctor
// command.
package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"gradectl/internal/config"
	"gradectl/internal/resolve"
	"gradectl/internal/resolve/bridge"
)

// Result reports the outcome of a single check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// DialFunc opens a host connection. Tests substitute a fake.
type DialFunc func(ctx context.Context, socketPath string, timeout time.Duration) (resolve.Host, error)

// DefaultDial connects through the bridge socket.
func DefaultDial(ctx context.Context, socketPath string, timeout time.Duration) (resolve.Host, error) {
	client, err := bridge.DialTimeout(socketPath, timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, dial DialFunc) []Result {
	if cfg == nil {
		return nil
	}
	if dial == nil {
		dial = DefaultDial
	}

	results := []Result{
		CheckBridge(ctx, cfg, dial),
		CheckDirectoryAccess("LUT directory", cfg.Paths.LUTDir),
		CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir),
		CheckScriptingEnv("Scripting API", cfg.Scripting.APIPath, "RESOLVE_SCRIPT_API"),
		CheckScriptingEnv("Scripting library", cfg.Scripting.LibPath, "RESOLVE_SCRIPT_LIB"),
	}
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// CheckBridge dials the bridge socket and asks the host for its
// version string.
func CheckBridge(ctx context.Context, cfg *config.Config, dial DialFunc) Result {
	const name = "Host bridge"

	if cfg.Paths.SocketPath == "" {
		return Result{Name: name, Detail: "socket path not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	host, err := dial(checkCtx, cfg.Paths.SocketPath, cfg.Bridge.DialTimeout())
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.SocketPath, err)}
	}
	defer host.Close()

	version, err := host.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("connected but version query failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: "host version " + version}
}

// CheckDirectoryAccess verifies the directory exists and is
// read/write/searchable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckScriptingEnv verifies the host scripting runtime path from the
// config (or its environment fallback) points at something on disk.
// The bridge script needs these to start inside the host.
func CheckScriptingEnv(name, configured, envVar string) Result {
	path := configured
	source := "config"
	if path == "" {
		path = os.Getenv(envVar)
		source = envVar
	}
	if path == "" {
		return Result{Name: name, Detail: fmt.Sprintf("not set (configure it or export %s)", envVar)}
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (from %s, error: %v)", path, source, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (from %s)", path, source)}
}
