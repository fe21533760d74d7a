package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gradectl/internal/config"
	"gradectl/internal/preflight"
	"gradectl/internal/resolve"
	"gradectl/internal/resolve/resolvetest"
)

func fakeDial(host resolve.Host, err error) preflight.DialFunc {
	return func(ctx context.Context, socketPath string, timeout time.Duration) (resolve.Host, error) {
		return host, err
	}
}

func TestCheckBridge(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.SocketPath = "/tmp/bridge.sock"
	cfg.Bridge.DialTimeoutSeconds = 1

	result := preflight.CheckBridge(context.Background(), cfg, fakeDial(resolvetest.NewHost(), nil))
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}

	result = preflight.CheckBridge(context.Background(), cfg, fakeDial(nil, errors.New("connection refused")))
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}

	cfg.Paths.SocketPath = ""
	result = preflight.CheckBridge(context.Background(), cfg, fakeDial(resolvetest.NewHost(), nil))
	if result.Passed {
		t.Fatal("expected failure for unset socket path")
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("LUT directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got %+v", result)
	}

	result = preflight.CheckDirectoryAccess("LUT directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = preflight.CheckDirectoryAccess("LUT directory", file)
	if result.Passed {
		t.Fatal("expected failure for non-directory")
	}
}

func TestCheckScriptingEnv(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckScriptingEnv("Scripting API", dir, "RESOLVE_SCRIPT_API")
	if !result.Passed {
		t.Fatalf("expected pass for configured path, got %+v", result)
	}

	t.Setenv("RESOLVE_SCRIPT_API", dir)
	result = preflight.CheckScriptingEnv("Scripting API", "", "RESOLVE_SCRIPT_API")
	if !result.Passed {
		t.Fatalf("expected pass via env fallback, got %+v", result)
	}

	t.Setenv("RESOLVE_SCRIPT_API", "")
	result = preflight.CheckScriptingEnv("Scripting API", "", "RESOLVE_SCRIPT_API")
	if result.Passed {
		t.Fatal("expected failure when unset everywhere")
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.SocketPath = "/tmp/bridge.sock"
	cfg.Paths.LUTDir = dir
	cfg.Paths.BackupDir = dir
	cfg.Scripting.APIPath = dir
	cfg.Scripting.LibPath = dir
	cfg.Bridge.DialTimeoutSeconds = 1

	results := preflight.RunAll(context.Background(), cfg, fakeDial(resolvetest.NewHost(), nil))
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(results))
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.Paths.BackupDir = filepath.Join(dir, "missing")
	results = preflight.RunAll(context.Background(), cfg, fakeDial(resolvetest.NewHost(), nil))
	if preflight.AllPassed(results) {
		t.Fatal("expected a failing check")
	}
}
