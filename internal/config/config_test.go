package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gradectl/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RESOLVE_SCRIPT_API", "/opt/resolve/Developer/Scripting")
	t.Setenv("RESOLVE_SCRIPT_LIB", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantSocket := filepath.Join(tempHome, ".local", "share", "gradectl", "bridge.sock")
	if cfg.Paths.SocketPath != wantSocket {
		t.Fatalf("unexpected socket path: got %q want %q", cfg.Paths.SocketPath, wantSocket)
	}
	if cfg.Paths.BackupDir != filepath.Join(tempHome, ".local", "share", "gradectl", "backups") {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if cfg.Scripting.APIPath != "/opt/resolve/Developer/Scripting" {
		t.Fatalf("expected scripting api path from env, got %q", cfg.Scripting.APIPath)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Render.PollIntervalSeconds != 5 {
		t.Fatalf("unexpected poll interval: %d", cfg.Render.PollIntervalSeconds)
	}
}

func TestLoadParsesAndNormalizesFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
socket_path = "~/run/bridge.sock"
backup_dir = "~/grades/backups"

[render]
default_preset = "ProRes422HQ"
poll_interval_seconds = 2

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to load, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.SocketPath != filepath.Join(tempHome, "run", "bridge.sock") {
		t.Fatalf("tilde not expanded: %q", cfg.Paths.SocketPath)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging fields not canonicalized: %+v", cfg.Logging)
	}
	if cfg.Render.DefaultPreset != "prores422hq" {
		t.Fatalf("preset not lowercased: %q", cfg.Render.DefaultPreset)
	}
	if cfg.Render.PollIntervalSeconds != 2 {
		t.Fatalf("unexpected poll interval: %d", cfg.Render.PollIntervalSeconds)
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected level complaint, got: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.BackupDir, filepath.Dir(cfg.Paths.LooksDB)} {
		info, statErr := os.Stat(dir)
		if statErr != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, statErr)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatal("sample config missing [paths] section")
	}
}
