package testsupport

import (
	"path/filepath"
	"testing"

	"gradectl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SocketPath = filepath.Join(base, "bridge.sock")
	cfg.Paths.LUTDir = filepath.Join(base, "luts")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LooksDB = filepath.Join(base, "looks.db")
	cfg.Render.OutputDir = filepath.Join(base, "renders")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

// WithSocketPath overrides the bridge socket location.
func WithSocketPath(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.SocketPath = path
	}
}

// WithPollInterval overrides the render monitor interval.
func WithPollInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Render.PollIntervalSeconds = seconds
	}
}
