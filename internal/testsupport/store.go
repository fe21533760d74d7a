package testsupport

import (
	"testing"

	"gradectl/internal/config"
	"gradectl/internal/looks"
)

// MustOpenStore opens a looks.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *looks.Store {
	t.Helper()

	store, err := looks.Open(cfg)
	if err != nil {
		t.Fatalf("looks.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
