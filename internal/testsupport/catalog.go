package testsupport

import (
	"path/filepath"
	"testing"

	"recut/internal/catalog"
	"recut/internal/config"
)

// DefaultSeed returns the repository default source seed for tests.
func DefaultSeed() catalog.Seed {
	return catalog.Seed{
		Sources:       config.DefaultSources(),
		DefaultSource: "YouTube",
	}
}

// MustOpenCatalog opens a temp-backed catalog.Store for tests and registers
// cleanup.
func MustOpenCatalog(t testing.TB) *catalog.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recordings.db")
	store, err := catalog.Open(path, DefaultSeed(), nil)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
