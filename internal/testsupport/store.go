package testsupport

import (
	"testing"

	"bindery/internal/config"
	"bindery/internal/store"
	"bindery/internal/textutil"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg, textutil.NewNormalizer(textutil.HanOff))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
