package testsupport

import (
	"context"
	"testing"

	"github.com/anmol3478/podverification/internal/bench"
	"github.com/anmol3478/podverification/internal/config"
	"github.com/anmol3478/podverification/internal/report"
)

// MustOpenStore opens a report.Store under the config's reports directory and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *report.Store {
	t.Helper()

	store, err := report.Open(cfg.Reports.Dir)
	if err != nil {
		t.Fatalf("report.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveRun persists a benchmark run for tests using the provided store.
func SaveRun(t testing.TB, store *report.Store, run *bench.Run) {
	t.Helper()

	if err := store.Save(context.Background(), run); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
}
