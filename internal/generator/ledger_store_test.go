package generator

import (
	"context"
	"testing"

	"holdwise/internal/store"
	"holdwise/internal/testutil"
)

func TestStoreLedgerRecordsRun(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()

	cfg := testConfig(t, ModeLegacy, t.TempDir())
	cfg.Limit = 120
	cfg.CheckpointEvery = 40
	cfg.Ledger = st
	res := mustRun(t, cfg)

	runs, err := st.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() = %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.Status != store.RunStatusComplete || r.Mode != "legacy" || r.Paytable != "9/6" {
		t.Fatalf("run = %+v", r)
	}
	if r.HandsWritten != 120 || r.CanonicalSolves != res.Solves || r.FinishedAt == nil {
		t.Fatalf("run progress = %+v, result %+v", r, res)
	}
}
