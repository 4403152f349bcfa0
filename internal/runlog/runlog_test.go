package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndListRuns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	runs := []Run{
		{RunID: "r1", Path: "a.pdf", Company: "örnek ticaret", Status: "SUCCESS", Elapsed: 1200 * time.Millisecond, ProcessedAt: at},
		{RunID: "r1", Path: "b.pdf", Status: "NO_TEXT", Error: "cascade exhausted", ProcessedAt: at.Add(time.Minute)},
		{RunID: "r2", Path: "c.pdf", Status: "SUCCESS", ProcessedAt: at},
	}
	for _, r := range runs {
		if err := store.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got, err := store.ListRuns(ctx, "r1")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].Path != "a.pdf" || got[1].Path != "b.pdf" {
		t.Errorf("order = %s, %s", got[0].Path, got[1].Path)
	}
	if got[0].Company != "örnek ticaret" {
		t.Errorf("company round-trip = %q", got[0].Company)
	}
	if got[0].Elapsed != 1200*time.Millisecond {
		t.Errorf("elapsed = %v", got[0].Elapsed)
	}
	if !got[0].ProcessedAt.Equal(at) {
		t.Errorf("processed_at = %v, want %v", got[0].ProcessedAt, at)
	}
	if got[1].Error != "cascade exhausted" {
		t.Errorf("error = %q", got[1].Error)
	}

	empty, err := store.ListRuns(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Errorf("missing run id: %v, %v", empty, err)
	}
}
