package metadata

import (
	"testing"
	"time"
)

func TestStoreRunCRUD(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open metadata store: %v", err)
	}
	defer store.Close()

	run := RunRecord{
		RunID:     "run-1",
		AppName:   "Books",
		AppPID:    4242,
		Status:    "running",
		StartedAt: time.Now().UTC(),
	}
	if err := store.PutRun(run); err != nil {
		t.Fatalf("failed to put run record: %v", err)
	}

	got, err := store.GetRun("run-1")
	if err != nil {
		t.Fatalf("failed to get run record: %v", err)
	}
	if got.AppName != run.AppName || got.Status != run.Status || got.AppPID != run.AppPID {
		t.Errorf("retrieved run record does not match: %+v", got)
	}

	run.Status = "completed"
	run.Pages = 12
	if err := store.PutRun(run); err != nil {
		t.Fatalf("failed to update run record: %v", err)
	}
	got, err = store.GetRun("run-1")
	if err != nil {
		t.Fatalf("failed to get updated run record: %v", err)
	}
	if got.Status != "completed" || got.Pages != 12 {
		t.Errorf("run record update not persisted: %+v", got)
	}
}

func TestStoreListFramesInOrder(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open metadata store: %v", err)
	}
	defer store.Close()

	// Inserted out of order; iteration must come back in sequence order.
	for _, idx := range []int{3, 1, 2} {
		rec := FrameRecord{
			RunID:       "run-2",
			Index:       idx,
			Path:        "/tmp/frame.png",
			Fingerprint: "00ff",
			Verdict:     "new",
			CapturedAt:  time.Now().UTC(),
		}
		if err := store.PutFrame(rec); err != nil {
			t.Fatalf("failed to put frame %d: %v", idx, err)
		}
	}
	// A frame from another run must not leak into the listing.
	if err := store.PutFrame(FrameRecord{RunID: "run-other", Index: 1}); err != nil {
		t.Fatalf("failed to put foreign frame: %v", err)
	}

	recs, err := store.ListFrames("run-2")
	if err != nil {
		t.Fatalf("failed to list frames: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("listed %d frames, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.Index != i+1 {
			t.Errorf("recs[%d].Index = %d, want %d", i, rec.Index, i+1)
		}
	}
}
