package state

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStoreRecords(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	store.SetPhase(READY)
	store.RecordRender(nil)
	store.RecordRender([]string{"skipped: no font", "skipped: no font", "skipped: no color"})
	store.RecordFailure(errors.New("encode png: disk full"))

	snap := store.Snapshot()
	if snap.Phase != READY {
		t.Fatalf("phase = %v", snap.Phase)
	}
	want := RenderStats{
		Rendered:  2,
		Failed:    1,
		Skipped:   map[string]int64{"skipped: no font": 2, "skipped: no color": 1},
		LastError: "encode png: disk full",
		LastAt:    fixed,
	}
	if diff := cmp.Diff(want, snap.Renders); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"skipped: no color", "skipped: no font"}, snap.SkipReasons()); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}

	snap.Renders.Skipped["skipped: no font"] = 100
	if store.Snapshot().Renders.Skipped["skipped: no font"] != 2 {
		t.Fatal("snapshot shares its map with the store")
	}
}

func TestPhaseJSON(t *testing.T) {
	data, err := json.Marshal(State{Phase: STOPPING})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["phase"] != "stopping" {
		t.Fatalf("phase = %v", raw["phase"])
	}
}

func TestStoreConcurrent(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.RecordRender([]string{"failed"})
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
	if got := store.Snapshot().Renders; got.Rendered != 50 || got.Skipped["failed"] != 50 {
		t.Fatalf("stats = %+v", got)
	}
}
