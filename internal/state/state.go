package state

import (
	"sort"
	"sync"
	"time"
)

type Phase int

const (
	BOOTING Phase = iota
	READY
	STOPPING
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case READY:
		return "ready"
	case STOPPING:
		return "stopping"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// RenderStats counts cover requests since start.
type RenderStats struct {
	Rendered int64 `json:"rendered"`
	Failed   int64 `json:"failed"`
	// Skipped counts cover parts left undrawn, by reason.
	Skipped   map[string]int64 `json:"skipped"`
	LastError string           `json:"lastError,omitempty"`
	LastAt    time.Time        `json:"lastAt,omitzero"`
}

type State struct {
	Phase   Phase       `json:"phase"`
	Started time.Time   `json:"started"`
	Renders RenderStats `json:"renders"`
}

type Store struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING, Started: time.Now()}, now: time.Now}
}

// Snapshot returns a copy that is safe to use after the store changes.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := store.state
	out.Renders.Skipped = make(map[string]int64, len(store.state.Renders.Skipped))
	for k, v := range store.state.Renders.Skipped {
		out.Renders.Skipped[k] = v
	}
	return out
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// RecordRender counts a finished cover and the reasons of any parts that
// were skipped while drawing it.
func (store *Store) RecordRender(skipped []string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Renders.Rendered++
	store.state.Renders.LastAt = store.now()
	if len(skipped) == 0 {
		return
	}
	if store.state.Renders.Skipped == nil {
		store.state.Renders.Skipped = make(map[string]int64)
	}
	for _, reason := range skipped {
		store.state.Renders.Skipped[reason]++
	}
}

func (store *Store) RecordFailure(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Renders.Failed++
	store.state.Renders.LastAt = store.now()
	if err != nil {
		store.state.Renders.LastError = err.Error()
	}
}

// SkipReasons lists the reasons in the snapshot, sorted.
func (s State) SkipReasons() []string {
	out := make([]string, 0, len(s.Renders.Skipped))
	for k := range s.Renders.Skipped {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
