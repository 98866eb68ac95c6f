package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fablerun/fable/pkg/types"
)

// StoryMeta is the per-story last-run bookkeeping kept alongside results.
type StoryMeta struct {
	Status    types.StoryStatus
	LastRunAt time.Time
}

// MemoryStore is a concurrency-safe in-memory RunStore. An external actor may
// cancel a run while the orchestrator is executing it, so all access is
// guarded.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]*types.Run
	results map[string][]*types.StoryRecord
	meta    map[string]StoryMeta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*types.Run),
		results: make(map[string][]*types.StoryRecord),
		meta:    make(map[string]StoryMeta),
	}
}

// CreateRun registers a new pending run.
func (m *MemoryStore) CreateRun(run *types.Run) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *run
	m.runs[run.ID] = &copied
}

// CancelRun marks a run cancelled, as an outside actor would.
func (m *MemoryStore) CancelRun(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[id]; ok {
		run.Status = types.RunCancelled
	}
}

func (m *MemoryStore) GetRun(_ context.Context, id string) (*types.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %q not found", id)
	}
	copied := *run
	return &copied, nil
}

func (m *MemoryStore) UpdateRun(_ context.Context, run *types.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.runs[run.ID]
	if !ok {
		return fmt.Errorf("run %q not found", run.ID)
	}
	// A cancellation written by an outside actor must survive progress
	// updates from the orchestrator.
	if existing.Status == types.RunCancelled && run.Status == types.RunRunning {
		status := existing.Status
		copied := *run
		copied.Status = status
		m.runs[run.ID] = &copied
		return nil
	}
	copied := *run
	m.runs[run.ID] = &copied
	return nil
}

func (m *MemoryStore) SaveStoryResult(_ context.Context, runID string, record *types.StoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[runID] = append(m.results[runID], record)
	return nil
}

func (m *MemoryStore) UpdateStoryMeta(_ context.Context, storyID string, status types.StoryStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[storyID] = StoryMeta{Status: status, LastRunAt: at}
	return nil
}

// Results returns the records persisted for a run, in execution order.
func (m *MemoryStore) Results(runID string) []*types.StoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.StoryRecord, len(m.results[runID]))
	copy(out, m.results[runID])
	return out
}

// Meta returns the last-run bookkeeping for a story.
func (m *MemoryStore) Meta(storyID string) (StoryMeta, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.meta[storyID]
	return meta, ok
}
