// Package store defines the persistence collaborator contract the run
// orchestrator writes through. The engine owns the shape of the data, not its
// storage; the in-memory implementation backs the CLI and tests.
package store

import (
	"context"
	"time"

	"github.com/fablerun/fable/pkg/types"
)

// RunStore is everything the orchestrator needs from persistence: polling
// run status for external cancellation, writing run progress, and recording
// per-story outcomes.
type RunStore interface {
	GetRun(ctx context.Context, id string) (*types.Run, error)
	UpdateRun(ctx context.Context, run *types.Run) error
	SaveStoryResult(ctx context.Context, runID string, record *types.StoryRecord) error
	UpdateStoryMeta(ctx context.Context, storyID string, status types.StoryStatus, at time.Time) error
}
