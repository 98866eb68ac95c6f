package types

import "time"

// RunStatus is the lifecycle state of a batch run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// Run is the only entity with cross-story lifetime. The orchestrator mutates
// it incrementally after every story so an external observer polling the
// record sees monotonically non-decreasing counters.
type Run struct {
	ID               string    `json:"id"`
	Status           RunStatus `json:"status"`
	StoriesTotal     int       `json:"stories_total"`
	StoriesPassed    int       `json:"stories_passed"`
	StoriesFailed    int       `json:"stories_failed"`
	StoriesSkipped   int       `json:"stories_skipped"`
	CurrentStoryID   string    `json:"current_story_id,omitempty"`
	CurrentStoryName string    `json:"current_story_name,omitempty"`
	StartedAt        time.Time `json:"started_at,omitempty"`
	CompletedAt      time.Time `json:"completed_at,omitempty"`
}

// Completed reports how many stories have reached a terminal outcome.
func (r *Run) Completed() int {
	return r.StoriesPassed + r.StoriesFailed + r.StoriesSkipped
}
