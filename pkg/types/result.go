package types

import "time"

// StepResult records the outcome of the final attempt of one step. Index is
// 1-based, matching the step numbering in log output and failure messages.
type StepResult struct {
	Index    int           `json:"index"`
	Action   string        `json:"action"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// ExecutionResult is the aggregate outcome of one story execution.
//
// HealProposal is reserved for a future auto-repair suggestion and is never
// populated by the engine.
type ExecutionResult struct {
	Passed        bool          `json:"passed"`
	Duration      time.Duration `json:"duration"`
	Steps         []StepResult  `json:"steps"`
	Error         string        `json:"error,omitempty"`
	Screenshot    string        `json:"screenshot,omitempty"`
	ConsoleErrors []string      `json:"console_errors,omitempty"`
	Retries       int           `json:"retries"`
	HealProposal  string        `json:"heal_proposal,omitempty"`
}

// StoryStatus is the orchestrator-level outcome class of one story within a
// run. Skipped is a distinct class, not a failure.
type StoryStatus string

const (
	StoryPassed  StoryStatus = "passed"
	StoryFailed  StoryStatus = "failed"
	StorySkipped StoryStatus = "skipped"
)

// StoryRecord is what the orchestrator persists per story: the outcome class,
// a human-readable reason for skips and unexpected failures, and the full
// execution result when the story actually ran.
type StoryRecord struct {
	StoryID   string           `json:"story_id"`
	StoryName string           `json:"story_name"`
	Status    StoryStatus      `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Result    *ExecutionResult `json:"result,omitempty"`
}
