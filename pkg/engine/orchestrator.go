package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/store"
	"github.com/fablerun/fable/pkg/types"
)

// Fixed per-story policy applied by the orchestrator.
const (
	orchestratorRetryCount = 3
	orchestratorScreenshot = true
)

// StoryExecutor runs one story and always returns a result. *StoryRunner is
// the production implementation.
type StoryExecutor interface {
	RunStory(ctx context.Context, story types.Story, env types.Environment, opts types.ExecutionOptions) *types.ExecutionResult
}

// Progress is reported to the caller after every story.
type Progress struct {
	StoryID   string
	StoryName string
	Completed int
	Passed    int
	Failed    int
	Skipped   int
	Total     int
}

// ProgressFunc receives progress updates. May be nil.
type ProgressFunc func(p Progress)

// RunOrchestrator executes the stories of a run strictly sequentially,
// applying role/credential gating, persisting progress after every story,
// and honoring cooperative cancellation at story boundaries.
type RunOrchestrator struct {
	runner   StoryExecutor
	store    store.RunStore
	logger   zerolog.Logger
	progress ProgressFunc
}

// NewRunOrchestrator wires an orchestrator.
func NewRunOrchestrator(runner StoryExecutor, st store.RunStore, logger zerolog.Logger, progress ProgressFunc) *RunOrchestrator {
	return &RunOrchestrator{runner: runner, store: st, logger: logger, progress: progress}
}

// ExecuteRun processes every story of the run in order. Cancellation is
// checked between stories, both on the context and on the externally
// mutable run record; a story already in progress always runs to completion
// first. A single story's failure, or even a panic out of the story runner,
// never aborts the batch.
func (o *RunOrchestrator) ExecuteRun(ctx context.Context, run *types.Run, stories []types.Story, env types.Environment) error {
	logger := o.logger.With().Str("run_id", run.ID).Logger()

	run.Status = types.RunRunning
	run.StartedAt = time.Now()
	run.StoriesTotal = len(stories)
	if err := o.store.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("marking run running: %w", err)
	}

	for _, story := range stories {
		if cancelled, err := o.isCancelled(ctx, run.ID); err != nil {
			return fmt.Errorf("checking run status: %w", err)
		} else if cancelled {
			logger.Info().Msg("Run cancelled, stopping before next story")
			run.Status = types.RunCancelled
			run.CurrentStoryID = ""
			run.CurrentStoryName = ""
			return o.store.UpdateRun(ctx, run)
		}

		run.CurrentStoryID = story.ID
		run.CurrentStoryName = story.Name
		if err := o.store.UpdateRun(ctx, run); err != nil {
			logger.Warn().Err(err).Msg("Could not persist current story marker")
		}

		record := o.executeStory(ctx, story, env, logger)

		switch record.Status {
		case types.StoryPassed:
			run.StoriesPassed++
		case types.StorySkipped:
			run.StoriesSkipped++
		default:
			run.StoriesFailed++
		}

		if err := o.store.SaveStoryResult(ctx, run.ID, record); err != nil {
			logger.Warn().Err(err).Str("story_id", story.ID).Msg("Could not persist story result")
		}
		if err := o.store.UpdateStoryMeta(ctx, story.ID, record.Status, time.Now()); err != nil {
			logger.Warn().Err(err).Str("story_id", story.ID).Msg("Could not update story metadata")
		}
		if err := o.store.UpdateRun(ctx, run); err != nil {
			logger.Warn().Err(err).Msg("Could not persist run counters")
		}
		o.report(run, story)
	}

	run.Status = types.RunCompleted
	run.CompletedAt = time.Now()
	run.CurrentStoryID = ""
	run.CurrentStoryName = ""
	if err := o.store.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("marking run completed: %w", err)
	}
	logger.Info().
		Int("passed", run.StoriesPassed).
		Int("failed", run.StoriesFailed).
		Int("skipped", run.StoriesSkipped).
		Msg("Run completed")
	return nil
}

// executeStory applies the gating policy and invokes the story runner with
// a panic guard, so infrastructure failures in one story degrade to a failed
// record instead of aborting the batch.
func (o *RunOrchestrator) executeStory(ctx context.Context, story types.Story, env types.Environment, logger zerolog.Logger) *types.StoryRecord {
	record := &types.StoryRecord{StoryID: story.ID, StoryName: story.Name}

	opts := types.ExecutionOptions{
		RetryCount:          orchestratorRetryCount,
		ScreenshotOnFailure: orchestratorScreenshot,
	}

	if story.RequiredRole != "" {
		if env.Auth == nil || env.Auth.Type != types.AuthForm {
			record.Status = types.StorySkipped
			record.Reason = fmt.Sprintf("story requires role %q but environment auth is not form-based", story.RequiredRole)
			logger.Info().Str("story_id", story.ID).Str("reason", record.Reason).Msg("Story skipped")
			return record
		}
		creds, ok := env.Credentials[story.RequiredRole]
		if !ok {
			record.Status = types.StorySkipped
			record.Reason = fmt.Sprintf("no credentials configured for required role %q", story.RequiredRole)
			logger.Info().Str("story_id", story.ID).Str("reason", record.Reason).Msg("Story skipped")
			return record
		}
		opts.Credentials = &creds
		opts.AuthConfig = env.Auth
	}

	result := func() (result *types.ExecutionResult) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().Interface("panic", rec).Str("story_id", story.ID).Msg("Story runner panicked")
				result = &types.ExecutionResult{
					Error: fmt.Sprintf("story runner panic: %v", rec),
				}
			}
		}()
		return o.runner.RunStory(ctx, story, env, opts)
	}()

	record.Result = result
	if result.Passed {
		record.Status = types.StoryPassed
	} else {
		record.Status = types.StoryFailed
		record.Reason = result.Error
	}
	return record
}

// isCancelled folds the explicit cancellation signal and the externally
// mutable run status into one boundary check.
func (o *RunOrchestrator) isCancelled(ctx context.Context, runID string) (bool, error) {
	if ctx.Err() != nil {
		return true, nil
	}
	run, err := o.store.GetRun(ctx, runID)
	if err != nil {
		return false, err
	}
	return run.Status == types.RunCancelled, nil
}

func (o *RunOrchestrator) report(run *types.Run, story types.Story) {
	if o.progress == nil {
		return
	}
	o.progress(Progress{
		StoryID:   story.ID,
		StoryName: story.Name,
		Completed: run.Completed(),
		Passed:    run.StoriesPassed,
		Failed:    run.StoriesFailed,
		Skipped:   run.StoriesSkipped,
		Total:     run.StoriesTotal,
	})
}
