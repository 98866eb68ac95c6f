package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/artifact"
	"github.com/fablerun/fable/pkg/browser"
	"github.com/fablerun/fable/pkg/types"
)

// stepRetryDelay separates attempts of a failed step.
const stepRetryDelay = time.Second

// StoryRunner executes one story end to end: optional authentication, the
// sequential step loop with retries, outcome verification, failure-artifact
// capture, and result assembly. Nothing escapes RunStory as a panic or an
// error; every failure mode degrades into the returned result.
type StoryRunner struct {
	uploader artifact.Uploader
	logger   zerolog.Logger

	// Seams for tests; production values are set by NewStoryRunner.
	open       func() (storySession, error)
	retryDelay time.Duration
}

// NewStoryRunner builds a runner that opens one isolated browsing context
// per story from the shared driver.
func NewStoryRunner(driver *browser.Driver, uploader artifact.Uploader, logger zerolog.Logger) *StoryRunner {
	r := &StoryRunner{
		uploader:   uploader,
		logger:     logger,
		retryDelay: stepRetryDelay,
	}
	r.open = func() (storySession, error) {
		sess, err := driver.NewSession()
		if err != nil {
			return nil, err
		}
		return newPageSession(sess, logger), nil
	}
	return r
}

// RunStory drives one story and always returns a result. The browsing
// context is torn down on every exit path, including panics.
func (r *StoryRunner) RunStory(ctx context.Context, story types.Story, env types.Environment, opts types.ExecutionOptions) (result *types.ExecutionResult) {
	start := time.Now()
	logger := r.logger.With().Str("story_id", story.ID).Logger()
	result = &types.ExecutionResult{Passed: true}

	sess, err := r.open()
	if err != nil {
		result.Passed = false
		result.Error = fmt.Sprintf("opening browser session: %v", err)
		result.Duration = time.Since(start)
		return result
	}
	defer sess.Close()
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("Unexpected failure during story execution")
			result.Passed = false
			result.Error = fmt.Sprintf("unexpected failure: %v", rec)
			r.captureFailure(sess, story.ID, opts, result, logger)
		}
		result.ConsoleErrors = sess.ConsoleErrors()
		result.Duration = time.Since(start)
	}()

	if useFormAuth(opts) {
		logger.Info().Msg("Authenticating before story execution")
		if err := sess.Authenticate(env.BaseURL, *opts.Credentials, *opts.AuthConfig); err != nil {
			// Page state is undefined after a failed login, so no
			// artifact is captured here.
			logger.Error().Err(err).Msg("Authentication failed, story aborted")
			result.Passed = false
			result.Error = fmt.Sprintf("authentication failed: %v", err)
			return result
		}
	} else {
		if err := sess.Navigate(env.BaseURL); err != nil {
			logger.Error().Err(err).Msg("Could not open target application")
			result.Passed = false
			result.Error = fmt.Sprintf("opening %s: %v", env.BaseURL, err)
			r.captureFailure(sess, story.ID, opts, result, logger)
			return result
		}
	}

	for i, step := range story.Steps {
		stepLogger := logger.With().Int("step", i+1).Logger()
		stepLogger.Info().Str("action", step.Action).Msg("Executing step")

		stepResult := r.runStep(sess, i+1, step, opts, &result.Retries, stepLogger)
		result.Steps = append(result.Steps, stepResult)

		if !stepResult.Passed {
			// Fail fast: later steps are not attempted.
			result.Passed = false
			result.Error = fmt.Sprintf("step %d failed: %s", i+1, stepResult.Error)
			r.captureFailure(sess, story.ID, opts, result, logger)
			return result
		}
	}

	for i, v := range story.Outcome {
		if err := sess.Verify(v); err != nil {
			logger.Info().Err(err).Int("verification", i+1).Msg("Outcome verification failed")
			result.Passed = false
			result.Error = fmt.Sprintf("verification %d: %v", i+1, err)
			r.captureFailure(sess, story.ID, opts, result, logger)
			return result
		}
	}

	return result
}

// runStep attempts one step up to retryCount+1 times, counting every failed
// attempt into the story's retry total and keeping only the final attempt's
// outcome. index is the step's 1-based position.
func (r *StoryRunner) runStep(sess storySession, index int, step types.Step, opts types.ExecutionOptions, retries *int, logger zerolog.Logger) types.StepResult {
	attempts := opts.RetryCount + 1
	var stepErr error
	var duration time.Duration

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptStart := time.Now()
		stepErr = sess.ExecuteStep(step)
		duration = time.Since(attemptStart)
		if stepErr == nil {
			break
		}
		*retries++
		if attempt < attempts {
			logger.Warn().Err(stepErr).Int("attempt", attempt).Msg("Step failed, retrying")
			time.Sleep(r.retryDelay)
		}
	}

	result := types.StepResult{
		Index:    index,
		Action:   step.Action,
		Passed:   stepErr == nil,
		Duration: duration,
	}
	if stepErr != nil {
		result.Error = stepErr.Error()
	}
	return result
}

// captureFailure takes a best-effort screenshot and hands it to the
// uploader. Upload failures degrade to "no artifact".
func (r *StoryRunner) captureFailure(sess storySession, storyID string, opts types.ExecutionOptions, result *types.ExecutionResult, logger zerolog.Logger) {
	if !opts.ScreenshotOnFailure || result.Screenshot != "" || r.uploader == nil {
		return
	}
	buf, err := sess.Screenshot()
	if err != nil {
		logger.Warn().Err(err).Msg("Could not capture failure screenshot")
		return
	}
	ref, err := r.uploader.Upload(storyID, artifact.Timestamp(time.Now()), buf)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not upload failure screenshot")
		return
	}
	result.Screenshot = ref
}

func useFormAuth(opts types.ExecutionOptions) bool {
	return opts.Credentials != nil && opts.AuthConfig != nil && opts.AuthConfig.Type == types.AuthForm
}
