package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/artifact"
	"github.com/fablerun/fable/pkg/browser"
	"github.com/fablerun/fable/pkg/engine"
	"github.com/fablerun/fable/pkg/log"
	"github.com/fablerun/fable/pkg/security"
	"github.com/fablerun/fable/pkg/store"
	"github.com/fablerun/fable/pkg/story"
	"github.com/fablerun/fable/pkg/types"
)

// RunCmd executes a run manifest against its target environment.
type RunCmd struct {
	Manifest        string `help:"The run manifest file." default:"fable.yml"`
	ArtifactDir     string `help:"Directory for failure screenshots." default:".fable/artifacts"`
	ArtifactBaseURL string `help:"Public base URL prefixed onto artifact references." default:""`
	Headful         bool   `help:"Run the browser with a visible window."`
}

func (r *RunCmd) Run() error {
	runID := uuid.New().String()

	logsDir := ".fable/logs"
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs directory %q: %w", logsDir, err)
	}
	logFilePath := filepath.Join(logsDir, runID+".json")
	fileSink, err := log.NewFileSink(logFilePath)
	if err != nil {
		return fmt.Errorf("creating file log sink: %w", err)
	}

	router := log.NewRouter(log.NewConsoleSink(), fileSink)
	logger := zerolog.New(router).With().Timestamp().Logger()

	defer func() {
		if err := router.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error during log shutdown: %v\n", err)
		}
	}()

	logger.Info().Str("run_id", runID).Msgf("Starting run, logs at %q", logFilePath)

	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("No .env file found, relying on real ENV")
	}

	manifest, err := story.LoadManifestFromFile(r.Manifest)
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to load manifest %q", r.Manifest)
		return err
	}
	logger.Info().Msgf("Loaded manifest %q with %d stories", manifest.Name, len(manifest.Stories))

	if err := decryptCredentials(&manifest.Environment); err != nil {
		logger.Error().Err(err).Msg("Could not decrypt environment credentials")
		return err
	}
	router.SetRedactor(security.NewRedactor(manifest.Environment.Credentials))

	driver := browser.NewDriver(browser.Options{Headless: !r.Headful})
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Warn().Err(err).Msg("Browser shutdown reported an error")
		}
	}()

	uploader := artifact.NewLocalStore(r.ArtifactDir, r.ArtifactBaseURL)
	runner := engine.NewStoryRunner(driver, uploader, logger)

	runStore := store.NewMemoryStore()
	run := &types.Run{ID: runID, Status: types.RunPending}
	runStore.CreateRun(run)

	progress := func(p engine.Progress) {
		logger.Info().
			Str("story", p.StoryName).
			Int("completed", p.Completed).
			Int("total", p.Total).
			Int("passed", p.Passed).
			Int("failed", p.Failed).
			Int("skipped", p.Skipped).
			Msg("Progress")
	}
	orchestrator := engine.NewRunOrchestrator(runner, runStore, logger, progress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	if err := orchestrator.ExecuteRun(ctx, run, manifest.Stories, manifest.Environment); err != nil {
		logger.Error().Err(err).Msg("Run aborted")
		return err
	}

	logger.Info().
		Str("status", string(run.Status)).
		Dur("elapsed", time.Since(started)).
		Msgf("Run finished: %d passed, %d failed, %d skipped", run.StoriesPassed, run.StoriesFailed, run.StoriesSkipped)

	if run.StoriesFailed > 0 {
		return fmt.Errorf("%d of %d stories failed", run.StoriesFailed, run.StoriesTotal)
	}
	return nil
}

// decryptCredentials replaces encrypted credential fields in place. Values
// that do not carry the four-field ciphertext layout are taken as plaintext,
// which keeps local manifests usable without a secret key.
func decryptCredentials(env *types.Environment) error {
	secret := os.Getenv("FABLE_SECRET_KEY")
	for role, creds := range env.Credentials {
		decrypted, err := decryptValue(creds.Username, secret, role, "username")
		if err != nil {
			return err
		}
		creds.Username = decrypted

		decrypted, err = decryptValue(creds.Password, secret, role, "password")
		if err != nil {
			return err
		}
		creds.Password = decrypted

		env.Credentials[role] = creds
	}
	return nil
}

func decryptValue(value, secret, role, field string) (string, error) {
	if !security.IsEncrypted(value) {
		return value, nil
	}
	if secret == "" {
		return "", fmt.Errorf("credential %s for role %q is encrypted but FABLE_SECRET_KEY is not set", field, role)
	}
	decrypted, err := security.Decrypt(value, secret)
	if err != nil {
		return "", fmt.Errorf("decrypting %s for role %q: %w", field, role, err)
	}
	return decrypted, nil
}
