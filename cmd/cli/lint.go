package cli

import (
	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/log"
	"github.com/fablerun/fable/pkg/story"
)

// LintCmd validates a run manifest without launching a browser.
type LintCmd struct {
	Manifest string `help:"The run manifest file." default:"fable.yml"`
}

func (l *LintCmd) Run() error {
	router := log.NewRouter(log.NewConsoleSink())
	logger := zerolog.New(router).With().Timestamp().Logger()
	defer router.Close()

	logger.Info().Msgf("Validating %s", l.Manifest)

	manifest, err := story.LoadManifestFromFile(l.Manifest)
	if err != nil {
		logger.Error().Err(err).Msg("Manifest validation failed")
		return err
	}

	logger.Info().Msgf("Manifest %q is valid: %d stories", manifest.Name, len(manifest.Stories))
	return nil
}
