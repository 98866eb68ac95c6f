// Package story loads and validates run manifests: the stories to execute
// plus the target environment they run against.
package story

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fablerun/fable/pkg/types"
)

// Manifest is one runnable batch: a named set of stories and the environment
// (base URL, auth configuration, role credentials) to execute them against.
type Manifest struct {
	Name        string            `yaml:"name"`
	Environment types.Environment `yaml:"environment"`
	Stories     []types.Story     `yaml:"stories"`
}

// LoadManifestFromFile reads and structurally validates a run manifest.
func LoadManifestFromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file %q: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest YAML: %w", err)
	}

	if err := ValidateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}
