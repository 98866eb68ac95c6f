package story

import (
	"fmt"

	"github.com/fablerun/fable/pkg/types"
)

// knownVerificationTypes are the outcome assertions the engine implements.
// The evaluator tolerates unknown types at runtime, but the linter flags
// them: a silently-passing verification is almost always an authoring
// mistake.
var knownVerificationTypes = map[string]bool{
	types.VerifyURL:     true,
	types.VerifyElement: true,
	types.VerifyContent: true,
}

// ValidateManifest checks manifest-level fields: name, environment, story
// and step completeness, id uniqueness, and verification shape.
func ValidateManifest(m *Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("manifest is missing 'name'")
	}
	if m.Environment.BaseURL == "" {
		return fmt.Errorf("environment is missing 'base_url'")
	}
	if m.Environment.Auth != nil {
		switch m.Environment.Auth.Type {
		case types.AuthNone, types.AuthBasic, types.AuthForm, types.AuthOAuth:
		default:
			return fmt.Errorf("environment auth has invalid type %q", m.Environment.Auth.Type)
		}
	}

	storyIDs := make(map[string]bool)
	for i, s := range m.Stories {
		if s.ID == "" {
			return fmt.Errorf("story %d is missing 'id'", i)
		}
		if storyIDs[s.ID] {
			return fmt.Errorf("duplicate story id: %q", s.ID)
		}
		storyIDs[s.ID] = true

		if err := validateStory(s); err != nil {
			return err
		}
	}
	return nil
}

func validateStory(s types.Story) error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("story %q has no steps", s.ID)
	}
	for i, step := range s.Steps {
		if step.Action == "" {
			return fmt.Errorf("story %q step %d is missing 'action'", s.ID, i)
		}
	}
	for i, v := range s.Outcome {
		if v.Type == "" {
			return fmt.Errorf("story %q verification %d is missing 'type'", s.ID, i)
		}
		if !knownVerificationTypes[v.Type] {
			return fmt.Errorf("story %q verification %d has unsupported type %q", s.ID, i, v.Type)
		}
		if v.Expected == "" {
			return fmt.Errorf("story %q verification %d is missing 'expected'", s.ID, i)
		}
	}
	return nil
}
