package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablerun/fable/pkg/types"
)

func baseManifest() *Manifest {
	return &Manifest{
		Name:        "smoke",
		Environment: types.Environment{BaseURL: "https://app.test"},
		Stories: []types.Story{
			{
				ID:    "a",
				Name:  "a",
				Steps: []types.Step{{Action: "click the button", Element: "button"}},
				Outcome: []types.Verification{
					{Type: types.VerifyURL, Expected: "/done"},
				},
			},
		},
	}
}

func TestValidateManifestAccepts(t *testing.T) {
	assert.NoError(t, ValidateManifest(baseManifest()))
}

func TestValidateManifestRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Manifest)
		wantErr string
	}{
		{"missing name", func(m *Manifest) { m.Name = "" }, "missing 'name'"},
		{"missing base url", func(m *Manifest) { m.Environment.BaseURL = "" }, "missing 'base_url'"},
		{"bad auth type", func(m *Manifest) {
			m.Environment.Auth = &types.AuthConfig{Type: "saml"}
		}, "invalid type"},
		{"missing story id", func(m *Manifest) { m.Stories[0].ID = "" }, "missing 'id'"},
		{"duplicate story id", func(m *Manifest) {
			m.Stories = append(m.Stories, m.Stories[0])
		}, "duplicate story id"},
		{"story without steps", func(m *Manifest) { m.Stories[0].Steps = nil }, "no steps"},
		{"step without action", func(m *Manifest) { m.Stories[0].Steps[0].Action = "" }, "missing 'action'"},
		{"verification without type", func(m *Manifest) { m.Stories[0].Outcome[0].Type = "" }, "missing 'type'"},
		{"unsupported verification type", func(m *Manifest) { m.Stories[0].Outcome[0].Type = "visual" }, "unsupported type"},
		{"verification without expected", func(m *Manifest) { m.Stories[0].Outcome[0].Expected = "" }, "missing 'expected'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := baseManifest()
			tc.mutate(m)
			err := ValidateManifest(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateManifestAcceptsAllKnownAuthTypes(t *testing.T) {
	for _, at := range []types.AuthType{types.AuthNone, types.AuthBasic, types.AuthForm, types.AuthOAuth} {
		m := baseManifest()
		m.Environment.Auth = &types.AuthConfig{Type: at}
		assert.NoError(t, ValidateManifest(m), string(at))
	}
}
