package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablerun/fable/pkg/types"
)

const validManifest = `
name: checkout smoke
environment:
  base_url: https://staging.example.test
  auth:
    type: form
    login_url: /login
    success_indicator: "#dashboard"
  credentials:
    admin:
      username: root
      password: hunter2
stories:
  - id: checkout
    name: Checkout flow
    required_role: admin
    steps:
      - action: Navigate to the shop
        value: /shop
      - action: Click the first product
        element: first product card
      - action: Type the quantity
        selector: "#qty"
        value: "2"
    outcome:
      - type: url
        expected: /confirmation
      - type: content
        expected: Order confirmed
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fable.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestFromFile(t *testing.T) {
	m, err := LoadManifestFromFile(writeManifest(t, validManifest))
	require.NoError(t, err)

	assert.Equal(t, "checkout smoke", m.Name)
	assert.Equal(t, "https://staging.example.test", m.Environment.BaseURL)
	require.NotNil(t, m.Environment.Auth)
	assert.Equal(t, types.AuthForm, m.Environment.Auth.Type)
	assert.Equal(t, "/login", m.Environment.Auth.LoginURL)
	assert.Equal(t, "hunter2", m.Environment.Credentials["admin"].Password)

	require.Len(t, m.Stories, 1)
	s := m.Stories[0]
	assert.Equal(t, "checkout", s.ID)
	assert.Equal(t, "admin", s.RequiredRole)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "#qty", s.Steps[2].Selector)
	assert.Equal(t, "#qty", s.Steps[2].Target())
	assert.Equal(t, "first product card", s.Steps[1].Target())
	require.Len(t, s.Outcome, 2)
	assert.Equal(t, types.VerifyURL, s.Outcome[0].Type)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifestFromFile(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadManifestBadYAML(t *testing.T) {
	_, err := LoadManifestFromFile(writeManifest(t, "stories: [whoops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest YAML")
}
