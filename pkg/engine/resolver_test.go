package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeSelector(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"#email", true},
		{".btn-primary", true},
		{"[name=q]", true},
		{`input[type="email"]`, true},
		{"Submit", false},
		{"the save button", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, looksLikeSelector(tc.target), tc.target)
	}
}

func strategyNames(target string) []string {
	var names []string
	for _, st := range buildStrategies(target) {
		names = append(names, st.name)
	}
	return names
}

func TestBuildStrategiesGenericOrder(t *testing.T) {
	assert.Equal(t, []string{
		"label", "placeholder", "role-textbox", "role-button", "role-link", "free-text",
	}, strategyNames("the greeting message"))
}

func TestBuildStrategiesKeywordSeeding(t *testing.T) {
	names := strategyNames("Submit")
	require.NotEmpty(t, names)
	// Login-keyword-seeded strategy comes before every generic strategy.
	assert.Equal(t, "submit-control", names[0])

	names = strategyNames("the email address field")
	assert.Equal(t, "email-field", names[0])

	names = strategyNames("password")
	assert.Equal(t, "password-field", names[0])

	names = strategyNames("username input")
	assert.Equal(t, "username-field", names[0])
}

func TestBuildStrategiesMultipleSeeds(t *testing.T) {
	// Both seeds present, in the fixed seeding order.
	names := strategyNames("email or username")
	assert.Equal(t, []string{"email-field", "username-field"}, names[:2])
}

func TestSubmitStrategySelectsSubmitControls(t *testing.T) {
	sts := buildStrategies("Sign in")
	require.Equal(t, "submit-control", sts[0].name)
	assert.Contains(t, sts[0].selector, `button[type="submit"]`)
	assert.Contains(t, sts[0].selector, `input[type="submit"]`)
}

func TestTextPatternIsCaseInsensitiveAndEscaped(t *testing.T) {
	assert.Equal(t, "/Save/i", textPattern("Save"))
	assert.Equal(t, `/Save \(all\)/i`, textPattern("Save (all)"))
}

func TestRoleStrategiesUseTextMatching(t *testing.T) {
	sts := buildStrategies("Continue")
	byName := map[string]strategy{}
	for _, st := range sts {
		byName[st.name] = st
	}

	assert.Equal(t, strategyText, byName["role-button"].kind)
	assert.Equal(t, "/Continue/i", byName["role-button"].pattern)
	assert.Equal(t, strategyText, byName["role-link"].kind)
	assert.Equal(t, "a", byName["role-link"].selector)
	assert.Equal(t, strategyLabel, byName["label"].kind)
	assert.Equal(t, strategyCSS, byName["placeholder"].kind)
	assert.Contains(t, byName["placeholder"].selector, `placeholder*="Continue" i`)
}
