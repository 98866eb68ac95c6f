package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablerun/fable/pkg/types"
)

type fakePageState struct {
	url      string
	visible  map[string]bool
	text     map[string]bool
	urlError error
}

func (f *fakePageState) CurrentURL() (string, error) {
	return f.url, f.urlError
}

func (f *fakePageState) ElementVisible(target string) bool {
	return f.visible[target]
}

func (f *fakePageState) TextVisible(text string) bool {
	return f.text[text]
}

func TestVerifyURLSubstring(t *testing.T) {
	page := &fakePageState{url: "https://x.test/dashboard?x=1"}
	err := EvaluateVerification(page, types.Verification{Type: "url", Expected: "/dashboard"}, zerolog.Nop())
	assert.NoError(t, err)
}

func TestVerifyURLMismatchNamesBothURLs(t *testing.T) {
	page := &fakePageState{url: "https://x.test/login"}
	err := EvaluateVerification(page, types.Verification{Type: "url", Expected: "/dashboard"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dashboard")
	assert.Contains(t, err.Error(), "https://x.test/login")
}

func TestVerifyURLReadFailure(t *testing.T) {
	page := &fakePageState{urlError: assert.AnError}
	err := EvaluateVerification(page, types.Verification{Type: "url", Expected: "/dashboard"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url verification")
}

func TestVerifyElementUsesTargetThenExpected(t *testing.T) {
	page := &fakePageState{visible: map[string]bool{"#banner": true}}

	err := EvaluateVerification(page, types.Verification{Type: "element", Target: "#banner"}, zerolog.Nop())
	assert.NoError(t, err)

	// Expected doubles as a literal selector when target is absent.
	err = EvaluateVerification(page, types.Verification{Type: "element", Expected: "#banner"}, zerolog.Nop())
	assert.NoError(t, err)

	err = EvaluateVerification(page, types.Verification{Type: "element", Target: "#missing"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#missing")
}

func TestVerifyContent(t *testing.T) {
	page := &fakePageState{text: map[string]bool{"Order confirmed": true}}

	err := EvaluateVerification(page, types.Verification{Type: "content", Expected: "Order confirmed"}, zerolog.Nop())
	assert.NoError(t, err)

	err = EvaluateVerification(page, types.Verification{Type: "content", Expected: "Payment declined"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Payment declined")
}

func TestVerifyUnknownTypePasses(t *testing.T) {
	page := &fakePageState{}
	err := EvaluateVerification(page, types.Verification{Type: "visual", Expected: "anything"}, zerolog.Nop())
	assert.NoError(t, err)
}
