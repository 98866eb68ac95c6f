package engine

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/fablerun/fable/pkg/browser"
	"github.com/fablerun/fable/pkg/types"
)

// successWaitTimeout bounds the wait for a configured success indicator
// after submitting the login form.
const successWaitTimeout = 10 * time.Second

// Broad fallback locators used when the auth config does not pin a selector.
var (
	defaultUsernameSelectors = `input[type="email"], input[name="username"], input[name="email"], input[autocomplete="username"], input[id*="user" i], input[id*="email" i]`
	defaultPasswordSelectors = `input[type="password"], input[name="password"], input[autocomplete="current-password"]`
	defaultSubmitSelectors   = `button[type="submit"], input[type="submit"], button[name*="login" i], button[id*="login" i]`
)

// Authenticator performs a one-shot form login before story execution. Any
// failure is returned as a structured reason and aborts the story before its
// steps run.
type Authenticator struct {
	session *browser.Session
}

// NewAuthenticator binds an authenticator to a session.
func NewAuthenticator(session *browser.Session) *Authenticator {
	return &Authenticator{session: session}
}

// Login resolves the login URL against the base URL, fills the credential
// form, submits it, and waits for the configured success indicator or, when
// none is configured, for the next document to become ready.
func (a *Authenticator) Login(baseURL string, creds types.Credentials, cfg types.AuthConfig) error {
	loginURL, err := resolveLoginURL(baseURL, cfg.LoginURL)
	if err != nil {
		return fmt.Errorf("resolving login url: %w", err)
	}
	if err := a.session.Navigate(loginURL); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}

	if err := a.fill(selectorOr(cfg.UsernameSelector, defaultUsernameSelectors), creds.Username); err != nil {
		return fmt.Errorf("filling username: %w", err)
	}
	if err := a.fill(selectorOr(cfg.PasswordSelector, defaultPasswordSelectors), creds.Password); err != nil {
		return fmt.Errorf("filling password: %w", err)
	}

	submitSel := selectorOr(cfg.SubmitSelector, defaultSubmitSelectors)
	submit, err := a.session.Page().Timeout(probeTimeout).Element(submitSel)
	if err != nil {
		return fmt.Errorf("finding submit control %q: %w", submitSel, err)
	}
	if err := submit.CancelTimeout().Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}

	if cfg.SuccessIndicator != "" {
		page := a.session.Page().Timeout(successWaitTimeout)
		if _, err := page.Element(cfg.SuccessIndicator); err != nil {
			return fmt.Errorf("waiting for success indicator %q: %w", cfg.SuccessIndicator, err)
		}
		return nil
	}
	if err := a.session.WaitReady(); err != nil {
		return fmt.Errorf("waiting for post-login page: %w", err)
	}
	return nil
}

func (a *Authenticator) fill(selector, value string) error {
	el, err := a.session.Page().Timeout(probeTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("locating field %q: %w", selector, err)
	}
	el = el.CancelTimeout()
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func selectorOr(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

// resolveLoginURL supports login URLs given relative to the environment's
// base URL.
func resolveLoginURL(baseURL, loginURL string) (string, error) {
	if loginURL == "" {
		return baseURL, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	ref, err := url.Parse(loginURL)
	if err != nil {
		return "", fmt.Errorf("parsing login url %q: %w", loginURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
