package engine

import (
	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/browser"
	"github.com/fablerun/fable/pkg/types"
)

// storySession is everything the story runner needs from one isolated
// browsing context. Tests substitute fakes; the live implementation is
// pageSession.
type storySession interface {
	Navigate(url string) error
	Authenticate(baseURL string, creds types.Credentials, cfg types.AuthConfig) error
	ExecuteStep(step types.Step) error
	Verify(v types.Verification) error
	Screenshot() ([]byte, error)
	ConsoleErrors() []string
	Close()
}

// pageSession wires the interpreter, resolver, executor, authenticator, and
// verifier onto one browser session.
type pageSession struct {
	session  *browser.Session
	executor *StepExecutor
	auth     *Authenticator
	logger   zerolog.Logger
}

func newPageSession(session *browser.Session, logger zerolog.Logger) *pageSession {
	return &pageSession{
		session:  session,
		executor: NewStepExecutor(session),
		auth:     NewAuthenticator(session),
		logger:   logger,
	}
}

func (p *pageSession) Navigate(url string) error {
	return p.session.Navigate(url)
}

func (p *pageSession) Authenticate(baseURL string, creds types.Credentials, cfg types.AuthConfig) error {
	return p.auth.Login(baseURL, creds, cfg)
}

func (p *pageSession) ExecuteStep(step types.Step) error {
	return p.executor.Execute(step)
}

func (p *pageSession) Verify(v types.Verification) error {
	return EvaluateVerification(p, v, p.logger)
}

func (p *pageSession) Screenshot() ([]byte, error) {
	return p.session.Screenshot()
}

func (p *pageSession) ConsoleErrors() []string {
	return p.session.ConsoleErrors()
}

func (p *pageSession) Close() {
	p.session.Close()
}

// PageState implementation for verification evaluation.

func (p *pageSession) CurrentURL() (string, error) {
	return p.session.CurrentURL()
}

func (p *pageSession) ElementVisible(target string) bool {
	_, err := p.executor.resolver.Resolve(target)
	return err == nil
}

func (p *pageSession) TextVisible(text string) bool {
	r := p.executor.resolver
	el, err := r.probe(strategy{
		name:     "content-text",
		kind:     strategyText,
		selector: "body *",
		pattern:  textPattern(text),
	})
	return err == nil && el != nil
}
