package browser

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// navigateTimeout bounds a single page load so one dead target cannot hang a
// whole run.
const navigateTimeout = 30 * time.Second

// Session is one story's isolated browsing context: an incognito browser
// context with a single page and a console listener collecting error-level
// messages for the session lifetime.
type Session struct {
	browser *rod.Browser
	page    *rod.Page

	mu            sync.Mutex
	consoleErrors []string
}

func newSession(b *rod.Browser, opts Options) (*Session, error) {
	incognito, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		page.Close()
		incognito.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	s := &Session{browser: incognito, page: page}

	// Subscribe before returning so errors logged during the first
	// navigation cannot slip past the listener.
	wait := page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		if e.Type != proto.RuntimeConsoleAPICalledTypeError {
			return
		}
		var parts []string
		for _, arg := range e.Args {
			parts = append(parts, arg.Value.String())
		}
		s.mu.Lock()
		s.consoleErrors = append(s.consoleErrors, strings.Join(parts, " "))
		s.mu.Unlock()
	})
	go wait()

	return s, nil
}

// Page exposes the underlying rod page for element resolution and actions.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Navigate loads a URL and waits for DOMContentLoaded rather than the full
// load event, tolerating pages that keep fetching after first paint.
func (s *Session) Navigate(url string) error {
	page := s.page.Timeout(navigateTimeout)
	wait := page.WaitEvent(&proto.PageDomContentEventFired{})
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %q: %w", url, err)
	}
	wait()
	return nil
}

// documentReady reports whether a readyState value means DOMContentLoaded has
// already fired for the current document.
func documentReady(state string) bool {
	return state == "interactive" || state == "complete"
}

// WaitReady blocks until the current document has reached DOM-content-ready,
// bounded by the navigation timeout. Readiness is a state check, not an event
// wait: a login that completes in place without another navigation never
// fires DOMContentLoaded again, and a fast navigation may fire it before a
// subscription could be set up.
func (s *Session) WaitReady() error {
	page := s.page.Timeout(navigateTimeout)
	state, err := page.Eval(`() => document.readyState`)
	if err != nil {
		return fmt.Errorf("reading document readiness: %w", err)
	}
	if documentReady(state.Value.Str()) {
		return nil
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for document ready: %w", err)
	}
	return nil
}

// CurrentURL returns the page's current location.
func (s *Session) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.URL, nil
}

// Screenshot captures the viewport as raw PNG bytes.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return data, nil
}

// ConsoleErrors returns the error-level console messages collected so far.
func (s *Session) ConsoleErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.consoleErrors))
	copy(out, s.consoleErrors)
	return out
}

// Close tears the browsing context down. It never fails; teardown is the one
// mandatory cleanup contract and runs on every exit path.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
}
