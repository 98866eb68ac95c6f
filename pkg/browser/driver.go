// Package browser owns the rod browser lifecycle: one shared, lazily
// launched browser process per driver and one isolated incognito context per
// story session layered on top of it.
package browser

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Options configures the shared browser process.
type Options struct {
	Headless bool
	Width    int
	Height   int
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 800
	}
	return o
}

// Driver is a lifecycle-managed handle to the shared browser process. The
// process is launched on first session and shut down by Close; sessions get
// isolated incognito contexts so stories never leak cookies or storage into
// each other.
type Driver struct {
	opts Options

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewDriver returns a driver that will lazily launch the browser on first
// use.
func NewDriver(opts Options) *Driver {
	return &Driver{opts: opts.withDefaults()}
}

func (d *Driver) ensure() (*rod.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.browser != nil {
		return d.browser, nil
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(d.opts.Headless)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	d.launcher = l
	d.browser = b
	return b, nil
}

// NewSession opens an isolated browsing context with its own page, viewport,
// and console-error capture. The caller must Close the session on every exit
// path.
func (d *Driver) NewSession() (*Session, error) {
	b, err := d.ensure()
	if err != nil {
		return nil, err
	}
	return newSession(b, d.opts)
}

// Close shuts the shared browser process down. Safe to call when nothing was
// ever launched.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.browser == nil {
		return nil
	}
	err := d.browser.Close()
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	d.browser = nil
	d.launcher = nil
	return err
}
