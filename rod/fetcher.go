// Package rod provides browser-backed implementations of folio.Fetcher and
// folio.Expander using github.com/go-rod/rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/folio"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Defaults for page loading and progressive expansion.
const (
	DefaultFetchTimeout   = 30 * time.Second
	DefaultSettleTimeout  = 10 * time.Second
	DefaultControlTimeout = 5 * time.Second
	DefaultStableWindow   = 500 * time.Millisecond
	DefaultLoadMoreLabel  = "Load More"
	DefaultMaxExpansions  = 500
)

// controlSelector lists the elements that may carry the expansion label.
const controlSelector = "button, a, [role=button]"

const scrollToBottomJS = `() => window.scrollTo(0, document.body.scrollHeight)`

// Ensure Fetcher implements the folio transport interfaces at compile time.
var (
	_ folio.Fetcher  = (*Fetcher)(nil)
	_ folio.Expander = (*Fetcher)(nil)
)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// One browser is launched per Fetcher and shared by all calls.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   atomic.Bool

	fetchTimeout   time.Duration
	settleTimeout  time.Duration
	controlTimeout time.Duration
	stableWindow   time.Duration
	userAgent      string
	loadMoreLabel  string
	maxExpansions  int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds navigation and initial page load.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithSettleTimeout bounds each wait for the page to settle after scrolling.
func WithSettleTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleTimeout = d
	}
}

// WithControlTimeout bounds each search for the expansion control. When it
// expires the page is considered fully expanded.
func WithControlTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.controlTimeout = d
	}
}

// WithStableWindow sets how long network and DOM must stay quiet before the
// page counts as settled.
func WithStableWindow(d time.Duration) Option {
	return func(f *Fetcher) {
		f.stableWindow = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
// Defaults to folio.DefaultUserAgent if not specified.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLoadMoreLabel sets the visible text of the expansion control.
// Matching is case-insensitive.
func WithLoadMoreLabel(label string) Option {
	return func(f *Fetcher) {
		f.loadMoreLabel = label
	}
}

// WithMaxExpansions caps the number of expansion clicks per page.
func WithMaxExpansions(n int) Option {
	return func(f *Fetcher) {
		f.maxExpansions = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		fetchTimeout:   DefaultFetchTimeout,
		settleTimeout:  DefaultSettleTimeout,
		controlTimeout: DefaultControlTimeout,
		stableWindow:   DefaultStableWindow,
		userAgent:      folio.DefaultUserAgent,
		loadMoreLabel:  DefaultLoadMoreLabel,
		maxExpansions:  DefaultMaxExpansions,
	}
	for _, opt := range opts {
		opt(f)
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := f.open(ctx, url)
	if err != nil {
		return "", err
	}
	defer page.Close()

	html, err := page.HTML()
	if err != nil {
		return "", folio.Errorf(folio.ETRANSPORT, "reading %s: %v", url, err)
	}
	return html, nil
}

// Expand navigates to the URL and keeps scrolling to the bottom and
// clicking the expansion control until it can no longer be found, an
// interaction fails, or the expansion cap is reached. The HTML is read
// afterwards in every case.
func (f *Fetcher) Expand(ctx context.Context, url string) (string, *folio.Expansion, error) {
	page, err := f.open(ctx, url)
	if err != nil {
		return "", nil, err
	}
	defer page.Close()

	exp := f.expand(page)

	html, err := page.HTML()
	if err != nil {
		return "", exp, folio.Errorf(folio.ETRANSPORT, "reading expanded %s: %v", url, err)
	}
	return html, exp, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// LauncherPID returns the PID of the launched browser process.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// open creates a tab, navigates to url and waits for the load event.
// The returned page is bound to ctx without the navigation timeout.
func (f *Fetcher) open(ctx context.Context, url string) (*rod.Page, error) {
	if f.closed.Load() {
		return nil, folio.Errorf(folio.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, folio.Errorf(folio.ETRANSPORT, "opening page: %v", err)
	}
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			_ = page.Close()
			return nil, folio.Errorf(folio.ETRANSPORT, "setting user agent: %v", err)
		}
	}

	nav := page.Timeout(f.fetchTimeout)
	defer nav.CancelTimeout()

	if err := nav.Navigate(url); err != nil {
		_ = page.Close()
		return nil, folio.Errorf(folio.ETRANSPORT, "navigating to %s: %v", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, folio.Errorf(folio.ETRANSPORT, "loading %s: %v", url, err)
	}

	return page, nil
}

func (f *Fetcher) expand(page *rod.Page) *folio.Expansion {
	exp := &folio.Expansion{}
	pattern := labelPattern(f.loadMoreLabel)

	for exp.Clicks < f.maxExpansions {
		if _, err := page.Eval(scrollToBottomJS); err != nil {
			return interrupted(exp, fmt.Errorf("scrolling: %w", err))
		}

		// A page that never goes fully quiet can still be expanded.
		if err := f.settle(page); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return interrupted(exp, fmt.Errorf("waiting for page to settle: %w", err))
		}

		control, err := f.findControl(page, pattern)
		if err != nil {
			if isNotFound(err) {
				exp.Stop = folio.ExpansionExhausted
				return exp
			}
			return interrupted(exp, fmt.Errorf("locating %q control: %w", f.loadMoreLabel, err))
		}
		if control == nil {
			exp.Stop = folio.ExpansionExhausted
			return exp
		}

		if err := control.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return interrupted(exp, fmt.Errorf("clicking %q control: %w", f.loadMoreLabel, err))
		}
		exp.Clicks++
	}

	exp.Stop = folio.ExpansionLimited
	return exp
}

func (f *Fetcher) settle(page *rod.Page) error {
	p := page.Timeout(f.settleTimeout)
	defer p.CancelTimeout()
	return p.WaitStable(f.stableWindow)
}

// findControl returns the visible expansion control, or nil when the only
// match is hidden.
func (f *Fetcher) findControl(page *rod.Page, pattern string) (*rod.Element, error) {
	p := page.Timeout(f.controlTimeout)
	defer p.CancelTimeout()

	el, err := p.ElementR(controlSelector, pattern)
	if err != nil {
		return nil, err
	}
	// Detach from the lookup timeout before it is canceled.
	el = el.Context(page.GetContext())

	visible, err := el.Visible()
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, nil
	}
	return el, nil
}

// labelPattern builds a case-insensitive JS regex literal matching the label
// text. The delimiter is escaped as well as the metacharacters.
func labelPattern(label string) string {
	return "/" + strings.ReplaceAll(regexp.QuoteMeta(label), "/", `\/`) + "/i"
}

func isNotFound(err error) bool {
	var notFound *rod.ElementNotFoundError
	return errors.Is(err, context.DeadlineExceeded) || errors.As(err, &notFound)
}

func interrupted(exp *folio.Expansion, err error) *folio.Expansion {
	exp.Stop = folio.ExpansionInterrupted
	exp.Err = err
	return exp
}
