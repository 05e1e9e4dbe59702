package render

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultPageTimeout bounds a single browser operation.
const DefaultPageTimeout = 60 * time.Second

// RodLauncher starts a headless Chromium per session.
type RodLauncher struct {
	bin         string
	headless    bool
	userAgent   string
	pageTimeout time.Duration
}

// RodOption configures a RodLauncher.
type RodOption func(*RodLauncher)

// WithBrowserBin sets an explicit browser binary. When empty, go-rod looks up
// a local Chromium or downloads one.
func WithBrowserBin(path string) RodOption {
	return func(l *RodLauncher) {
		l.bin = path
	}
}

// WithHeadless toggles headless mode.
func WithHeadless(headless bool) RodOption {
	return func(l *RodLauncher) {
		l.headless = headless
	}
}

// WithBrowserUserAgent overrides the browser's User-Agent.
func WithBrowserUserAgent(ua string) RodOption {
	return func(l *RodLauncher) {
		l.userAgent = ua
	}
}

// WithPageTimeout bounds each browser operation.
func WithPageTimeout(d time.Duration) RodOption {
	return func(l *RodLauncher) {
		if d > 0 {
			l.pageTimeout = d
		}
	}
}

// NewRodLauncher creates a RodLauncher.
func NewRodLauncher(opts ...RodOption) *RodLauncher {
	l := &RodLauncher{
		headless:    true,
		pageTimeout: DefaultPageTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open launches a browser and opens a blank page in it.
// On any error the browser process is cleaned up before returning.
func (l *RodLauncher) Open(ctx context.Context) (Session, error) {
	ln := launcher.New().Headless(l.headless).Leakless(true)
	if l.bin != "" {
		ln = ln.Bin(l.bin)
	}

	controlURL, err := ln.Context(ctx).Launch()
	if err != nil {
		ln.Cleanup()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close() //nolint:errcheck // best effort cleanup
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if l.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: l.userAgent}); err != nil {
			_ = browser.Close() //nolint:errcheck // best effort cleanup
			ln.Kill()
			ln.Cleanup()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	return &rodSession{
		launcher: ln,
		browser:  browser,
		page:     page,
		timeout:  l.pageTimeout,
	}, nil
}

// rodSession is a Session backed by a go-rod page.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration

	mu       sync.Mutex
	closed   bool
	closeErr error
}

// scoped returns the page bound to ctx and the session timeout.
func (s *rodSession) scoped(ctx context.Context) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.page.Context(ctx).Timeout(s.timeout), nil
}

func (s *rodSession) Navigate(ctx context.Context, pageURL string) error {
	p, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	if err := p.Navigate(pageURL); err != nil {
		return fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", pageURL, err)
	}
	return nil
}

func (s *rodSession) ScrollToBottom(ctx context.Context) error {
	p, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (s *rodSession) Height(ctx context.Context) (int, error) {
	p, err := s.scoped(ctx)
	if err != nil {
		return 0, err
	}
	res, err := p.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, fmt.Errorf("read height: %w", err)
	}
	return res.Value.Int(), nil
}

func (s *rodSession) ClickText(ctx context.Context, tag, text string) error {
	p, err := s.scoped(ctx)
	if err != nil {
		return err
	}

	// NotFoundSleeper makes the lookup fail immediately instead of polling
	// until the timeout.
	el, err := p.Sleeper(rod.NotFoundSleeper).ElementR(tag, regexp.QuoteMeta(text))
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%s containing %q: %w", tag, text, ErrElementNotFound)
		}
		return fmt.Errorf("find %s containing %q: %w", tag, text, err)
	}

	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("%s containing %q: %w: %v", tag, text, ErrElementNotClickable, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%s containing %q: %w: %v", tag, text, ErrElementNotClickable, err)
	}
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	p, err := s.scoped(ctx)
	if err != nil {
		return "", err
	}
	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	return html, nil
}

func (s *rodSession) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ""
	}
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close closes the browser and removes its profile directory. Only the first
// call does any work; later calls return the first call's result.
func (s *rodSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.closeErr
	}
	s.closed = true

	if err := s.browser.Close(); err != nil {
		s.closeErr = fmt.Errorf("failed to close browser: %w", err)
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	return s.closeErr
}
