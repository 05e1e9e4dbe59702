package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// Default client settings.
const (
	// DefaultUserAgent is a desktop Chrome UA; many news sites serve stripped
	// pages to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultTimeout bounds a single request including body read.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	maxRedirects = 10
)

// Client fetches pages over HTTP.
type Client struct {
	http        *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	proxyAddr   string

	// rps and burst configure per-host limiters; rps <= 0 disables limiting.
	rps   float64
	burst int

	// limiters is shared between a client and the copies made by ForSite.
	limiters *hostLimiters
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithProxy routes requests through a SOCKS5 proxy at host:port.
func WithProxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddr = addr
	}
}

// WithRateLimit allows at most rps requests per second to any single host.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.rps = rps
		c.burst = burst
	}
}

// WithHTTPClient replaces the underlying *http.Client. Proxy settings are
// ignored when this is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		burst:       1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.burst <= 0 {
		c.burst = 1
	}
	c.limiters = newHostLimiters(c.rps, c.burst)

	if c.http == nil {
		transport, err := newTransport(c.proxyAddr)
		if err != nil {
			return nil, err
		}
		c.http = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	return c, nil
}

// newTransport builds the default transport, dialing through a SOCKS5 proxy
// when proxyAddr is set.
func newTransport(proxyAddr string) (http.RoundTripper, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport, nil
	}
	transport := base.Clone()

	if proxyAddr == "" {
		return transport, nil
	}
	if _, _, err := net.SplitHostPort(proxyAddr); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProxyAddress, proxyAddr)
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	transport.Proxy = nil
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return dialer.Dial(network, addr)
	}
	return transport, nil
}

// ForSite returns a copy of c that adds headers and cookie to every request.
// The copy shares rate limiters and connection pools with c.
func (c *Client) ForSite(headers map[string]string, cookie string) *Client {
	if len(headers) == 0 && cookie == "" {
		return c
	}
	cp := *c
	hc := *c.http
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &headerInjectingTransport{
		base:    base,
		cookie:  cookie,
		headers: headers,
	}
	cp.http = &hc
	return &cp
}

// UserAgent returns the User-Agent header sent with requests.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get fetches pageURL and returns the body as a snapshot. The snapshot URL is
// the final URL after redirects.
func (c *Client) Get(ctx context.Context, pageURL string) (*model.Snapshot, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}

	if err := c.limiters.wait(ctx, u.Host); err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		return nil, &TransportError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return model.NewSnapshot(finalURL, body), nil
}

// headerInjectingTransport adds site-specific headers and a cookie to every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}

// hostLimiters hands out one token-bucket limiter per host.
type hostLimiters struct {
	rps      float64
	burst    int
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newHostLimiters(rps float64, burst int) *hostLimiters {
	return &hostLimiters{
		rps:      rps,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *hostLimiters) wait(ctx context.Context, host string) error {
	if h == nil || h.rps <= 0 {
		return nil
	}
	host = strings.ToLower(host)

	h.mu.Lock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), h.burst)
		h.limiters[host] = l
	}
	h.mu.Unlock()

	return l.Wait(ctx)
}
