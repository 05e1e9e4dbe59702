package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/datecrawl/internal/fetch"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/navigator"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "datecrawl"

	// DefaultSeedFile is the seed CSV read when --seeds is not given.
	DefaultSeedFile = "site_urls.csv"

	// DefaultOutputDir is where the article CSV is written.
	DefaultOutputDir = "."

	// DefaultWorkers is the number of seeds processed concurrently.
	DefaultWorkers = 5

	// DefaultPacing is the pause a worker takes after each seed before
	// picking up the next one.
	DefaultPacing = 5 * time.Second

	// DefaultSettleDelay is the wait after a scroll or click.
	DefaultSettleDelay = navigator.DefaultSettleDelay

	// DefaultMaxSteps bounds navigation per seed. 0 means unbounded.
	DefaultMaxSteps = navigator.DefaultMaxSteps

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultBrowserTimeout bounds a single browser operation.
	DefaultBrowserTimeout = 60 * time.Second

	// DefaultFilterWorkers is the number of articles extracted concurrently.
	// 1 keeps extraction sequential.
	DefaultFilterWorkers = 1

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize

	// DefaultUserAgent is sent with every HTTP request and by the browser.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultRateBurst is the token bucket size used when a rate is set.
	DefaultRateBurst = 1
)

// Config holds all configuration options for a crawl run.
// It is populated from CLI flags and passed down explicitly.
type Config struct {
	// Target is the calendar date whose articles are collected.
	// Set once by the CLI; never read from the clock below that layer.
	Target model.Date

	// SeedFile is the path to the seed CSV (page_url,navigation_type).
	SeedFile string

	// OutputDir is the directory the article CSV is written to.
	OutputDir string

	// SummaryFile, when set, receives a Markdown run summary.
	SummaryFile string

	// Workers is the number of seeds navigated concurrently.
	Workers int

	// Pacing is the delay a worker sleeps after each seed.
	Pacing time.Duration

	// SettleDelay is the wait after each scroll or click for new content.
	SettleDelay time.Duration

	// MaxSteps bounds pages fetched, scrolls, or clicks per seed.
	// Zero means unbounded.
	MaxSteps int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// BrowserTimeout bounds each browser operation.
	BrowserTimeout time.Duration

	// BrowserBin is an explicit Chromium binary. Empty lets go-rod find one.
	BrowserBin string

	// ShowBrowser runs the browser with a visible window.
	ShowBrowser bool

	// FilterWorkers is the number of article pages extracted concurrently.
	FilterWorkers int

	// MaxBodySize is the maximum response body size in bytes to read.
	// Zero keeps the default.
	MaxBodySize int64

	// UserAgent is the User-Agent sent with requests.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	ProxyAddress string

	// Rate is the per-host request rate in requests per second. Zero disables it.
	Rate float64

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON writes logs as JSON lines instead of text.
	LogJSON bool

	// JSONOutput prints the run summary as JSON instead of text.
	JSONOutput bool

	// ConfigFilePath is the path to the site profile file.
	// If empty, .datecrawl is searched in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds site profiles loaded from the config file.
	SiteConfigs *File

	// Archive enables saving emitted records and the run summary to SQLite.
	Archive bool

	// DBDir is the directory for the archive database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// The target date is left zero; the CLI sets it.
func NewConfig() *Config {
	return &Config{
		SeedFile:       DefaultSeedFile,
		OutputDir:      DefaultOutputDir,
		Workers:        DefaultWorkers,
		Pacing:         DefaultPacing,
		SettleDelay:    DefaultSettleDelay,
		MaxSteps:       DefaultMaxSteps,
		Timeout:        DefaultTimeout,
		BrowserTimeout: DefaultBrowserTimeout,
		FilterWorkers:  DefaultFilterWorkers,
		MaxBodySize:    DefaultMaxBodySize,
		UserAgent:      DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for datecrawl.
// On Linux: ~/.local/share/datecrawl
// On macOS: ~/Library/Application Support/datecrawl
// On Windows: %LOCALAPPDATA%\datecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for datecrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.SeedFile == "" {
		return ErrNoSeedFile
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Pacing < 0 {
		return ErrInvalidPacing
	}
	if c.SettleDelay < 0 {
		return ErrInvalidSettleDelay
	}
	if c.MaxSteps < 0 {
		return ErrInvalidMaxSteps
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.FilterWorkers <= 0 {
		return ErrInvalidFilterWorkers
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Rate < 0 {
		return ErrInvalidRate
	}
	if c.SiteConfigs != nil {
		if err := c.SiteConfigs.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SiteConfig returns the merged profile for host. Without a loaded file
// it returns the zero profile.
func (c *Config) SiteConfig(host string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(host)
}

// NavigationSettings returns the navigator settings for host: global values
// overridden by the site profile.
func (c *Config) NavigationSettings(host string) navigator.Settings {
	site := c.SiteConfig(host)

	settings := navigator.Settings{
		NextSelector: site.NextSelector,
		StartPage:    site.StartPage,
		LoadMoreText: site.LoadMoreText,
		LoadMoreTag:  site.LoadMoreTag,
		SettleDelay:  c.SettleDelay,
		MaxSteps:     c.MaxSteps,
	}
	if site.MaxSteps != nil {
		settings.MaxSteps = *site.MaxSteps
	}
	// --settle 0 means no wait; the navigator reads zero as its default.
	if settings.SettleDelay == 0 {
		settings.SettleDelay = navigator.NoSettleDelay
	}
	return settings
}
