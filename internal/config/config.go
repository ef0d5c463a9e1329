// Package config loads the downloader settings from a YAML file, .env files
// and HLTV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
	"github.com/cantalupo555/hltv-demo-downloader/internal/datefilter"
	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
	"github.com/cantalupo555/hltv-demo-downloader/internal/listing"
	"github.com/cantalupo555/hltv-demo-downloader/internal/navigation"
)

// ErrConfigValidation marks a setting that cannot be defaulted.
var ErrConfigValidation = errors.New("config validation failed")

// Environment overrides.
const (
	EnvListingURL  = "HLTV_LISTING_URL"
	EnvDownloadDir = "HLTV_DOWNLOAD_DIR"
	EnvBrowserExec = "HLTV_BROWSER_EXEC"
	EnvHeadless    = "HLTV_HEADLESS"
)

// Config is the full set of settings.
type Config struct {
	ListingURL       string    `yaml:"listing_url"`
	DateFrom         string    `yaml:"date_from"` // YYYY-MM-DD, sets startDate on the listing
	DateTo           string    `yaml:"date_to"`
	DownloadDir      string    `yaml:"download_dir"`
	IncompleteSuffix string    `yaml:"incomplete_suffix"`
	LogLevel         string    `yaml:"log_level"`
	Browser          Browser   `yaml:"browser"`
	Timeouts         Timeouts  `yaml:"timeouts"`
	Selectors        Selectors `yaml:"selectors"`

	dates *datefilter.DateRange
}

// Browser configures the Chrome process.
type Browser struct {
	ExecPath       string        `yaml:"exec_path"` // empty means auto-detect
	ProfilePath    string        `yaml:"profile_path"`
	Headless       bool          `yaml:"headless"`
	WindowWidth    int           `yaml:"window_width"`
	WindowHeight   int           `yaml:"window_height"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

// Timeouts bound every wait of a run.
type Timeouts struct {
	Element         time.Duration `yaml:"element"`
	Consent         time.Duration `yaml:"consent"`
	Appear          time.Duration `yaml:"appear"`
	AppearPoll      time.Duration `yaml:"appear_poll"`
	Stall           time.Duration `yaml:"stall"`
	ProgressPoll    time.Duration `yaml:"progress_poll"`
	RequestInterval time.Duration `yaml:"request_interval"`
}

// Selectors override the page selectors when the site markup changes.
type Selectors struct {
	StatsMarker      string `yaml:"stats_marker"`
	HighlightedRow   string `yaml:"highlighted_row"`
	AlternateRow     string `yaml:"alternate_row"`
	RowAnchor        string `yaml:"row_anchor"`
	NextPage         string `yaml:"next_page"`
	CookieDecline    string `yaml:"cookie_decline"`
	MatchPageTrigger string `yaml:"match_page_trigger"`
	DemoDownload     string `yaml:"demo_download"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	ls := listing.DefaultSelectors()
	ns := navigation.DefaultSelectors()
	wo := download.DefaultOptions()
	bc := browser.DefaultConfig()
	return &Config{
		DownloadDir:      "./downloads",
		IncompleteSuffix: wo.Suffix,
		LogLevel:         "info",
		Browser: Browser{
			Headless:     bc.Headless,
			WindowWidth:  bc.WindowWidth,
			WindowHeight: bc.WindowHeight,
		},
		Timeouts: Timeouts{
			Element:         10 * time.Second,
			Consent:         5 * time.Second,
			Appear:          wo.AppearTimeout,
			AppearPoll:      wo.AppearInterval,
			Stall:           wo.StallTimeout,
			ProgressPoll:    wo.ProgressInterval,
			RequestInterval: 2 * time.Second,
		},
		Selectors: Selectors{
			StatsMarker:      listing.StatsMarker,
			HighlightedRow:   ls.Highlighted,
			AlternateRow:     ls.Alternate,
			RowAnchor:        ls.Anchor,
			NextPage:         ls.NextPage,
			CookieDecline:    ns.CookieDecline,
			MatchPageTrigger: ns.MatchPageTrigger,
			DemoDownload:     ns.DemoDownload,
		},
	}
}

// Load reads .env files, then the YAML file at path (if path is not empty),
// then the HLTV_* environment variables. Keys absent from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env and then .env.local, both optional. Variables
// already set in the environment win over .env; .env.local wins over both.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvListingURL); v != "" {
		c.ListingURL = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv(EnvBrowserExec); v != "" {
		c.Browser.ExecPath = v
	}
	if v := os.Getenv(EnvHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrConfigValidation, EnvHeadless, v)
		}
		c.Browser.Headless = headless
	}
	return nil
}

// ListingSelectors returns the selectors for the link discoverer.
func (c *Config) ListingSelectors() listing.Selectors {
	return listing.Selectors{
		Highlighted: c.Selectors.HighlightedRow,
		Alternate:   c.Selectors.AlternateRow,
		Anchor:      c.Selectors.RowAnchor,
		NextPage:    c.Selectors.NextPage,
	}
}

// NavigationSelectors returns the selectors for match page clicks.
func (c *Config) NavigationSelectors() navigation.Selectors {
	return navigation.Selectors{
		CookieDecline:    c.Selectors.CookieDecline,
		MatchPageTrigger: c.Selectors.MatchPageTrigger,
		DemoDownload:     c.Selectors.DemoDownload,
	}
}

// WatcherOptions returns the download watcher timings.
func (c *Config) WatcherOptions() download.Options {
	return download.Options{
		Suffix:           c.IncompleteSuffix,
		AppearTimeout:    c.Timeouts.Appear,
		AppearInterval:   c.Timeouts.AppearPoll,
		StallTimeout:     c.Timeouts.Stall,
		ProgressInterval: c.Timeouts.ProgressPoll,
	}
}

// BrowserConfig returns the browser settings writing into downloadDir.
func (c *Config) BrowserConfig(downloadDir string) browser.Config {
	return browser.Config{
		ExecPath:     c.Browser.ExecPath,
		ProfilePath:  c.Browser.ProfilePath,
		DownloadDir:  downloadDir,
		Headless:     c.Browser.Headless,
		WindowWidth:  c.Browser.WindowWidth,
		WindowHeight: c.Browser.WindowHeight,
		Timeout:      c.Browser.SessionTimeout,
	}
}

// DateRange returns the date filter resolved by Validate, or nil before it.
func (c *Config) DateRange() *datefilter.DateRange {
	return c.dates
}
