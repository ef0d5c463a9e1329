package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cantalupo555/hltv-demo-downloader/internal/datefilter"
	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
	"github.com/cantalupo555/hltv-demo-downloader/internal/listing"
)

// Validate checks Config fields and applies defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *Config) Validate() (warnings []string, err error) {
	def := Default()

	// ListingURL is optional here; main prompts for it when empty.
	if c.Selectors.StatsMarker == "" {
		c.Selectors.StatsMarker = def.Selectors.StatsMarker
	}
	dates, err := datefilter.NewDateRange(c.DateFrom, c.DateTo, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	c.dates = dates
	if dates.Enabled {
		if c.ListingURL, err = dates.Apply(c.ListingURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
		}
	}
	if c.ListingURL != "" && !listing.IsListingURL(c.ListingURL, c.Selectors.StatsMarker) {
		return nil, fmt.Errorf("%w: listing_url %q: %v", ErrConfigValidation, c.ListingURL, listing.ErrInvalidListingURL)
	}

	// DownloadDir
	if strings.TrimSpace(c.DownloadDir) == "" {
		warnings = append(warnings, "download_dir is empty, defaulting to './downloads'")
		c.DownloadDir = def.DownloadDir
	}

	// IncompleteSuffix
	if c.IncompleteSuffix == "" {
		c.IncompleteSuffix = download.DefaultSuffix
	} else if !strings.HasPrefix(c.IncompleteSuffix, ".") {
		warnings = append(warnings, fmt.Sprintf("incomplete_suffix %q has no leading dot, using %q",
			c.IncompleteSuffix, "."+c.IncompleteSuffix))
		c.IncompleteSuffix = "." + c.IncompleteSuffix
	}

	// LogLevel
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: log_level: %v", ErrConfigValidation, err)
	}

	// Browser window
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		c.Browser.WindowWidth = def.Browser.WindowWidth
		c.Browser.WindowHeight = def.Browser.WindowHeight
	}
	if c.Browser.SessionTimeout < 0 {
		warnings = append(warnings, "browser.session_timeout cannot be negative, disabling timeout")
		c.Browser.SessionTimeout = 0
	}

	warnings = append(warnings, c.validateTimeouts(def.Timeouts)...)
	c.validateSelectors(def.Selectors)

	return warnings, nil
}

// validateTimeouts replaces unset or negative timeouts with defaults.
func (c *Config) validateTimeouts(def Timeouts) (warnings []string) {
	t := &c.Timeouts
	fix := func(name string, v *time.Duration, fallback time.Duration) {
		if *v < 0 {
			warnings = append(warnings, fmt.Sprintf("timeouts.%s cannot be negative, defaulting to %v", name, fallback))
		}
		if *v <= 0 {
			*v = fallback
		}
	}
	fix("element", &t.Element, def.Element)
	fix("consent", &t.Consent, def.Consent)
	fix("appear", &t.Appear, def.Appear)
	fix("appear_poll", &t.AppearPoll, def.AppearPoll)
	fix("stall", &t.Stall, def.Stall)
	fix("progress_poll", &t.ProgressPoll, def.ProgressPoll)

	// zero disables pacing
	if t.RequestInterval < 0 {
		warnings = append(warnings, "timeouts.request_interval cannot be negative, disabling pacing")
		t.RequestInterval = 0
	}

	if t.AppearPoll > t.Appear {
		warnings = append(warnings, fmt.Sprintf("timeouts.appear_poll (%v) > timeouts.appear (%v), polling once", t.AppearPoll, t.Appear))
	}
	if t.Stall < t.ProgressPoll {
		warnings = append(warnings, fmt.Sprintf(
			"timeouts.stall (%v) < timeouts.progress_poll (%v), a download stalls after one unchanged sample",
			t.Stall, t.ProgressPoll))
	}
	return warnings
}

// validateSelectors fills empty selectors. A cleared cookie_decline stays
// empty and turns consent handling off.
func (c *Config) validateSelectors(def Selectors) {
	s := &c.Selectors
	for _, f := range []struct {
		v        *string
		fallback string
	}{
		{&s.HighlightedRow, def.HighlightedRow},
		{&s.AlternateRow, def.AlternateRow},
		{&s.RowAnchor, def.RowAnchor},
		{&s.NextPage, def.NextPage},
		{&s.MatchPageTrigger, def.MatchPageTrigger},
		{&s.DemoDownload, def.DemoDownload},
	} {
		if strings.TrimSpace(*f.v) == "" {
			*f.v = f.fallback
		}
	}
}
