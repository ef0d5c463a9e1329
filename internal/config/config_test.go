package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no HLTV_* variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{EnvListingURL, EnvDownloadDir, EnvBrowserExec, EnvHeadless} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, ".crdownload", cfg.IncompleteSuffix)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Appear)
	assert.Equal(t, 300*time.Second, cfg.Timeouts.Stall)
}

func TestLoadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hltv.yaml")
	writeFile(t, path, `
listing_url: https://www.hltv.org/stats/matches?startDate=2024-01-01
download_dir: /data/demos
browser:
  headless: false
  exec_path: /usr/bin/chromium
timeouts:
  stall: 1m
  request_interval: 500ms
selectors:
  next_page: a.next
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.hltv.org/stats/matches?startDate=2024-01-01", cfg.ListingURL)
	assert.Equal(t, "/data/demos", cfg.DownloadDir)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.ExecPath)
	assert.Equal(t, time.Minute, cfg.Timeouts.Stall)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.RequestInterval)
	assert.Equal(t, "a.next", cfg.Selectors.NextPage)

	// untouched keys keep defaults
	assert.Equal(t, 5*time.Second, cfg.Timeouts.ProgressPoll)
	assert.Equal(t, ".group-2.first", cfg.Selectors.HighlightedRow)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "timeouts: [not, a, map")
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDownloadDir, "/tmp/demos")
	t.Setenv(EnvBrowserExec, "/opt/google/chrome/chrome")
	t.Setenv(EnvHeadless, "false")
	t.Setenv(EnvListingURL, "https://www.hltv.org/stats/matches")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/demos", cfg.DownloadDir)
	assert.Equal(t, "/opt/google/chrome/chrome", cfg.Browser.ExecPath)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "https://www.hltv.org/stats/matches", cfg.ListingURL)

	t.Setenv(EnvHeadless, "sometimes")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestEnvFiles(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "HLTV_DOWNLOAD_DIR=from-env\nHLTV_BROWSER_EXEC=/usr/bin/chromium\n")
	writeFile(t, filepath.Join(dir, ".env.local"), "HLTV_BROWSER_EXEC=/usr/local/bin/chrome\n")
	t.Cleanup(func() {
		os.Unsetenv(EnvDownloadDir)
		os.Unsetenv(EnvBrowserExec)
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DownloadDir)
	assert.Equal(t, "/usr/local/bin/chrome", cfg.Browser.ExecPath, ".env.local wins")
}

func TestDerivedSettings(t *testing.T) {
	cfg := Default()
	cfg.Selectors.NextPage = "a.next"
	cfg.Timeouts.Stall = time.Minute

	assert.Equal(t, "a.next", cfg.ListingSelectors().NextPage)
	assert.Equal(t, "#CybotCookiebotDialogBodyButtonDecline", cfg.NavigationSelectors().CookieDecline)

	opts := cfg.WatcherOptions()
	assert.Equal(t, time.Minute, opts.StallTimeout)
	assert.Equal(t, ".crdownload", opts.Suffix)
	assert.Nil(t, opts.Clock)

	bc := cfg.BrowserConfig("/abs/downloads")
	assert.Equal(t, "/abs/downloads", bc.DownloadDir)
	assert.True(t, bc.Headless)
}
