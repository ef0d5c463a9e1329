package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
	"github.com/cantalupo555/hltv-demo-downloader/internal/config"
	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
)

// appVersion is set at build time via -ldflags="-X main.appVersion=x.x.x"
var appVersion = "dev"

// cliFlags holds the command line. Only flags given explicitly override the
// config file and environment.
type cliFlags struct {
	configPath  string
	listingURL  string
	downloadDir string
	execPath    string
	profile     string
	dateFrom    string
	dateTo      string
	headless    bool
	logLevel    string
	showVersion bool

	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (cliFlags, error) {
	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file (optional)")
	fs.StringVar(&f.listingURL, "url", "", "HLTV stats listing URL (prompted if empty)")
	fs.StringVar(&f.downloadDir, "download", "", "Directory to save demos (default ./downloads)")
	fs.StringVar(&f.execPath, "exec", "", "Browser executable (auto-detect if empty)")
	fs.StringVar(&f.profile, "profile", "", "Path to browser profile (temporary if empty)")
	fs.StringVar(&f.dateFrom, "from", "", "Only matches from this date, YYYY-MM-DD")
	fs.StringVar(&f.dateTo, "to", "", "Only matches up to this date, YYYY-MM-DD")
	fs.BoolVar(&f.headless, "headless", true, "Run the browser without a window")
	fs.StringVar(&f.logLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply copies the explicitly set flags onto cfg.
func (f cliFlags) apply(cfg *config.Config) {
	if f.set["url"] {
		cfg.ListingURL = f.listingURL
	}
	if f.set["download"] {
		cfg.DownloadDir = f.downloadDir
	}
	if f.set["exec"] {
		cfg.Browser.ExecPath = f.execPath
	}
	if f.set["profile"] {
		cfg.Browser.ProfilePath = f.profile
	}
	if f.set["from"] {
		cfg.DateFrom = f.dateFrom
	}
	if f.set["to"] {
		cfg.DateTo = f.dateTo
	}
	if f.set["headless"] {
		cfg.Browser.Headless = f.headless
	}
	if f.set["loglevel"] {
		cfg.LogLevel = f.logLevel
	}
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	flags, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if flags.showVersion {
		fmt.Printf("hltv-demo-downloader version %s\n", appVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	flags.apply(cfg)

	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	for _, w := range warnings {
		log.Warn(w)
	}

	// Auto-detect browser if not specified
	if cfg.Browser.ExecPath == "" {
		cfg.Browser.ExecPath = browser.DetectBrowser()
		if cfg.Browser.ExecPath == "" {
			log.Fatal("Error: Could not find Chrome/Chromium. Please install Chrome or specify path with -exec flag")
		}
		log.Infof("✓ Auto-detected browser: %s", cfg.Browser.ExecPath)
	}

	downloadPath, err := resolveDir(cfg.DownloadDir)
	if err != nil {
		log.Fatalf("Error resolving download directory: %v", err)
	}
	if err := download.EnsureDir(downloadPath); err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, finishing the current demo before stopping (again to force exit)...", sig)
		cancel()
		sig = <-sigChan
		log.Errorf("Received second signal %v, exiting now", sig)
		os.Exit(1)
	}()

	if cfg.ListingURL == "" {
		cfg.ListingURL, err = promptListingURL(os.Stdin, os.Stdout, cfg.Selectors.StatsMarker)
		if err != nil {
			log.Fatalf("Error reading listing URL: %v", err)
		}
	}

	log.Info("=== HLTV Demo Downloader ===")
	log.Infof("Executable: %s", cfg.Browser.ExecPath)
	log.Infof("Listing: %s", cfg.ListingURL)
	log.Infof("Date range: %s", cfg.DateRange())
	log.Infof("Download: %s", downloadPath)

	if err := run(ctx, cfg, downloadPath, log); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// resolveDir expands a leading ~/ and makes dir absolute; Chrome needs an
// absolute download path.
func resolveDir(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
