package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// pathNames are looked up in PATH when no well-known install location exists.
var pathNames = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "chrome"}

// DetectBrowser returns the first Chromium-family executable found on the
// system, or an empty string.
func DetectBrowser() string {
	for _, path := range candidates(runtime.GOOS) {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	for _, name := range pathNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// candidates lists install locations for goos, Chrome first, then Chromium,
// then Edge and Brave.
func candidates(goos string) []string {
	switch goos {
	case "windows":
		var out []string
		for _, root := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			out = append(out,
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(root, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
			)
		}
		return out
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			filepath.Join(home, "Applications", "Google Chrome.app", "Contents", "MacOS", "Google Chrome"),
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
			"/var/lib/flatpak/exports/bin/org.chromium.Chromium",
			"/usr/bin/microsoft-edge-stable",
			"/usr/bin/brave-browser",
		}
	}
}
