package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// Launcher opens the editor, and optionally url CTAs, in a system browser
type Launcher struct {
	browsers []Browser
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// Browser represents a browser configuration
type Browser struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// NewLauncher creates a launcher for the browsers of the current platform
func NewLauncher() *Launcher {
	return &Launcher{
		browsers: detectBrowsers(runtime.GOOS),
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Launch opens a URL in the first available browser
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	browser, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	if err := l.start(browser.Command, browser.Args(url)...); err != nil {
		return fmt.Errorf("launching %s: %w", browser.Name, err)
	}
	return nil
}

// Detect returns the name of the browser Launch would use
func (l *Launcher) Detect() (string, error) {
	browser, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return browser.Name, nil
}

// Navigator returns a ports.Navigator that opens links externally
func (l *Launcher) Navigator() *Navigator {
	return &Navigator{launcher: l}
}

func (l *Launcher) selectBrowser() (*Browser, error) {
	if len(l.browsers) == 0 {
		return nil, errors.New("no browsers available")
	}

	for _, candidate := range l.browsers {
		if _, err := l.lookPath(candidate.Command); err == nil {
			return &candidate, nil
		}
	}

	return nil, errors.New("no supported browsers found on this system")
}

// Navigator opens url CTAs in a new system browser window. Only absolute http and
// https URLs are handed to the platform opener, since the URL ends up on a command line.
type Navigator struct {
	launcher *Launcher
}

// Open launches target in the system browser
func (n *Navigator) Open(target string) error {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return fmt.Errorf("parsing link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http and https links open externally", target)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open %q: missing host", target)
	}
	return n.launcher.Launch(u.String(), false)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - command comes from the fixed browser table
	if err := cmd.Start(); err != nil {
		return err
	}

	// Don't wait for browser to close
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func detectBrowsers(goos string) []Browser {
	urlOnly := func(url string) []string { return []string{url} }

	switch goos {
	case "darwin":
		return []Browser{
			{Name: "Default", Command: "open", Args: urlOnly},
			{Name: "Chrome", Command: "open", Args: func(url string) []string {
				return []string{"-a", "Google Chrome", url}
			}},
		}
	case "linux", "freebsd", "openbsd":
		return []Browser{
			{Name: "xdg-open", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		return []Browser{
			{Name: "Default", Command: "rundll32", Args: func(url string) []string {
				return []string{"url.dll,FileProtocolHandler", url}
			}},
		}
	default:
		return []Browser{}
	}
}

var (
	_ ports.BrowserLauncher = (*Launcher)(nil)
	_ ports.Navigator       = (*Navigator)(nil)
)
