// Package browser drives a visible Chrome instance bound to a persistent
// profile directory, so login cookies survive between runs.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

type Options struct {
	ProfileDir string
	ExecPath   string
	Headless   bool
	Logger     *slog.Logger
}

// Session owns one browser process and its single tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *slog.Logger
}

// ResolveProfileDir returns root/name, defaulting root to
// $HOME/.chronoassist/profiles, and creates the directory if absent.
func ResolveProfileDir(root, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("profile name is required")
	}
	if strings.TrimSpace(root) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		root = filepath.Join(home, ".chronoassist", "profiles")
	}
	profileDir := filepath.Join(root, name)
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return "", fmt.Errorf("create profile directory %q: %w", profileDir, err)
	}
	return profileDir, nil
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOptions := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", opts.Headless),
		chromedp.UserDataDir(opts.ProfileDir),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("new-window", true),
		chromedp.Flag("restore-last-session", false),
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
	}
	if opts.Headless {
		allocOptions = append(allocOptions, chromedp.DisableGPU)
	}
	if strings.TrimSpace(opts.ExecPath) != "" {
		allocOptions = append(allocOptions, chromedp.ExecPath(strings.TrimSpace(opts.ExecPath)))
	}
	return allocOptions
}

// Launch starts the browser. The caller must Close the session on every path.
func Launch(parent context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.ProfileDir) == "" {
		return nil, fmt.Errorf("launch browser: profile directory is required")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOptions(opts)...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	session := &Session{ctx: ctx, cancel: cancel, allocCancel: allocCancel, logger: logger}

	logger.Info("starting browser", "profile", opts.ProfileDir, "headless", opts.Headless)
	if err := chromedp.Run(ctx); err != nil {
		session.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	logger.Info("browser started")
	return session, nil
}

// Close shuts the tab and kills the browser process.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.logger.Info("closing browser")
	s.cancel()
	s.allocCancel()
}

// run executes actions in the tab, bounded by ctx's cancellation and deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("navigating", "url", url)
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Exists reports whether target matches any node right now. target may be a
// CSS selector, an XPath expression or plain text.
func (s *Session) Exists(ctx context.Context, target string) (bool, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(target, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// WaitFor blocks until target is visible or timeout passes.
func (s *Session) WaitFor(ctx context.Context, target string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.run(waitCtx, chromedp.WaitVisible(target, chromedp.BySearch)); err != nil {
		return fmt.Errorf("wait for %q: %w", target, err)
	}
	return nil
}

// Click clicks the first visible node matching target within timeout.
func (s *Session) Click(ctx context.Context, target string, timeout time.Duration) error {
	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.run(clickCtx, chromedp.Click(target, chromedp.BySearch, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", target, err)
	}
	return nil
}

// Type sends text as key events to the focused element.
func (s *Session) Type(ctx context.Context, text string) error {
	return s.run(ctx, chromedp.KeyEvent(text))
}

// Press sends one key, e.g. kb.Tab or kb.PageDown.
func (s *Session) Press(ctx context.Context, key string) error {
	return s.run(ctx, chromedp.KeyEvent(key))
}

func (s *Session) Evaluate(ctx context.Context, script string, res any) error {
	return s.run(ctx, chromedp.Evaluate(script, res))
}

// HTML returns the outer HTML of the first node matching the CSS selector,
// after mirroring live form values below it into value attributes.
func (s *Session) HTML(ctx context.Context, selector string) (string, error) {
	script, err := syncValuesScript(selector)
	if err != nil {
		return "", err
	}
	var (
		html   string
		synced bool
	)
	err = s.run(ctx,
		chromedp.Evaluate(script, &synced),
		chromedp.OuterHTML(selector, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("read html of %q: %w", selector, err)
	}
	return html, nil
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}

// syncValuesScript copies the live value of every form control inside the
// first node matching selector into its value attribute.
func syncValuesScript(selector string) (string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function(sel) {
	var root = document.querySelector(sel);
	if (!root) { return false; }
	root.querySelectorAll('input, textarea, select').forEach(function(el) {
		el.setAttribute('value', el.value == null ? '' : el.value);
	});
	return true;
})(%s)`, sel), nil
}
