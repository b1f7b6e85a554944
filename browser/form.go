package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp/kb"
)

// Form fills rows of the timesheet entry screen for the submit writer.
type Form struct {
	Session      *Session
	OpenSteps    []string
	ReadyMarker  string
	ReadyTimeout time.Duration
	NewRowTarget string
	Suggestion   string
	ErrorBanner  string
	Logger       *slog.Logger
}

func (f *Form) Open(ctx context.Context) error {
	for _, step := range f.OpenSteps {
		f.logger().Info("opening entry screen", "click", step)
		if err := f.Session.Click(ctx, step, f.ReadyTimeout); err != nil {
			return err
		}
	}
	if err := f.Session.WaitFor(ctx, f.ReadyMarker, f.ReadyTimeout); err != nil {
		return fmt.Errorf("entry screen not ready: %w", err)
	}
	return nil
}

func (f *Form) NewRow(ctx context.Context) error {
	if err := f.Session.WaitFor(ctx, f.NewRowTarget, f.ReadyTimeout); err != nil {
		return err
	}
	return f.Session.Click(ctx, f.NewRowTarget, f.ReadyTimeout)
}

func (f *Form) TypeText(ctx context.Context, text string) error {
	return f.Session.Type(ctx, text)
}

func (f *Form) PressTab(ctx context.Context) error {
	return f.Session.Press(ctx, kb.Tab)
}

func (f *Form) AcceptSuggestion(ctx context.Context, value string) error {
	if f.Suggestion == "" {
		return nil
	}
	script, err := clickSuggestionScript(f.Suggestion, value)
	if err != nil {
		return err
	}
	var clicked bool
	if err := f.Session.Evaluate(ctx, script, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no suggestion matching %q", value)
	}
	return nil
}

func (f *Form) RowError(ctx context.Context) (string, error) {
	if f.ErrorBanner == "" {
		return "", nil
	}
	script, err := visibleTextScript(f.ErrorBanner)
	if err != nil {
		return "", err
	}
	var message string
	if err := f.Session.Evaluate(ctx, script, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (f *Form) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

func jsString(value string) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode script argument: %w", err)
	}
	return string(encoded), nil
}

func clickSuggestionScript(selector, value string) (string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return "", err
	}
	want, err := jsString(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function(sel, want) {
	var items = Array.from(document.querySelectorAll(sel)).filter(function(el) {
		return el.offsetParent !== null;
	});
	var norm = function(s) { return (s || '').trim().toLowerCase(); };
	var match = items.find(function(el) { return norm(el.textContent) === norm(want); }) ||
		items.find(function(el) { return norm(el.textContent).indexOf(norm(want)) >= 0; });
	if (!match) { return false; }
	match.click();
	return true;
})(%s, %s)`, sel, want), nil
}

func visibleTextScript(selector string) (string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function(sel) {
	return Array.from(document.querySelectorAll(sel))
		.filter(function(el) { return el.offsetParent !== null; })
		.map(function(el) { return (el.textContent || '').trim(); })
		.filter(function(t) { return t.length > 0; })
		.join('; ');
})(%s)`, sel), nil
}
