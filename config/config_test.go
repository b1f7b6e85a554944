package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Scrape.MaxScrolls != 10 {
		t.Fatalf("expected max_scrolls 10, got %d", cfg.Scrape.MaxScrolls)
	}
	if cfg.Scrape.ScrollPause != 3*time.Second {
		t.Fatalf("expected scroll pause 3s, got %s", cfg.Scrape.ScrollPause)
	}
	if cfg.Scrape.Columns.WorkItem != "input[aria-label='Work item']" {
		t.Fatalf("unexpected work item selector: %q", cfg.Scrape.Columns.WorkItem)
	}
	if len(cfg.Scrape.DateLayouts) == 0 {
		t.Fatalf("expected default date layouts")
	}
	if len(cfg.Submit.OpenSteps) != 1 || cfg.Submit.OpenSteps[0] != DefaultRegistrationStep {
		t.Fatalf("expected example to open the last Registration button, got %v", cfg.Submit.OpenSteps)
	}
}

func TestValidateYAMLContent_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("{}\n"))
	if err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	if cfg.Login.Mode != LoginModeMarker {
		t.Fatalf("expected marker login mode, got %q", cfg.Login.Mode)
	}
	if got := cfg.Submit.OpenSteps; len(got) != 1 || !strings.HasSuffix(got[0], "[last()]") {
		t.Fatalf("expected default open step to pick the last Registration button, got %v", got)
	}
	if cfg.Submit.ReadyTimeout != 10*time.Second {
		t.Fatalf("expected ready timeout 10s, got %s", cfg.Submit.ReadyTimeout)
	}
	if cfg.Browser.ProfileName != "azure_ad_session" {
		t.Fatalf("unexpected profile name %q", cfg.Browser.ProfileName)
	}
}

func TestValidateYAMLContent_RejectsUnknownLoginMode(t *testing.T) {
	t.Parallel()

	content := []byte(`login:
  mode: "sso"
`)
	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for unsupported login mode")
	}
	if !strings.Contains(err.Error(), "Mode") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsUnsupportedTabOrderToken(t *testing.T) {
	t.Parallel()

	content := []byte(`submit:
  tab_order: [date, tab, enter]
`)
	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for unsupported tab order token")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RequiresDateInTabOrder(t *testing.T) {
	t.Parallel()

	content := []byte(`submit:
  tab_order: [project, tab, hours]
`)
	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error when tab order lacks date")
	}
}

func TestValidateYAMLContent_RejectsZeroScrollCeiling(t *testing.T) {
	t.Parallel()

	content := []byte(`scrape:
  max_scrolls: 0
`)
	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for max_scrolls 0")
	}
}
