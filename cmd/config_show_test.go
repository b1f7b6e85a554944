package cmd

import (
	"bytes"
	"strings"
	"testing"

	"chronoassist/config"
)

func TestPrintConfigShowsDefaults(t *testing.T) {
	cfg, err := config.ValidateYAMLContent([]byte(config.ExampleYAML()))
	if err != nil {
		t.Fatalf("example config must validate: %v", err)
	}

	var out bytes.Buffer
	printConfig(&out, cfg)

	text := out.String()
	for _, want := range []string{
		"app.url: " + config.DefaultAppURL,
		"browser.profile_root: $HOME/.chronoassist/profiles (default)",
		"browser.profile_name: azure_ad_session",
		"login.mode: marker",
		"scrape.days_back: 30",
		"scrape.max_scrolls: 10",
		"submit.tab_order: date tab tab project tab activity tab work_item tab tab hours tab tab tab comment",
		"submit.error_banner: [role='alert']",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, text)
		}
	}
}
