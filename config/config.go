package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyAppURL = "app.url"

	KeyBrowserProfileRoot = "browser.profile_root"
	KeyBrowserProfileName = "browser.profile_name"
	KeyBrowserExecPath    = "browser.exec_path"
	KeyBrowserHeadless    = "browser.headless"

	KeyLoginMode         = "login.mode"
	KeyLoginMarker       = "login.marker"
	KeyLoginTimeout      = "login.timeout"
	KeyLoginPollInterval = "login.poll_interval"

	KeyScrapeDaysBack     = "scrape.days_back"
	KeyScrapeMaxScrolls   = "scrape.max_scrolls"
	KeyScrapeScrollPause  = "scrape.scroll_pause"
	KeyScrapeGridLoadWait = "scrape.grid_load_wait"
	KeyScrapeOpenSteps    = "scrape.open_steps"
	KeyScrapeFocus        = "scrape.focus"
	KeyScrapeContainer    = "scrape.container"
	KeyScrapeDateLayouts  = "scrape.date_layouts"
	KeyScrapeColumns      = "scrape.columns"

	KeySubmitOpenSteps    = "submit.open_steps"
	KeySubmitReadyMarker  = "submit.ready_marker"
	KeySubmitReadyTimeout = "submit.ready_timeout"
	KeySubmitNewRow       = "submit.new_row"
	KeySubmitNewRowWait   = "submit.new_row_wait"
	KeySubmitFieldPause   = "submit.field_pause"
	KeySubmitEntryPause   = "submit.entry_pause"
	KeySubmitTabOrder     = "submit.tab_order"
	KeySubmitSuggestion   = "submit.suggestion"
	KeySubmitErrorBanner  = "submit.error_banner"
)

const (
	LoginModeMarker  = "marker"
	LoginModeConsole = "console"
)

// DefaultRegistrationStep opens the entry screen. The workspace shows more than
// one Registration button and only the last opens the entry screen.
const DefaultRegistrationStep = `(//button[normalize-space(.)="Registration"])[last()]`

// DefaultAppURL points at the timesheet workspace of a Dynamics 365 tenant.
const DefaultAppURL = "https://example.operations.dynamics.com/?mi=PSOTSTimesheetUserWorkSpace"

type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Browser BrowserConfig `mapstructure:"browser"`
	Login   LoginConfig   `mapstructure:"login"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Submit  SubmitConfig  `mapstructure:"submit"`
}

type AppConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type BrowserConfig struct {
	// ProfileRoot defaults to $HOME/.chronoassist/profiles when empty.
	ProfileRoot string `mapstructure:"profile_root"`
	ProfileName string `mapstructure:"profile_name" validate:"required"`
	ExecPath    string `mapstructure:"exec_path"`
	Headless    bool   `mapstructure:"headless"`
}

type LoginConfig struct {
	Mode         string        `mapstructure:"mode" validate:"required,oneof=marker console"`
	Marker       string        `mapstructure:"marker" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
}

type ScrapeConfig struct {
	DaysBack     int           `mapstructure:"days_back" validate:"gte=0"`
	MaxScrolls   int           `mapstructure:"max_scrolls" validate:"gt=0"`
	ScrollPause  time.Duration `mapstructure:"scroll_pause" validate:"gte=0"`
	GridLoadWait time.Duration `mapstructure:"grid_load_wait" validate:"gte=0"`
	OpenSteps    []string      `mapstructure:"open_steps"`
	Focus        string        `mapstructure:"focus"`
	Container    string        `mapstructure:"container" validate:"required"`
	DateLayouts  []string      `mapstructure:"date_layouts" validate:"min=1,dive,required"`
	Columns      ColumnConfig  `mapstructure:"columns"`
}

// ColumnConfig holds one CSS selector per grid column. Each selector matches
// the cells of that column in rendering order.
type ColumnConfig struct {
	Date     string `mapstructure:"date" validate:"required"`
	Project  string `mapstructure:"project" validate:"required"`
	Activity string `mapstructure:"activity" validate:"required"`
	WorkItem string `mapstructure:"work_item" validate:"required"`
	Comment  string `mapstructure:"comment" validate:"required"`
}

type SubmitConfig struct {
	OpenSteps    []string      `mapstructure:"open_steps"`
	ReadyMarker  string        `mapstructure:"ready_marker" validate:"required"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout" validate:"gt=0"`
	NewRow       string        `mapstructure:"new_row" validate:"required"`
	NewRowWait   time.Duration `mapstructure:"new_row_wait" validate:"gte=0"`
	FieldPause   time.Duration `mapstructure:"field_pause" validate:"gte=0"`
	EntryPause   time.Duration `mapstructure:"entry_pause" validate:"gte=0"`
	TabOrder     []string      `mapstructure:"tab_order" validate:"min=1"`
	Suggestion   string        `mapstructure:"suggestion"`
	ErrorBanner  string        `mapstructure:"error_banner"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# chronoassist configuration
app:
  url: "` + DefaultAppURL + `"

browser:
  profile_name: "azure_ad_session"
  headless: false

login:
  # marker: wait until the marker element shows up; console: wait for Enter on the terminal
  mode: "marker"
  marker: '//*[normalize-space(text())="Time"]'
  timeout: "200s"

scrape:
  days_back: 30
  max_scrolls: 10
  scroll_pause: "3s"
  grid_load_wait: "10s"
  open_steps:
    - '//*[normalize-space(text())="Timesheet transactions"]'
  focus: "input[aria-label='Date']"
  columns:
    date: "input[aria-label='Date']"
    project: "input[aria-label='Project']"
    activity: "input[aria-label='Activity']"
    work_item: "input[aria-label='Work item']"
    comment: "input[aria-label='External comment']"

submit:
  # More than one Registration button is rendered; the last one opens the entry screen.
  open_steps:
    - '` + DefaultRegistrationStep + `'
  ready_marker: '//button[normalize-space(.)="Hours"]'
  new_row: '//button[normalize-space(.)="Hours"]'
  tab_order: [date, tab, tab, project, tab, activity, tab, work_item, tab, tab, hours, tab, tab, tab, comment]
  error_banner: "[role='alert']"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateTabOrder(cfg.Submit.TabOrder); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppURL, DefaultAppURL)

	v.SetDefault(KeyBrowserProfileRoot, "")
	v.SetDefault(KeyBrowserProfileName, "azure_ad_session")
	v.SetDefault(KeyBrowserExecPath, "")
	v.SetDefault(KeyBrowserHeadless, false)

	v.SetDefault(KeyLoginMode, LoginModeMarker)
	v.SetDefault(KeyLoginMarker, `//*[normalize-space(text())="Time"]`)
	v.SetDefault(KeyLoginTimeout, 200*time.Second)
	v.SetDefault(KeyLoginPollInterval, time.Second)

	v.SetDefault(KeyScrapeDaysBack, 30)
	v.SetDefault(KeyScrapeMaxScrolls, 10)
	v.SetDefault(KeyScrapeScrollPause, 3*time.Second)
	v.SetDefault(KeyScrapeGridLoadWait, 10*time.Second)
	v.SetDefault(KeyScrapeOpenSteps, []string{`//*[normalize-space(text())="Timesheet transactions"]`})
	v.SetDefault(KeyScrapeFocus, "input[aria-label='Date']")
	v.SetDefault(KeyScrapeContainer, "body")
	v.SetDefault(KeyScrapeDateLayouts, []string{"1/2/2006", "2006-01-02", "02.01.2006", "Jan 2, 2006", "2 Jan 2006"})
	v.SetDefault(KeyScrapeColumns, map[string]any{
		"date":      "input[aria-label='Date']",
		"project":   "input[aria-label='Project']",
		"activity":  "input[aria-label='Activity']",
		"work_item": "input[aria-label='Work item']",
		"comment":   "input[aria-label='External comment']",
	})

	v.SetDefault(KeySubmitOpenSteps, []string{DefaultRegistrationStep})
	v.SetDefault(KeySubmitReadyMarker, `//button[normalize-space(.)="Hours"]`)
	v.SetDefault(KeySubmitReadyTimeout, 10*time.Second)
	v.SetDefault(KeySubmitNewRow, `//button[normalize-space(.)="Hours"]`)
	v.SetDefault(KeySubmitNewRowWait, 3*time.Second)
	v.SetDefault(KeySubmitFieldPause, 200*time.Millisecond)
	v.SetDefault(KeySubmitEntryPause, 500*time.Millisecond)
	v.SetDefault(KeySubmitTabOrder, []string{
		"date", "tab", "tab", "project", "tab", "activity", "tab", "work_item",
		"tab", "tab", "hours", "tab", "tab", "tab", "comment",
	})
	v.SetDefault(KeySubmitSuggestion, "[role='option']")
	v.SetDefault(KeySubmitErrorBanner, "[role='alert']")
}

func validateTabOrder(tokens []string) error {
	validTokens := map[string]bool{
		"date":      true,
		"project":   true,
		"activity":  true,
		"work_item": true,
		"hours":     true,
		"comment":   true,
		"tab":       true,
		"suggest":   true,
	}
	hasDate := false
	for i, token := range tokens {
		normalized := strings.ToLower(strings.TrimSpace(token))
		if !validTokens[normalized] {
			return fmt.Errorf(
				"validation failed: submit.tab_order[%d] %q is not supported (valid: date, project, activity, work_item, hours, comment, tab, suggest)",
				i,
				token,
			)
		}
		if normalized == "date" {
			hasDate = true
		}
	}
	if !hasDate {
		return fmt.Errorf("validation failed: submit.tab_order must contain date")
	}
	return nil
}
