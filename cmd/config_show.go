package cmd

import (
	"fmt"
	"io"
	"strings"

	"chronoassist/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration (file values over defaults, environment over both)
and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  chronoassist config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		out := cmd.OutOrStdout()
		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(out, "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(out, "No config file loaded, showing defaults.")
		}
		fmt.Fprintln(out, "Configuration:")
		printConfig(out, cfg)
		return nil
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "app.url: %s\n", cfg.App.URL)

	profileRoot := cfg.Browser.ProfileRoot
	if profileRoot == "" {
		profileRoot = "$HOME/.chronoassist/profiles (default)"
	}
	fmt.Fprintf(out, "browser.profile_root: %s\n", profileRoot)
	fmt.Fprintf(out, "browser.profile_name: %s\n", cfg.Browser.ProfileName)
	fmt.Fprintf(out, "browser.exec_path: %s\n", cfg.Browser.ExecPath)
	fmt.Fprintf(out, "browser.headless: %t\n", cfg.Browser.Headless)

	fmt.Fprintf(out, "login.mode: %s\n", cfg.Login.Mode)
	fmt.Fprintf(out, "login.marker: %s\n", cfg.Login.Marker)
	fmt.Fprintf(out, "login.timeout: %s\n", cfg.Login.Timeout)
	fmt.Fprintf(out, "login.poll_interval: %s\n", cfg.Login.PollInterval)

	fmt.Fprintf(out, "scrape.days_back: %d\n", cfg.Scrape.DaysBack)
	fmt.Fprintf(out, "scrape.max_scrolls: %d\n", cfg.Scrape.MaxScrolls)
	fmt.Fprintf(out, "scrape.scroll_pause: %s\n", cfg.Scrape.ScrollPause)
	fmt.Fprintf(out, "scrape.grid_load_wait: %s\n", cfg.Scrape.GridLoadWait)
	for i, step := range cfg.Scrape.OpenSteps {
		fmt.Fprintf(out, "scrape.open_steps[%d]: %s\n", i, step)
	}
	fmt.Fprintf(out, "scrape.focus: %s\n", cfg.Scrape.Focus)
	fmt.Fprintf(out, "scrape.container: %s\n", cfg.Scrape.Container)
	fmt.Fprintf(out, "scrape.date_layouts: %s\n", strings.Join(cfg.Scrape.DateLayouts, ", "))
	fmt.Fprintf(out, "scrape.columns.date: %s\n", cfg.Scrape.Columns.Date)
	fmt.Fprintf(out, "scrape.columns.project: %s\n", cfg.Scrape.Columns.Project)
	fmt.Fprintf(out, "scrape.columns.activity: %s\n", cfg.Scrape.Columns.Activity)
	fmt.Fprintf(out, "scrape.columns.work_item: %s\n", cfg.Scrape.Columns.WorkItem)
	fmt.Fprintf(out, "scrape.columns.comment: %s\n", cfg.Scrape.Columns.Comment)

	for i, step := range cfg.Submit.OpenSteps {
		fmt.Fprintf(out, "submit.open_steps[%d]: %s\n", i, step)
	}
	fmt.Fprintf(out, "submit.ready_marker: %s\n", cfg.Submit.ReadyMarker)
	fmt.Fprintf(out, "submit.ready_timeout: %s\n", cfg.Submit.ReadyTimeout)
	fmt.Fprintf(out, "submit.new_row: %s\n", cfg.Submit.NewRow)
	fmt.Fprintf(out, "submit.new_row_wait: %s\n", cfg.Submit.NewRowWait)
	fmt.Fprintf(out, "submit.field_pause: %s\n", cfg.Submit.FieldPause)
	fmt.Fprintf(out, "submit.entry_pause: %s\n", cfg.Submit.EntryPause)
	fmt.Fprintf(out, "submit.tab_order: %s\n", strings.Join(cfg.Submit.TabOrder, " "))
	fmt.Fprintf(out, "submit.suggestion: %s\n", cfg.Submit.Suggestion)
	fmt.Fprintf(out, "submit.error_banner: %s\n", cfg.Submit.ErrorBanner)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
