package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chronoassist configuration file values.",
	Long: `Create, edit, display, and delete the chronoassist configuration file.

The configuration stores the selector and timing map used against the timesheet application:
- app.url
- browser.profile_name / headless / exec_path
- login.mode / marker / timeout
- scrape.days_back / max_scrolls / columns.*
- submit.open_steps / tab_order / error_banner`,
	Example: `
  # Create default config in $HOME/.chronoassist.yaml
  chronoassist config create

  # Show active config and source file
  chronoassist config show

  # Open active config in editor (creates example if missing)
  chronoassist config edit

  # Delete active config file
  chronoassist config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
