package cmd

import "github.com/spf13/cobra"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Prepare the persistent browser profile for the timesheet application.",
	Long: `Authentication helpers for the browser profile used by scrape and submit.

Use "auth login" to log in interactively once. The session cookies stay in the profile
directory, so later runs pass the login gate without operator interaction.`,
}

func init() {
	rootCmd.AddCommand(authCmd)
}
