package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chronoassist/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chronoassist",
	Short: "Scrape and submit timesheet entries through a logged-in browser session.",
	Long: `
**********************************************
*               CHRONOASSIST                 *
**********************************************

This CLI drives a visible browser on a persistent profile to read timesheet rows
from the Dynamics 365 timesheet grid, or to type new entries into the entry form.

Standard output always carries exactly one JSON value:
- scrape: an array of entries
- submit: a result object with overallSuccess, message, submittedEntryClientIds, failedEntries

Diagnostics are written to standard error.
`,
	Example: `
  # Create configuration file
  chronoassist config create

  # Log in once so the browser profile keeps the session
  chronoassist auth login

  # Scrape the last 30 days (default) or the last 14 days
  chronoassist scrape
  chronoassist scrape 14

  # Scrape and also export the rows to Excel
  chronoassist scrape --output ./timesheet.xlsx

  # Submit entries passed as a JSON argument
  chronoassist submit '[{"id":"a","Date":"2025-05-13","Project":"P1","Activity":"Dev","Hours":1.5}]'

  # Submit entries from a CSV file
  chronoassist submit --input ./entries.csv
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.chronoassist.yaml, then ./.chronoassist.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chronoassist")
	}

	viper.SetEnvPrefix("CHRONOASSIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: chronoassist config create")
	}
}

// newLogger returns a stderr logger tagged with the command's identity.
func newLogger(w io.Writer, component string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("component", component)
}
