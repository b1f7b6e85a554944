package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"chronoassist/config"

	"github.com/spf13/cobra"
)

var authLoginTimeout time.Duration

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open the browser for an interactive login and keep the session in the profile.",
	Long: `Open a visible browser on the persistent profile and navigate to app.url.

Complete the Microsoft login in the browser. The command waits for the login gate
(login.mode: marker or console) and exits once it passes. The session is stored in
$HOME/.chronoassist/profiles/<profile_name> (or browser.profile_root).`,
	Example: `
  # Log in and keep the session
  chronoassist auth login

  # Allow more time for MFA
  chronoassist auth login --timeout 10m
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt)
		defer stop()

		logger := newLogger(cmd.ErrOrStderr(), "auth")
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if authLoginTimeout > 0 {
			cfg.Login.Timeout = authLoginTimeout
		}
		// A login always needs a visible window.
		cfg.Browser.Headless = false

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Complete the login in the opened browser.")
		fmt.Fprintf(out, "Waiting for login (mode: %s, timeout: %s)...\n", cfg.Login.Mode, cfg.Login.Timeout)

		session, err := openSession(ctx, cfg, sessionIO{In: cmd.InOrStdin(), Out: out}, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		if location, err := session.Location(ctx); err == nil {
			fmt.Fprintf(out, "Logged in at: %s\n", location)
		}
		fmt.Fprintf(out, "Login state saved in profile %q.\n", cfg.Browser.ProfileName)
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)

	authLoginCmd.Flags().DurationVar(&authLoginTimeout, "timeout", 0, "Override login.timeout for this login")
}
