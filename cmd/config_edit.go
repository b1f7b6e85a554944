package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"chronoassist/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active chronoassist config file in your editor ($VISUAL, then $EDITOR, then vi).

If no config file exists yet, the example template is written first. After the editor
exits the file is validated; selectors and timings that fail validation are reported
and the file is left as edited so it can be fixed.`,
	Example: `
  # Edit active config
  chronoassist config edit

  # Edit with a specific editor
  VISUAL="code --wait" chronoassist config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		created, err := ensureConfigTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "No config file found. Created example config at: %s\n", configPath)
		}

		editor, err := editorCommand(editorFromEnv(os.Getenv("VISUAL"), os.Getenv("EDITOR")), configPath)
		if err != nil {
			return err
		}
		editor.Stdin = cmd.InOrStdin()
		editor.Stdout = out
		editor.Stderr = cmd.ErrOrStderr()
		if err := editor.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading edited config failed: %w", err)
		}
		cfg, err := config.ValidateYAMLContent(content)
		if err != nil {
			return fmt.Errorf("config validation failed in %s: %w", configPath, err)
		}

		fmt.Fprintf(out, "Configuration saved and validated: %s\n", configPath)
		fmt.Fprintf(out, "Target: %s (profile %q, login mode %s)\n", cfg.App.URL, cfg.Browser.ProfileName, cfg.Login.Mode)
		return nil
	},
}

// resolveConfigPath picks the --configFile flag, then the file viper loaded,
// then $HOME/.chronoassist.yaml.
func resolveConfigPath(flagValue, loaded string) (string, error) {
	for _, candidate := range []string{flagValue, loaded} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chronoassist.yaml"), nil
}

// ensureConfigTemplate writes the example config to path unless a file is
// already there. It reports whether a file was written.
func ensureConfigTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func editorFromEnv(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// editorCommand splits an editor value such as "code --wait" and appends path.
func editorCommand(editorValue, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], path)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
