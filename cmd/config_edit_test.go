package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chronoassist/config"
)

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name   string
		flag   string
		loaded string
		want   string
	}{
		{name: "flag wins", flag: "./custom.yaml", loaded: "/tmp/active.yaml", want: "./custom.yaml"},
		{name: "loaded file when flag is empty", flag: " ", loaded: "/tmp/active.yaml", want: "/tmp/active.yaml"},
		{name: "home fallback", want: filepath.Join(home, ".chronoassist.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveConfigPath(tt.flag, tt.loaded)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEnsureConfigTemplateWritesValidExampleOnce(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "chronoassist.yaml")

	created, err := ensureConfigTemplate(configPath)
	if err != nil {
		t.Fatalf("unexpected error creating template config: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error reading config file: %v", err)
	}
	if !strings.HasPrefix(string(content), "# chronoassist configuration") {
		t.Fatalf("expected example config content, got:\n%s", string(content))
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		t.Fatalf("expected written template to validate: %v", err)
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("unexpected error stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	if err := os.WriteFile(configPath, []byte("scrape:\n  days_back: 7\n"), 0o600); err != nil {
		t.Fatalf("overwrite config: %v", err)
	}
	created, err = ensureConfigTemplate(configPath)
	if err != nil {
		t.Fatalf("unexpected error on existing config file: %v", err)
	}
	if created {
		t.Fatalf("did not expect existing file to be recreated")
	}
	content, _ = os.ReadFile(configPath)
	if string(content) != "scrape:\n  days_back: 7\n" {
		t.Fatalf("existing config was modified:\n%s", string(content))
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		name     string
		visual   string
		editor   string
		wantArgs []string
	}{
		{name: "visual with flags", visual: "code --wait", editor: "nano", wantArgs: []string{"code", "--wait", "/tmp/cfg.yaml"}},
		{name: "editor fallback", editor: "nano", wantArgs: []string{"nano", "/tmp/cfg.yaml"}},
		{name: "default vi", visual: "  ", wantArgs: []string{"vi", "/tmp/cfg.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := editorCommand(editorFromEnv(tt.visual, tt.editor), "/tmp/cfg.yaml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Fatalf("expected args %v, got %v", tt.wantArgs, cmd.Args)
			}
		})
	}

	if _, err := editorCommand("   ", "/tmp/cfg.yaml"); err == nil {
		t.Fatalf("expected error for empty editor")
	}
}
