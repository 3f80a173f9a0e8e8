package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

// TestWorkspaceCommandGroup tests that the workspace group wires all
// subcommands.
func TestWorkspaceCommandGroup(t *testing.T) {
	cmd := newWorkspaceCmd()
	if cmd == nil {
		t.Fatal("newWorkspaceCmd() returned nil")
	}

	want := []string{"view", "tree", "cat", "download", "upload", "rm", "watch"}
	for _, name := range want {
		if findSubcommand(cmd, name) == nil {
			t.Errorf("workspace subcommand %q not found", name)
		}
	}
}

func findSubcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

// TestWorkspaceDownloadFlags tests the download command flags.
func TestWorkspaceDownloadFlags(t *testing.T) {
	cmd := newWorkspaceDownloadCmd()

	if cmd.Flags().Lookup("output-dir") == nil {
		t.Error("--output-dir flag not found")
	}
	if cmd.Flags().Lookup("overwrite") == nil {
		t.Error("--overwrite flag not found")
	}
	if cmd.RunE == nil {
		t.Error("RunE function is nil")
	}
}

// TestWorkspaceUploadFlags tests the upload command flags.
func TestWorkspaceUploadFlags(t *testing.T) {
	cmd := newWorkspaceUploadCmd()

	if cmd.Flags().Lookup("max-concurrent") == nil {
		t.Error("--max-concurrent flag not found")
	}
	if cmd.RunE == nil {
		t.Error("RunE function is nil")
	}
}

// TestWorkspaceRmFlags tests the rm command flags.
func TestWorkspaceRmFlags(t *testing.T) {
	cmd := newWorkspaceRmCmd()

	if cmd.Flags().Lookup("force") == nil {
		t.Error("--force flag not found")
	}
}

// TestConfigCommandGroup tests that the config group wires all subcommands.
func TestConfigCommandGroup(t *testing.T) {
	cmd := newConfigCmd()
	if cmd == nil {
		t.Fatal("newConfigCmd() returned nil")
	}

	for _, name := range []string{"show", "set-url", "set-key", "path"} {
		if findSubcommand(cmd, name) == nil {
			t.Errorf("config subcommand %q not found", name)
		}
	}
}

// TestRootCommandFlags tests the global flags.
func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"config", "api-key", "token-file", "api-url", "verbose", "debug"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("global flag --%s not found", name)
		}
	}
}
