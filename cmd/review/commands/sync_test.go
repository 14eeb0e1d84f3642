// ABOUTME: Tests for sync and export commands
// ABOUTME: Verifies data management command structure

package commands

import (
	"strings"
	"testing"
)

func TestNewSyncCmd(t *testing.T) {
	cmd := NewSyncCmd()

	if cmd.Use != "sync" {
		t.Errorf("Use = %q, want %q", cmd.Use, "sync")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	// Should explain both backends
	if !strings.Contains(cmd.Long, "SQLite") || !strings.Contains(cmd.Long, "REVIEW_BACKEND=charm") {
		t.Error("Long description should explain the storage backends")
	}
}

func TestSyncCmd_Subcommands(t *testing.T) {
	cmd := NewSyncCmd()

	for _, name := range []string{"status", "now", "wipe", "keys"} {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Use == name {
					found = true
					if sub.Short == "" {
						t.Error("Short description should not be empty")
					}
					if sub.RunE == nil {
						t.Error("RunE should be set")
					}
				}
			}
			if !found {
				t.Errorf("Subcommand %q not found", name)
			}
		})
	}
}

func TestSyncWipe_RequiresConfirm(t *testing.T) {
	out, err := runCLI(t, "", "sync", "wipe")
	if err != nil {
		t.Fatalf("sync wipe without --confirm: %v", err)
	}
	if !strings.Contains(out, "--confirm") {
		t.Errorf("output should ask for --confirm:\n%s", out)
	}
}

func TestNewExportCmd(t *testing.T) {
	cmd := NewExportCmd()

	if cmd.Use != "export" {
		t.Errorf("Use = %q, want %q", cmd.Use, "export")
	}

	tests := []struct {
		flagName  string
		shorthand string
		defValue  string
	}{
		{"output", "o", ""},
		{"format", "f", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.flagName, flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}

	for _, format := range []string{"yaml", "json", "markdown"} {
		if !strings.Contains(cmd.Long, format) {
			t.Errorf("Long description should mention %q format", format)
		}
	}
}
