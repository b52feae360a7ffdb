package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/convolog/internal"
)

// resetRootFlags clears cobra's built-in help and version flags, which keep
// their parsed values between Execute calls.
func resetRootFlags() {
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRootFlags()
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	resetRootFlags()
	rootCmd.SetArgs([]string{"--version"})
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "dev") {
		t.Errorf("version output missing version string: %q", out)
	}
	if !strings.Contains(out, "commit:") {
		t.Errorf("version output missing commit: %q", out)
	}
}

func TestRootCommand_VerboseFlag(t *testing.T) {
	// Reset so later tests run at the quiet default again
	defer func() {
		verbose = false
		internal.SetVerbose(false)
	}()

	rootCmd.SetArgs([]string{"--verbose", "list", t.TempDir()})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("list on an empty directory should succeed, got %v", err)
	}
}
