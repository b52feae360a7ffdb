package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/convolog/testutil"
)

func TestMetaCommand(t *testing.T) {
	dir := t.TempDir()
	archivePath := testutil.CreateArchiveFixture(t, dir)
	barePath := testutil.CreateBareArchiveFixture(t, dir)

	brokenPath := filepath.Join(dir, "broken.jsonl")
	if err := os.WriteFile(brokenPath, []byte(`{"dialog":[]}`+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.metadata"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "archive with sidecar",
			args: []string{"meta", archivePath},
		},
		{
			name:    "archive without sidecar",
			args:    []string{"meta", barePath},
			wantErr: true,
		},
		{
			name:    "malformed sidecar",
			args:    []string{"meta", brokenPath},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"meta"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("meta error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
