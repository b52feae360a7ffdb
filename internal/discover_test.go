package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/convolog/testutil"
)

func TestFindTranscriptDBs(t *testing.T) {
	root := testutil.CreateSourceTree(t)

	dbs, err := FindTranscriptDBs(root)
	if err != nil {
		t.Fatalf("FindTranscriptDBs() error = %v", err)
	}

	if len(dbs) != 2 {
		t.Fatalf("FindTranscriptDBs() found %d databases, want 2: %v", len(dbs), dbs)
	}
	// filepath.Walk yields lexical order
	if filepath.Base(dbs[0]) != "transcripts.db" {
		t.Errorf("First hit = %s, want transcripts.db", dbs[0])
	}
	if filepath.Base(dbs[1]) != "transcripts.sqlite" {
		t.Errorf("Second hit = %s, want transcripts.sqlite", dbs[1])
	}
}

func TestFindTranscriptDBsExtensionCase(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.DB", "b.SQLite3", "c.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	dbs, err := FindTranscriptDBs(root)
	if err != nil {
		t.Fatalf("FindTranscriptDBs() error = %v", err)
	}
	if len(dbs) != 2 {
		t.Errorf("FindTranscriptDBs() found %d databases, want 2: %v", len(dbs), dbs)
	}
}

func TestFindTranscriptDBsSingleFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "one.db")
	testutil.CreateTranscriptFixture(t, dbPath)

	dbs, err := FindTranscriptDBs(dbPath)
	if err != nil {
		t.Fatalf("FindTranscriptDBs() error = %v", err)
	}
	if len(dbs) != 1 || dbs[0] != dbPath {
		t.Errorf("FindTranscriptDBs() = %v, want just %s", dbs, dbPath)
	}
}

func TestFindTranscriptDBsMissingRoot(t *testing.T) {
	_, err := FindTranscriptDBs(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("FindTranscriptDBs() expected error for missing root")
	}
}

func TestFindArchives(t *testing.T) {
	root := t.TempDir()
	testutil.CreateArchiveFixture(t, root)
	nested := filepath.Join(root, "older")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}
	testutil.CreateBareArchiveFixture(t, nested)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	archives, err := FindArchives(root)
	if err != nil {
		t.Fatalf("FindArchives() error = %v", err)
	}

	if len(archives) != 2 {
		t.Fatalf("FindArchives() found %d archives, want 2: %v", len(archives), archives)
	}
	if filepath.Base(archives[0]) != "chats.jsonl" {
		t.Errorf("First hit = %s, want chats.jsonl", archives[0])
	}
	if filepath.Base(archives[1]) != "orphan.jsonl" {
		t.Errorf("Second hit = %s, want orphan.jsonl", archives[1])
	}
}

func TestFindArchivesSingleFile(t *testing.T) {
	archivePath := testutil.CreateArchiveFixture(t, t.TempDir())

	archives, err := FindArchives(archivePath)
	if err != nil {
		t.Fatalf("FindArchives() error = %v", err)
	}
	if len(archives) != 1 || archives[0] != archivePath {
		t.Errorf("FindArchives() = %v, want just %s", archives, archivePath)
	}
}
