package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateTranscriptFixture creates a transcript SQLite database fixture with
// a columnar turns table, a settings table, and sample data
func CreateTranscriptFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTurnsSQL := `
	CREATE TABLE IF NOT EXISTS turns (
		episode TEXT,
		seq INTEGER,
		speaker TEXT,
		text TEXT
	)`
	if _, err := db.Exec(createTurnsSQL); err != nil {
		t.Fatalf("Failed to create turns table: %v", err)
	}

	rows := []struct {
		episode string
		seq     int
		speaker string
		text    string
	}{
		{"ep1", 1, "speaker_1", "hi"},
		{"ep1", 2, "speaker_2", "hello"},
		{"ep2", 1, "speaker_1", "anyone?"},
	}
	insertSQL := "INSERT INTO turns (episode, seq, speaker, text) VALUES (?, ?, ?, ?)"
	for _, row := range rows {
		if _, err := db.Exec(insertSQL, row.episode, row.seq, row.speaker, row.text); err != nil {
			t.Fatalf("Failed to insert turn: %v", err)
		}
	}

	createSettingsSQL := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createSettingsSQL); err != nil {
		t.Fatalf("Failed to create settings table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", "model", `"gpt2"`); err != nil {
		t.Fatalf("Failed to insert setting: %v", err)
	}
}

// CreateArchiveFixture writes a two-conversation archive plus its metadata
// sidecar under dir and returns the archive path
func CreateArchiveFixture(t *testing.T, dir string) string {
	t.Helper()
	archivePath := filepath.Join(dir, "chats.jsonl")
	lines := `{"dialog":[[{"id":"speaker_1","text":"hi"},{"id":"speaker_2","text":"hello"}],[{"id":"speaker_1","text":"bye"}]],"context":[{"id":"context","text":"room A"}],"metadata_path":"chats.metadata","rating":4}
{"dialog":[[{"id":"speaker_1","text":"anyone?"}]],"context":[],"metadata_path":"chats.metadata"}
`
	if err := os.WriteFile(archivePath, []byte(lines), 0644); err != nil {
		t.Fatalf("Failed to write archive fixture: %v", err)
	}

	metadata := `{"date":"2024-05-01 12:00:00.000000","opt":{"model":"gpt2","task":"self_chat"},"self_chat":true,"speakers":["speaker_1","speaker_2"],"version":"0.1","tag":"nightly"}`
	metadataPath := filepath.Join(dir, "chats.metadata")
	if err := os.WriteFile(metadataPath, []byte(metadata), 0644); err != nil {
		t.Fatalf("Failed to write metadata fixture: %v", err)
	}

	return archivePath
}

// CreateBareArchiveFixture writes an archive with no metadata sidecar under
// dir and returns the archive path
func CreateBareArchiveFixture(t *testing.T, dir string) string {
	t.Helper()
	archivePath := filepath.Join(dir, "orphan.jsonl")
	line := `{"dialog":[[{"id":"speaker_1","text":"lost"}]],"context":[],"metadata_path":"orphan.metadata"}
`
	if err := os.WriteFile(archivePath, []byte(line), 0644); err != nil {
		t.Fatalf("Failed to write archive fixture: %v", err)
	}
	return archivePath
}

// CreateSourceTree creates a nested directory holding transcript databases
// and one unrelated file, mirroring a producer's output directory
func CreateSourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	CreateTranscriptFixture(t, filepath.Join(root, "run1", "transcripts.db"))
	CreateTranscriptFixture(t, filepath.Join(root, "run2", "nested", "transcripts.sqlite"))

	notesPath := filepath.Join(root, "run1", "notes.txt")
	if err := os.WriteFile(notesPath, []byte("not a database"), 0644); err != nil {
		t.Fatalf("Failed to write notes file: %v", err)
	}

	return root
}
