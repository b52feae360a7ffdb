package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateColumnarTurnsDB creates a turns table with speaker and text columns
// and two episodes of sample rows
func CreateColumnarTurnsDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS turns (
		episode TEXT,
		seq INTEGER,
		speaker TEXT,
		text TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
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
		{"ep1", 3, "speaker_1", "bye"},
		{"ep1", 4, "speaker_2", "see you"},
		{"ep2", 1, "speaker_1", "still there?"},
		{"ep2", 2, "speaker_2", "yes"},
	}
	for _, row := range rows {
		InsertTurn(t, db, row.episode, row.seq, row.speaker, row.text)
	}

	return db
}

// CreatePayloadTurnsDB creates a turns table holding one JSON act per row,
// grouped by an explicit pair column
func CreatePayloadTurnsDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS turns (
		episode TEXT,
		seq INTEGER,
		pair INTEGER,
		payload TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create turns table: %v", err)
	}

	rows := []struct {
		episode string
		seq     int
		pair    int
		payload string
	}{
		{"ep1", 1, 1, `{"id":"context","text":"room A"}`},
		{"ep1", 2, 2, `{"id":"speaker_1","text":"hi","labels":["greeting"]}`},
		{"ep1", 3, 2, `{"id":"speaker_2","text":"hello"}`},
		{"ep2", 1, 1, `{"id":"speaker_1","text":"anyone?"}`},
	}
	insertSQL := "INSERT INTO turns (episode, seq, pair, payload) VALUES (?, ?, ?, ?)"
	for _, row := range rows {
		if _, err := db.Exec(insertSQL, row.episode, row.seq, row.pair, row.payload); err != nil {
			t.Fatalf("Failed to insert payload turn: %v", err)
		}
	}

	return db
}

// InsertTurn inserts one columnar turn row
func InsertTurn(t *testing.T, db *sql.DB, episode string, seq int, speaker, text string) {
	t.Helper()
	insertSQL := "INSERT INTO turns (episode, seq, speaker, text) VALUES (?, ?, ?, ?)"
	if _, err := db.Exec(insertSQL, episode, seq, speaker, text); err != nil {
		t.Fatalf("Failed to insert turn: %v", err)
	}
}

// InsertPayloadTurn inserts one payload turn row
func InsertPayloadTurn(t *testing.T, db *sql.DB, episode string, seq, pair int, payload string) {
	t.Helper()
	insertSQL := "INSERT INTO turns (episode, seq, pair, payload) VALUES (?, ?, ?, ?)"
	if _, err := db.Exec(insertSQL, episode, seq, pair, payload); err != nil {
		t.Fatalf("Failed to insert payload turn: %v", err)
	}
}

// CreateSettingsTable creates a key/value settings table
func CreateSettingsTable(t *testing.T, db *sql.DB) {
	t.Helper()
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create settings table: %v", err)
	}
}

// InsertSetting inserts one settings row
func InsertSetting(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT INTO settings (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert setting: %v", err)
	}
}
