package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iksnae/convolog/conversations"
)

// TranscriptReader ingests dialog episodes from transcript SQLite databases.
type TranscriptReader struct {
	dbPaths []string
}

// NewTranscriptReader creates a new TranscriptReader over the given databases
func NewTranscriptReader(dbPaths []string) *TranscriptReader {
	return &TranscriptReader{dbPaths: dbPaths}
}

// ReadAll loads episodes from every database. A database that cannot be read
// is skipped so one bad file does not sink the whole import.
func (r *TranscriptReader) ReadAll() ([]conversations.Episode, error) {
	var all []conversations.Episode
	for _, dbPath := range r.dbPaths {
		episodes, err := readEpisodesFromFile(dbPath)
		if err != nil {
			LogWarn("Failed to load transcripts from %s: %v", dbPath, err)
			continue
		}
		LogInfo("Loaded %d episodes from %s", len(episodes), dbPath)
		all = append(all, episodes...)
	}
	LogInfo("Total loaded: %d episodes from %d databases", len(all), len(r.dbPaths))
	return all, nil
}

func readEpisodesFromFile(dbPath string) ([]conversations.Episode, error) {
	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return ReadEpisodes(db)
}

// ReadEpisodes extracts every episode from a database's turns table. Two
// shapes are recognized: columnar (speaker and text columns) and payload
// (one JSON act per row). Column names vary between producers, so the table
// is probed and the first matching candidate is used.
func ReadEpisodes(db *sql.DB) ([]conversations.Episode, error) {
	exists, err := TableExists(db, "turns")
	if err != nil {
		return nil, err
	}
	if !exists {
		return []conversations.Episode{}, nil
	}

	columns, err := TableColumns(db, "turns")
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return []conversations.Episode{}, nil
	}

	episodeCol := firstPresent(columns, "episode", "conversation", "session_id")
	if episodeCol == "" {
		return nil, fmt.Errorf("turns table has no episode column (columns: %v)", columns)
	}
	orderCol := firstPresent(columns, "seq", "turn", "position")
	if orderCol == "" {
		orderCol = "rowid"
	}
	pairCol := firstPresent(columns, "pair", "exchange")

	if payloadCol := firstPresent(columns, "payload", "act", "data"); payloadCol != "" {
		return readPayloadRows(db, episodeCol, pairCol, orderCol, payloadCol)
	}

	speakerCol := firstPresent(columns, "speaker", "id", "agent")
	textCol := firstPresent(columns, "text", "message", "utterance")
	if speakerCol == "" || textCol == "" {
		return nil, fmt.Errorf("turns table has no usable turn columns (columns: %v)", columns)
	}
	return readColumnarRows(db, episodeCol, pairCol, orderCol, speakerCol, textCol)
}

// turnRow is one scanned row, with enough grouping context to rebuild the
// episode and pair structure.
type turnRow struct {
	episode string
	pair    string
	hasPair bool
	act     conversations.Act
}

func readColumnarRows(db *sql.DB, episodeCol, pairCol, orderCol, speakerCol, textCol string) ([]conversations.Episode, error) {
	selectCols := fmt.Sprintf("%s, %s, %s", episodeCol, speakerCol, textCol)
	hasPair := pairCol != ""
	if hasPair {
		selectCols = fmt.Sprintf("%s, %s", selectCols, pairCol)
	}
	query := fmt.Sprintf("SELECT %s FROM turns ORDER BY %s, %s", selectCols, episodeCol, orderCol)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns table: %w", err)
	}
	defer rows.Close()

	var parsed []turnRow
	rowCount := 0
	for rows.Next() {
		rowCount++
		var episode string
		var speaker, text, pairVal sql.NullString
		dests := []any{&episode, &speaker, &text}
		if hasPair {
			dests = append(dests, &pairVal)
		}
		if err := rows.Scan(dests...); err != nil {
			LogWarn("Failed to scan turn row %d: %v", rowCount, err)
			continue
		}
		parsed = append(parsed, turnRow{
			episode: episode,
			pair:    pairVal.String,
			hasPair: hasPair,
			act:     conversations.Act{"id": speaker.String, "text": text.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return groupRows(parsed), nil
}

func readPayloadRows(db *sql.DB, episodeCol, pairCol, orderCol, payloadCol string) ([]conversations.Episode, error) {
	selectCols := fmt.Sprintf("%s, %s", episodeCol, payloadCol)
	hasPair := pairCol != ""
	if hasPair {
		selectCols = fmt.Sprintf("%s, %s", selectCols, pairCol)
	}
	query := fmt.Sprintf("SELECT %s FROM turns ORDER BY %s, %s", selectCols, episodeCol, orderCol)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns table: %w", err)
	}
	defer rows.Close()

	var parsed []turnRow
	rowCount := 0
	jsonParseFailures := 0
	for rows.Next() {
		rowCount++
		var episode string
		var payload, pairVal sql.NullString
		dests := []any{&episode, &payload}
		if hasPair {
			dests = append(dests, &pairVal)
		}
		if err := rows.Scan(dests...); err != nil {
			LogWarn("Failed to scan turn row %d: %v", rowCount, err)
			continue
		}
		if !payload.Valid {
			LogWarn("Turn row %d has NULL payload", rowCount)
			continue
		}
		var act conversations.Act
		if err := json.Unmarshal([]byte(payload.String), &act); err != nil {
			jsonParseFailures++
			if jsonParseFailures <= 5 {
				preview := payload.String
				if len(preview) > 100 {
					preview = preview[:100] + "..."
				}
				LogWarn("Turn row %d failed JSON parse: %v. Payload preview: %s", rowCount, err, preview)
			}
			continue
		}
		parsed = append(parsed, turnRow{
			episode: episode,
			pair:    pairVal.String,
			hasPair: hasPair,
			act:     act,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if jsonParseFailures > 0 {
		LogWarn("Failed to parse %d/%d turn payloads as JSON", jsonParseFailures, rowCount)
	}

	return groupRows(parsed), nil
}

// groupRows rebuilds episode and pair structure from ordered rows. Rows with
// an explicit pair value are grouped by it; without one, turns are paired
// two by two, the usual exchange shape.
func groupRows(rows []turnRow) []conversations.Episode {
	var episodes []conversations.Episode
	var episode conversations.Episode
	var pair []conversations.Act
	var lastEpisode, lastPair string

	flushPair := func() {
		if len(pair) > 0 {
			episode = append(episode, pair)
			pair = nil
		}
	}
	flushEpisode := func() {
		flushPair()
		if len(episode) > 0 {
			episodes = append(episodes, episode)
			episode = nil
		}
	}

	for i, row := range rows {
		switch {
		case i > 0 && row.episode != lastEpisode:
			flushEpisode()
		case i > 0 && row.hasPair && row.pair != lastPair:
			flushPair()
		case i > 0 && !row.hasPair && len(pair) == 2:
			flushPair()
		}
		pair = append(pair, row.act)
		lastEpisode = row.episode
		lastPair = row.pair
	}
	flushEpisode()

	return episodes
}

// ReadSettingsFromFile opens a database and reads its settings table.
func ReadSettingsFromFile(dbPath string) (map[string]any, error) {
	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return ReadSettings(db)
}

// ReadSettings loads the producer's key/value settings table when one is
// present. Values that parse as JSON keep their parsed shape; anything else
// stays a string.
func ReadSettings(db *sql.DB) (map[string]any, error) {
	var table string
	for _, candidate := range []string{"settings", "meta", "opt"} {
		exists, err := TableExists(db, candidate)
		if err != nil {
			return nil, err
		}
		if exists {
			table = candidate
			break
		}
	}
	if table == "" {
		return map[string]any{}, nil
	}

	columns, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}

	var query string
	if containsString(columns, "key") && containsString(columns, "value") {
		query = fmt.Sprintf("SELECT key, value FROM %s WHERE value IS NOT NULL", table)
	} else if len(columns) >= 2 {
		query = fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IS NOT NULL", columns[0], columns[1], table, columns[1])
	} else {
		return map[string]any{}, nil
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s table: %w", table, err)
	}
	defer rows.Close()

	settings := make(map[string]any)
	rowCount := 0
	for rows.Next() {
		rowCount++
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			LogWarn("Failed to scan settings row %d: %v", rowCount, err)
			continue
		}
		if !value.Valid {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(value.String), &parsed); err == nil {
			settings[key] = parsed
		} else {
			settings[key] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return settings, nil
}

// Helper functions

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func firstPresent(columns []string, candidates ...string) string {
	for _, c := range candidates {
		if containsString(columns, c) {
			return c
		}
	}
	return ""
}
