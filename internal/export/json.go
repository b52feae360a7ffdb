package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/convolog/conversations"
)

// JSONExporter exports conversations in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a conversation to JSON format. The stored record is
// reindented, not rebuilt, so top-level key order survives.
func (e *JSONExporter) Export(c *conversations.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(c)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
