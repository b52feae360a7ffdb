package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/convolog/conversations"
)

// JSONLExporter exports conversations in JSONL format (one turn per line)
type JSONLExporter struct{}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(c *conversations.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)

	// Context turns lead, in stored order
	for _, turn := range c.Context() {
		if err := enc.Encode(turn); err != nil {
			return fmt.Errorf("failed to encode context turn: %w", err)
		}
	}

	for _, pair := range c.Dialog() {
		for _, turn := range pair {
			if err := enc.Encode(turn); err != nil {
				return fmt.Errorf("failed to encode turn: %w", err)
			}
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
