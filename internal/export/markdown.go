package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/convolog/conversations"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(c *conversations.Conversation, w io.Writer) error {
	dialog := c.Dialog()
	turnCount := 0
	for _, pair := range dialog {
		turnCount += len(pair)
	}

	// Header
	_, _ = fmt.Fprintf(w, "# Conversation\n\n")
	for _, f := range c.Fields() {
		if f.Key == "context" {
			continue
		}
		_, _ = fmt.Fprintf(w, "**%s:** %s  \n", f.Key, f.Value)
	}
	_, _ = fmt.Fprintf(w, "**turns:** %d\n\n", turnCount)

	if context := c.Context(); len(context) > 0 {
		_, _ = fmt.Fprintf(w, "## Context\n\n")
		for _, turn := range context {
			_, _ = fmt.Fprintf(w, "**%s:** %s\n\n", turn.ID(), escapeMarkdown(turn.Text()))
		}
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Dialog\n\n")

	written := 0
	for _, pair := range dialog {
		for _, turn := range pair {
			content := escapeMarkdown(turn.Text())
			_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", turn.ID(), content)

			written++
			// Add horizontal rule after each turn (except the last one)
			if written < turnCount {
				_, _ = fmt.Fprintf(w, "---\n\n")
			}
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
