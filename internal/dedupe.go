package internal

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/iksnae/convolog/conversations"
)

// Deduplicator removes episodes that repeat the same dialog, as happens when
// overlapping transcript databases are imported together.
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first occurrence of each distinct episode based on
// content hash.
func (d *Deduplicator) Deduplicate(episodes []conversations.Episode) []conversations.Episode {
	seen := make(map[string]bool)
	var unique []conversations.Episode

	for _, ep := range episodes {
		hash := d.hashEpisodeContent(ep)
		if !seen[hash] {
			seen[hash] = true
			unique = append(unique, ep)
		}
	}

	return unique
}

// hashEpisodeContent creates a content-based hash for an episode
func (d *Deduplicator) hashEpisodeContent(ep conversations.Episode) string {
	h := sha256.New()

	// Hash every turn's speaker and text, keeping pair boundaries visible
	for _, pair := range ep {
		for _, act := range pair {
			turn := conversations.Turn(act)
			h.Write([]byte(turn.ID()))
			h.Write([]byte{0})
			h.Write([]byte(turn.Text()))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}

	return hex.EncodeToString(h.Sum(nil))
}
