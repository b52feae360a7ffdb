package conversations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Defaults applied to SaveOptions fields left at their zero value.
const (
	DefaultSaveKeys   = "text,labels,eval_labels"
	DefaultContextIDs = "context"
)

// SaveOptions adjusts how Save projects raw acts into turn records. The zero
// value selects the defaults.
type SaveOptions struct {
	// SaveKeys names the act fields, comma separated, copied onto every
	// written turn. A named field absent from an act is written as "".
	SaveKeys string
	// ContextIDs names the speaker ids, comma separated, whose turns
	// describe conversation setup rather than dialog.
	ContextIDs string
	// SelfChat is recorded in the metadata sidecar.
	SelfChat bool
	// Extra holds additional top-level fields for the metadata sidecar.
	Extra map[string]any
}

type conversationRecord struct {
	Dialog       [][]Turn `json:"dialog"`
	Context      []Turn   `json:"context"`
	MetadataPath string   `json:"metadata_path"`
}

// Save projects episodes into the conversations format at the path derived
// from datapath, one record per line, then writes the paired metadata
// sidecar. Turns whose id is in ContextIDs land in the record's context
// list; every other turn joins its pair in dialog and registers its speaker,
// first-seen order, for the sidecar. Episodes with no turn-pairs produce no
// output line. The file is rewritten in full on every call.
func Save(episodes []Episode, datapath string, opt map[string]any, opts *SaveOptions) error {
	if opts == nil {
		opts = &SaveOptions{}
	}
	saveKeys := opts.SaveKeys
	if saveKeys == "" {
		saveKeys = DefaultSaveKeys
	}
	contextIDs := opts.ContextIDs
	if contextIDs == "" {
		contextIDs = DefaultContextIDs
	}
	keys := strings.Split(saveKeys, ",")
	contextSet := make(map[string]bool)
	for _, id := range strings.Split(contextIDs, ",") {
		contextSet[id] = true
	}

	dest := DataPath(datapath)
	metaPath := MetadataPath(dest)

	speakers := []string{}
	seen := make(map[string]bool)

	var buf bytes.Buffer
	for _, ep := range episodes {
		if len(ep) == 0 {
			continue
		}
		record := conversationRecord{
			Dialog:       [][]Turn{},
			Context:      []Turn{},
			MetadataPath: metaPath,
		}
		for _, pair := range ep {
			newPair := []Turn{}
			for _, act := range pair {
				id := stringify(act["id"])
				turn := make(Turn, len(keys)+1)
				for _, key := range keys {
					if v, ok := act[key]; ok {
						turn[key] = v
					} else {
						turn[key] = ""
					}
				}
				if v, ok := act["id"]; ok {
					turn["id"] = v
				} else {
					turn["id"] = ""
				}
				if contextSet[id] {
					record.Context = append(record.Context, turn)
					continue
				}
				newPair = append(newPair, turn)
				if !seen[id] {
					seen[id] = true
					speakers = append(speakers, id)
				}
			}
			if len(newPair) > 0 {
				record.Dialog = append(record.Dialog, newPair)
			}
		}
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode conversation: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	fmt.Fprintf(stdout, " [ Conversations saved to file: %s ]\n", dest)

	return SaveMetadata(dest, opt, opts.SelfChat, speakers, opts.Extra)
}
