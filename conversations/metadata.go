package conversations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FormatVersion is the metadata format version written by SaveMetadata. Bump
// it whenever the on-disk shape changes.
const FormatVersion = "0.1"

var reservedMetadataKeys = map[string]bool{
	"date":      true,
	"opt":       true,
	"self_chat": true,
	"speakers":  true,
	"version":   true,
}

// Metadata is the sidecar record paired with a conversations file.
type Metadata struct {
	Path     string
	Date     string
	SelfChat bool
	Speakers []string
	Version  string

	raw []byte
}

// MetadataPath derives the sidecar path for a data path: the extension is
// stripped and .metadata appended.
func MetadataPath(datapath string) string {
	return stem(datapath) + ".metadata"
}

// stem strips the path's extension. A leading-dot name with no further
// extension is left whole.
func stem(path string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		return path
	}
	return strings.TrimSuffix(path, ext)
}

// LoadMetadata reads and validates the sidecar for datapath. A missing file
// is a *NotFoundError; invalid JSON or a missing required field is a
// *ParseError.
func LoadMetadata(datapath string) (*Metadata, error) {
	path := MetadataPath(datapath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{What: "metadata", Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	for _, key := range []string{"date", "opt", "self_chat", "speakers", "version"} {
		if _, ok := doc[key]; !ok {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("missing required field %q", key)}
		}
	}

	m := &Metadata{Path: path, raw: data}
	if err := json.Unmarshal(doc["date"], &m.Date); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("date: %w", err)}
	}
	if err := json.Unmarshal(doc["self_chat"], &m.SelfChat); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("self_chat: %w", err)}
	}
	if err := json.Unmarshal(doc["speakers"], &m.Speakers); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("speakers: %w", err)}
	}
	if err := json.Unmarshal(doc["version"], &m.Version); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("version: %w", err)}
	}
	return m, nil
}

// Opt returns the stored options mapping. The blob is an opaque pass-through:
// no shape validation beyond it being readable.
func (m *Metadata) Opt() map[string]any {
	var opt map[string]any
	_ = json.Unmarshal([]byte(gjson.GetBytes(m.raw, "opt").Raw), &opt)
	return opt
}

// Extras returns every non-reserved top-level key in stored order.
func (m *Metadata) Extras() []Field {
	var fields []Field
	gjson.ParseBytes(m.raw).ForEach(func(key, value gjson.Result) bool {
		if !reservedMetadataKeys[key.String()] {
			fields = append(fields, Field{Key: key.String(), Value: displayValue(value)})
		}
		return true
	})
	return fields
}

// Describe renders every field to the standard output channel: version, date,
// self_chat, speakers, the opt keys in stored order, then the extras in
// stored order.
func (m *Metadata) Describe() {
	fmt.Fprintf(stdout, "Metadata version %s\n", m.Version)
	fmt.Fprintf(stdout, "Saved at: %s\n", m.Date)
	fmt.Fprintf(stdout, "Self chat: %v\n", m.SelfChat)
	fmt.Fprintf(stdout, "Speakers: %v\n", m.Speakers)
	fmt.Fprintln(stdout, "Opt:")
	gjson.GetBytes(m.raw, "opt").ForEach(func(key, value gjson.Result) bool {
		fmt.Fprintf(stdout, "\t%s: %s\n", key.String(), displayValue(value))
		return true
	})
	for _, f := range m.Extras() {
		fmt.Fprintf(stdout, "%s: %s\n", f.Key, f.Value)
	}
}

type metadataRecord struct {
	Date     string         `json:"date"`
	Opt      map[string]any `json:"opt"`
	SelfChat bool           `json:"self_chat"`
	Speakers []string       `json:"speakers"`
	Version  string         `json:"version"`
}

// SaveMetadata writes the sidecar for datapath, overwriting any existing one.
// A nil speakers slice is stored as null. Extra fields land after the fixed
// ones, sorted by key so repeated saves are byte-identical.
func SaveMetadata(datapath string, opt map[string]any, selfChat bool, speakers []string, extra map[string]any) error {
	path := MetadataPath(datapath)

	record := metadataRecord{
		Date:     time.Now().Format("2006-01-02 15:04:05.000000"),
		Opt:      opt,
		SelfChat: selfChat,
		Speakers: speakers,
		Version:  FormatVersion,
	}
	out, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out, err = sjson.SetBytes(out, escapePathKey(k), extra[k])
		if err != nil {
			return fmt.Errorf("encode metadata field %q: %w", k, err)
		}
	}

	fmt.Fprintf(stdout, "[ Writing metadata to file %s ]\n", path)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// escapePathKey makes a literal key safe for sjson path syntax.
func escapePathKey(key string) string {
	r := strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`)
	return r.Replace(key)
}
