package conversations

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Act is one raw turn record as produced by a dialogue framework, before
// context/dialog splitting.
type Act map[string]any

// Episode is one conversation's ordered turn-pair sequence, each pair an
// ordered sequence of acts.
type Episode [][]Act

// Turn is one stored turn: "id" plus the fields selected at save time.
type Turn map[string]any

// ID returns the turn's speaker identity, or "" when absent.
func (t Turn) ID() string {
	return stringify(t["id"])
}

// Text returns the turn's utterance, or "" when absent.
func (t Turn) Text() string {
	return stringify(t["text"])
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Field is one conversation-level or metadata key rendered for display.
type Field struct {
	Key   string
	Value string
}

// Conversation is one line of a conversations file. The raw line is kept
// verbatim so top-level keys beyond dialog survive untouched.
type Conversation struct {
	raw       []byte
	dialog    [][]Turn
	hasDialog bool
}

// parseConversation parses a single file line into a Conversation.
func parseConversation(line []byte) (*Conversation, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, err
	}

	c := &Conversation{raw: append([]byte(nil), line...)}
	if d, ok := probe["dialog"]; ok {
		if err := json.Unmarshal(d, &c.dialog); err != nil {
			return nil, fmt.Errorf("dialog: %w", err)
		}
		c.hasDialog = true
	}
	return c, nil
}

// Dialog returns the parsed turn-pair sequence, nil when the record has no
// dialog key.
func (c *Conversation) Dialog() [][]Turn {
	return c.dialog
}

// HasDialog reports whether the record carries a dialog key.
func (c *Conversation) HasDialog() bool {
	return c.hasDialog
}

// Context returns the record's context turns, nil when absent.
func (c *Conversation) Context() []Turn {
	res := gjson.GetBytes(c.raw, "context")
	if !res.Exists() {
		return nil
	}
	var turns []Turn
	if err := json.Unmarshal([]byte(res.Raw), &turns); err != nil {
		return nil
	}
	return turns
}

// Fields returns every top-level key other than dialog, in document order,
// with values rendered for display.
func (c *Conversation) Fields() []Field {
	var fields []Field
	gjson.ParseBytes(c.raw).ForEach(func(key, value gjson.Result) bool {
		if key.String() == "dialog" {
			return true
		}
		fields = append(fields, Field{Key: key.String(), Value: displayValue(value)})
		return true
	})
	return fields
}

// MarshalJSON returns the stored line unchanged.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	return c.raw, nil
}

// Raw returns the original file line.
func (c *Conversation) Raw() []byte {
	return c.raw
}

func displayValue(v gjson.Result) string {
	if v.Type == gjson.Null {
		return "null"
	}
	return v.String()
}
