// Package conversations reads and writes dialog transcript archives: a
// .jsonl file holding one conversation per line, paired with a .metadata
// sidecar describing how the data was produced.
package conversations

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

// stdout carries all human-readable notices from this package. Tests swap it
// for a buffer.
var stdout io.Writer = os.Stdout

var (
	bar      = strings.Repeat("=", 60)
	smallBar = strings.Repeat("-", 60)
)

// DataPath derives the conversations file path: the extension is stripped
// and .jsonl appended.
func DataPath(path string) string {
	return stem(path) + ".jsonl"
}

// Archive holds a conversations file fully in memory, with a wrapping cursor
// for sequential reads. One archive serves one goroutine; the cursor is not
// synchronized.
type Archive struct {
	Path string

	metadata *Metadata
	convos   []*Conversation
	cursor   int
}

// Load reads every line of the conversations file at path. Parsing is
// strict: the first malformed line aborts the whole load. The metadata
// sidecar is loaded alongside; a missing sidecar is downgraded to a printed
// notice and nil metadata, since conversation data is useful without it.
func Load(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{What: "conversations", Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	a := &Archive{Path: path}
	for i, line := range splitLines(data) {
		c, err := parseConversation(line)
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 1, Err: err}
		}
		a.convos = append(a.convos, c)
	}

	a.metadata, err = LoadMetadata(path)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fmt.Fprintln(stdout, "Metadata does not exist. Please double check your datapath.")
		a.metadata = nil
	}
	return a, nil
}

// splitLines splits file data into one slice per line, tolerating CRLF
// endings and a missing final newline.
func splitLines(data []byte) [][]byte {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = bytes.TrimSuffix(line, []byte("\r"))
	}
	return lines
}

// Metadata returns the sidecar record, or nil when it was absent at load.
func (a *Archive) Metadata() *Metadata {
	return a.metadata
}

// NumConversations reports how many conversations were loaded.
func (a *Archive) NumConversations() int {
	return len(a.convos)
}

// Get returns the conversation at index in file order.
func (a *Archive) Get(index int) (*Conversation, error) {
	if index < 0 || index >= len(a.convos) {
		return nil, &IndexOutOfRangeError{Index: index, Count: len(a.convos)}
	}
	return a.convos[index], nil
}

// Next returns the conversation under the cursor and advances it. Once the
// cursor passes the final conversation, Next prints an end notice, rewinds
// to the start, and returns nil.
func (a *Archive) Next() *Conversation {
	if a.cursor >= len(a.convos) {
		fmt.Fprintln(stdout, "You reached the end of the conversations.")
		a.Reset()
		return nil
	}
	c := a.convos[a.cursor]
	a.cursor++
	return c
}

// Reset rewinds the cursor to the first conversation.
func (a *Archive) Reset() {
	a.cursor = 0
}

// DescribeMetadata prints the sidecar fields when a sidecar was loaded.
func (a *Archive) DescribeMetadata() {
	if a.metadata != nil {
		a.metadata.Describe()
	}
}

// PrintConversation renders the conversation at index between bar
// delimiters: conversation-level fields first, then one "id: text" line per
// turn in dialog order.
func (a *Archive) PrintConversation(index int) error {
	c, err := a.Get(index)
	if err != nil {
		return err
	}
	if !c.HasDialog() {
		return fmt.Errorf("conversation %d has no dialog", index)
	}

	fmt.Fprintln(stdout, bar)
	fields := c.Fields()
	for _, f := range fields {
		fmt.Fprintf(stdout, "%s: %s\n", f.Key, f.Value)
	}
	if len(fields) > 0 {
		fmt.Fprintln(stdout, smallBar)
	}
	for _, pair := range c.Dialog() {
		for _, turn := range pair {
			fmt.Fprintf(stdout, "%s: %s\n", turn.ID(), turn.Text())
		}
	}
	fmt.Fprintln(stdout, bar)
	return nil
}

// PrintRandomConversation renders one uniformly chosen conversation.
func (a *Archive) PrintRandomConversation() error {
	if len(a.convos) == 0 {
		return &IndexOutOfRangeError{Index: 0, Count: 0}
	}
	return a.PrintConversation(rand.IntN(len(a.convos)))
}
