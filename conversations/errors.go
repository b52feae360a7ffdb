package conversations

import "fmt"

// NotFoundError reports a missing conversations file or metadata sidecar.
type NotFoundError struct {
	What string // "conversations" or "metadata"
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found at %s: double check your path", e.What, e.Path)
}

// ParseError reports malformed data in a conversations file or sidecar.
// Line is 1-based and 0 when the error is not tied to a single line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IndexOutOfRangeError reports an indexed access beyond the archive.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("conversation index %d out of range: archive holds %d", e.Index, e.Count)
}
