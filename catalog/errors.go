package catalog

import "fmt"

// MalformedInputError reports a raw entry that cannot be part of a catalog.
type MalformedInputError struct {
	Row    int
	ID     string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed input at row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("malformed input at row %d (id %q): %s", e.Row, e.ID, e.Reason)
}

// IndexOutOfRangeError is returned by Get for an index outside [0, Size).
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}
