package builder

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange matches every IndexError via errors.Is.
var ErrIndexOutOfRange = errors.New("builder: index out of range")

// IndexError reports a section, marker or card that references a table entry
// the document does not have. It aborts the build.
type IndexError struct {
	Table string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("builder: %s[%d] out of range (len %d)", e.Table, e.Index, e.Len)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

func entryAt[T any](table string, entries []T, index int) (T, error) {
	if index < 0 || index >= len(entries) {
		var zero T
		return zero, &IndexError{Table: table, Index: index, Len: len(entries)}
	}
	return entries[index], nil
}
