package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a deletion names a position the
	// store does not have.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoData is returned when an export is requested from an empty store.
	ErrNoData = errors.New("no data to export")
)

// IndexError reports a position outside the store bounds.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
