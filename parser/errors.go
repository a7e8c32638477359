package parser

import (
	"errors"
	"fmt"

	"github.com/nguyengg/docarc/metadata"
)

// ErrMaxDepth is returned by AutoDetect when nested archives or compressed streams go deeper than allowed.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// EntryError is the failure to extract one archive entry.
//
// EntryError does not stop the traversal; it is passed to Options.OnEntryError instead of being returned.
type EntryError struct {
	// Index is the zero-based position of the entry in the archive.
	Index int
	// Name is the name of the entry.
	Name string
	// Metadata is the entry's metadata at the time of failure.
	Metadata *metadata.Metadata
	Err      error
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func (e *EntryError) Error() string {
	return fmt.Sprintf(`extract entry #%d "%s" error: %v`, e.Index, e.Name, e.Err)
}
