package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when using an Entries that has been closed.
	ErrClosed = errors.New("archive: entries already closed")

	// ErrEntryInvalidated is returned when reading an Entry after Entries.Next or Entries.Close was called.
	ErrEntryInvalidated = errors.New("archive: entry is no longer active")
)

// ContainerFormatError is returned by Container.Open if the leading bytes of the stream are not a recognisable
// signature of the container format.
type ContainerFormatError struct {
	// Format is the file extension of the expected container format such as "zip".
	Format string
	// Header contains up to the first 8 bytes of the stream.
	Header []byte
}

func (e *ContainerFormatError) Error() string {
	if len(e.Header) == 0 {
		return fmt.Sprintf("not a %s archive: empty stream", e.Format)
	}

	return fmt.Sprintf("not a %s archive: unexpected signature %q", e.Format, e.Header)
}

// TruncatedArchiveError is returned if the stream ends in the middle of an entry or a header.
type TruncatedArchiveError struct {
	Format string
	// Entry is the name of the last entry being read, empty if the stream ended before any entry.
	Entry string
	Err   error
}

func (e *TruncatedArchiveError) Unwrap() error {
	return e.Err
}

func (e *TruncatedArchiveError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("truncated %s archive, cause: %v", e.Format, e.Err)
	}

	return fmt.Sprintf(`truncated %s archive at entry "%s", cause: %v`, e.Format, e.Entry, e.Err)
}

// ResourceReleaseError is returned if closing Entries fails.
type ResourceReleaseError struct {
	Format string
	Err    error
}

func (e *ResourceReleaseError) Unwrap() error {
	return e.Err
}

func (e *ResourceReleaseError) Error() string {
	return fmt.Sprintf("release %s reader error: %v", e.Format, e.Err)
}
