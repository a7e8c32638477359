// Package archive enumerates the entries of a container format (zip, tar, rar) from a forward-only stream.
//
// The stream passed to Container.Open is borrowed, never owned: closing the returned Entries releases the container
// reader's buffers but never closes the stream.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"

	"github.com/nguyengg/docarc/util"
)

// DefaultBufferSize is the default size of the read buffers used when extracting entries.
const DefaultBufferSize = 32 * 1024

// SniffLen is the number of leading bytes made available to Container.Match.
const SniffLen = 512

// Container is a container format that can be read entry by entry from a forward-only stream.
//
// All Container implementations are not thread-safe.
type Container interface {
	// Open starts reading the container from src.
	//
	// src is borrowed: it is never closed, and only read as far as the container codec requires. Open returns a
	// *ContainerFormatError if the leading bytes of src do not match the container's signature.
	Open(src io.Reader) (*Entries, error)

	// Match returns true if header, the leading bytes of a stream, looks like this container format.
	//
	// header may be shorter than 512 bytes if the stream is short.
	Match(header []byte) bool

	// ArchiveExt returns the file name extension of this container format without the leading dot.
	ArchiveExt() string

	// ContentType returns the content type of this container format.
	ContentType() string
}

// Entry is the currently active member of an archive.
//
// Read returns bytes from this entry's decompressed payload only, and io.EOF at the end of the payload. Once
// Entries.Next or Entries.Close is called, Read returns ErrEntryInvalidated.
type Entry interface {
	io.Reader

	// Name returns the full name of the entry as recorded in the archive.
	//
	// The name is not normalised; it may contain directory separators.
	Name() string

	// FileInfo returns what the container's header knows about the entry.
	//
	// Size is 0 for a ZIP entry whose sizes are only recorded in the data descriptor following its payload.
	FileInfo() fs.FileInfo
}

// header is what a codec knows about an entry before its payload is read.
type header struct {
	name string
	info fs.FileInfo
}

// codec is the container-specific cursor over the physical stream.
type codec interface {
	// next skips whatever remains of the current payload and returns the next header, or io.EOF.
	next() (header, error)
	// Read reads from the current payload.
	Read(p []byte) (int, error)
	// close releases codec resources. It must not touch the underlying stream.
	close() error
}

// Entries is a forward-only cursor over the entries of an archive.
//
// Exactly one Entry is active at a time. Entries must be closed exactly once, including on early termination.
type Entries struct {
	format string
	codec  codec
	cur    *entry
	last   string
	count  int
	err    error
	closed bool
}

// open sniffs the borrowed stream and constructs Entries with the codec created by fn.
//
// The sniffed bytes are read into head rather than a buffer so that the stream is only advanced past what the codec
// itself reads. fn receives the full stream starting with head.
func open(c Container, src io.Reader, fn func(head []byte, r io.Reader) (codec, error)) (*Entries, error) {
	b := util.Borrow(src)

	head := make([]byte, SniffLen)
	n, err := io.ReadFull(b, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read %s signature error: %w", c.ArchiveExt(), err)
	}
	head = head[:n]

	if !c.Match(head) {
		return nil, &ContainerFormatError{Format: c.ArchiveExt(), Header: append([]byte(nil), head[:min(len(head), 8)]...)}
	}

	cd, err := fn(head, io.MultiReader(bytes.NewReader(head), b))
	if err != nil {
		return nil, fmt.Errorf("open %s reader error: %w", c.ArchiveExt(), err)
	}

	return &Entries{format: c.ArchiveExt(), codec: cd}, nil
}

// EntryReader is the cursor of a container codec implemented outside this package.
type EntryReader interface {
	// Next skips whatever remains of the current entry and returns the name and FileInfo of the next one, or io.EOF.
	Next() (name string, info fs.FileInfo, err error)

	// Read reads from the current entry.
	Read(p []byte) (int, error)

	// Close releases the reader. It must not close the stream that the reader reads from.
	Close() error
}

// NewEntries returns Entries over r so that Container can be implemented outside this package.
//
// format is used in error messages, usually the Container's ArchiveExt.
func NewEntries(format string, r EntryReader) *Entries {
	return &Entries{format: format, codec: &readerCodec{r}}
}

type readerCodec struct {
	EntryReader
}

func (c *readerCodec) next() (header, error) {
	name, info, err := c.EntryReader.Next()
	if err != nil {
		return header{}, err
	}

	return header{name: name, info: info}, nil
}

func (c *readerCodec) close() error {
	return c.EntryReader.Close()
}

// Next advances to the next entry, invalidating the previously returned Entry.
//
// Next returns io.EOF once the archive has no more entries. Once Next returns an error, all subsequent calls return
// the same error.
func (es *Entries) Next() (Entry, error) {
	if es.closed {
		return nil, ErrClosed
	}

	es.invalidate()

	if es.err != nil {
		return nil, es.err
	}

	hdr, err := es.codec.next()
	if err != nil {
		if err != io.EOF {
			err = es.wrap(err)
		}

		es.err = err
		return nil, err
	}

	es.count++
	es.last = hdr.name
	es.cur = &entry{es: es, header: hdr}
	return es.cur, nil
}

// All produces an iterator over the remaining entries.
//
// The iterator stops after the first error. Each Entry is valid only within its iteration.
func (es *Entries) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for {
			e, err := es.Next()
			if err == io.EOF {
				return
			}

			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// Err returns the error that ended the enumeration early, such as a *TruncatedArchiveError.
//
// Err returns nil if Next has not failed or has only returned io.EOF.
func (es *Entries) Err() error {
	if es.err == io.EOF {
		return nil
	}

	return es.err
}

// Count returns the number of entries that Next has produced so far.
func (es *Entries) Count() int {
	return es.count
}

// Close releases the container reader.
//
// The borrowed stream is neither closed nor read any further. Calling Close more than once returns ErrClosed.
func (es *Entries) Close() error {
	if es.closed {
		return ErrClosed
	}

	es.invalidate()
	es.closed = true

	err := es.codec.close()
	es.codec = nil
	return err
}

func (es *Entries) invalidate() {
	if es.cur != nil {
		es.cur.stale = true
		es.cur = nil
	}
}

// wrap turns an unexpected end of stream into a *TruncatedArchiveError.
func (es *Entries) wrap(err error) error {
	name := es.last

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedArchiveError{Format: es.format, Entry: name, Err: err}
	}

	if name == "" {
		return fmt.Errorf("read %s header error: %w", es.format, err)
	}

	return fmt.Errorf(`read %s entry "%s" error: %w`, es.format, name, err)
}

type entry struct {
	header
	es    *Entries
	eof   bool
	stale bool
}

var _ Entry = &entry{}

func (e *entry) Name() string {
	return e.name
}

func (e *entry) FileInfo() fs.FileInfo {
	return e.info
}

func (e *entry) Read(p []byte) (n int, err error) {
	switch {
	case e.stale:
		return 0, ErrEntryInvalidated
	case e.eof:
		return 0, io.EOF
	}

	n, err = e.es.codec.Read(p)
	switch {
	case err == nil:
	case err == io.EOF:
		e.eof = true
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = e.es.wrap(err)
		e.es.err = err
	default:
		err = e.es.wrap(err)
	}

	return
}
