package archive

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/krolaw/zipstream"
)

const (
	sigLocalFileHeader   = "PK\x03\x04"
	sigCentralDir        = "PK\x01\x02"
	sigEndOfCentralDir   = "PK\x05\x06"
	sigZip64EndOfCentral = "PK\x06\x06"
	sigZip64Locator      = "PK\x06\x07"

	localFileHeaderLen = 30
	centralDirLen      = 46
	endOfCentralDirLen = 22
	zip64LocatorLen    = 20

	// minDirectoryLen is the size of the smallest central directory that can follow an entry: one record with an empty
	// name, and the end of central directory record.
	minDirectoryLen = centralDirLen + endOfCentralDirLen

	// zipBufferSize is at least zipstream's own buffer size so that zipstream reads through our buffer instead of
	// stacking another one on top of it.
	zipBufferSize = 4096 + 28

	// flagDataDescriptor is set if the sizes and CRC-32 of an entry follow its payload.
	flagDataDescriptor = 0x8
)

func init() {
	zipstream.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
}

// Zip implements Container for ZIP files.
//
// Entries are decoded from the local file headers as they appear in the stream. The central directory at the end of
// the archive is skipped over but must be present, otherwise the archive is reported as truncated. An archive made of
// only the end of central directory record is a valid archive with zero entries.
//
// An entry whose payload is corrupt (bad compressed data, checksum mismatch) or uses an unsupported compression method
// fails its own reads only; the next call to Entries.Next resumes at the following local file header.
type Zip struct {
}

var _ Container = Zip{}

func (z Zip) Open(src io.Reader) (*Entries, error) {
	return open(z, src, func(_ []byte, r io.Reader) (codec, error) {
		br := bufio.NewReaderSize(r, zipBufferSize)
		return &zipCodec{zr: zipstream.NewReader(br), br: br}, nil
	})
}

func (z Zip) Match(header []byte) bool {
	return bytes.HasPrefix(header, []byte(sigLocalFileHeader)) || bytes.HasPrefix(header, []byte(sigEndOfCentralDir))
}

func (z Zip) ArchiveExt() string {
	return "zip"
}

func (z Zip) ContentType() string {
	return "application/zip"
}

// zipCodec reads local file headers with zipstream, and takes over wherever zipstream cannot tell a corrupt or
// truncated stream apart from a complete one.
//
// zr reads through br, so both always agree on the position in the stream.
type zipCodec struct {
	zr *zipstream.Reader
	br *bufio.Reader

	// payload is what remains of the current entry's payload, nil if unknown.
	payload io.Reader
	// err is returned by Read for an entry that cannot be decoded at all.
	err error
	// lost is true if the end of the current payload is unknown, so that the next local file header must be searched for.
	lost bool
}

func (c *zipCodec) next() (header, error) {
	if err := c.skip(); err != nil {
		return header{}, err
	}

	for {
		sig, err := c.br.Peek(4)
		if err != nil {
			return header{}, io.ErrUnexpectedEOF
		}

		switch string(sig) {
		case sigLocalFileHeader:
		case sigCentralDir, sigEndOfCentralDir, sigZip64EndOfCentral, sigZip64Locator:
			return header{}, c.readDirectory()
		default:
			if err = c.resync(); err != nil {
				return header{}, err
			}
			continue
		}

		return c.readLocalFileHeader()
	}
}

func (c *zipCodec) readLocalFileHeader() (header, error) {
	// zipstream consumes the header before it fails on an unsupported method, so keep a copy.
	lfh, ok := c.peekLocalFileHeader()

	fh, err := c.zr.Next()
	switch {
	case err == nil:
		c.payload = c.zr.Reader
		return header{name: fh.Name, info: fh.FileInfo()}, nil
	case errors.Is(err, zip.ErrAlgorithm) && ok:
		c.err = fmt.Errorf("%w (method %d)", err, lfh.Method)
		if lfh.Flags&flagDataDescriptor == 0 {
			c.payload = io.LimitReader(c.br, int64(lfh.CompressedSize64))
		} else {
			c.lost = true
		}

		return header{name: lfh.Name, info: lfh.FileInfo()}, nil
	case err == io.EOF, errors.Is(err, io.ErrUnexpectedEOF):
		return header{}, io.ErrUnexpectedEOF
	default:
		return header{}, err
	}
}

// peekLocalFileHeader parses the local file header at the current position without consuming it.
func (c *zipCodec) peekLocalFileHeader() (*zip.FileHeader, bool) {
	b, err := c.br.Peek(localFileHeaderLen)
	if err != nil {
		return nil, false
	}

	fh := &zip.FileHeader{
		Flags:              binary.LittleEndian.Uint16(b[6:]),
		Method:             binary.LittleEndian.Uint16(b[8:]),
		ModifiedTime:       binary.LittleEndian.Uint16(b[10:]),
		ModifiedDate:       binary.LittleEndian.Uint16(b[12:]),
		CRC32:              binary.LittleEndian.Uint32(b[14:]),
		CompressedSize64:   uint64(binary.LittleEndian.Uint32(b[18:])),
		UncompressedSize64: uint64(binary.LittleEndian.Uint32(b[22:])),
	}

	n := int(binary.LittleEndian.Uint16(b[26:]))
	if b, err = c.br.Peek(localFileHeaderLen + n); err != nil {
		return nil, false
	}
	fh.Name = string(b[localFileHeaderLen:])

	return fh, true
}

func (c *zipCodec) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.payload == nil {
		return 0, io.EOF
	}

	n, err := c.read(p)
	switch {
	case err == nil:
	case err == io.EOF:
		// a payload that ended properly is followed by another record.
		if !c.atRecord() {
			if c.truncated() {
				return n, io.ErrUnexpectedEOF
			}

			c.lost = true
			return n, fmt.Errorf("payload does not end at a record boundary: %w", zip.ErrFormat)
		}
	case c.truncated():
		return n, io.ErrUnexpectedEOF
	}

	return n, err
}

// read reads from the current payload.
//
// zipstream panics if the stream ends without the data descriptor it is looking for, which is the payload being cut
// short.
func (c *zipCodec) read(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}

			n, err = 0, io.ErrUnexpectedEOF
		}
	}()

	return c.payload.Read(p)
}

// skip discards whatever remains of the current entry.
//
// A payload that cannot be decoded to its end means its end is unknown, so skip searches for the next record instead.
func (c *zipCodec) skip() error {
	if c.payload != nil {
		_, err := io.Copy(io.Discard, readerFunc(c.read))
		switch {
		case err == nil:
		case errors.Is(err, io.ErrUnexpectedEOF) || c.truncated():
			return io.ErrUnexpectedEOF
		default:
			c.lost = true
		}
	}

	// zipstream would otherwise drain its reader again on Next.
	c.zr.Reader = nil
	c.payload, c.err = nil, nil

	if c.lost {
		c.lost = false
		return c.resync()
	}

	return nil
}

// resync discards bytes until the next local file header or central directory record.
func (c *zipCodec) resync() error {
	for {
		b, err := c.br.Peek(c.br.Size())
		if i := indexRecord(b); i >= 0 {
			_, err = c.br.Discard(i)
			return err
		}

		if err != nil || len(b) < 4 {
			return io.ErrUnexpectedEOF
		}

		// a signature may straddle the end of b.
		if _, err = c.br.Discard(len(b) - 3); err != nil {
			return err
		}
	}
}

// readDirectory consumes the central directory up to and including the end of central directory record.
//
// It returns io.EOF once the end of central directory record has been consumed; any earlier end of stream is
// io.ErrUnexpectedEOF.
func (c *zipCodec) readDirectory() error {
	for {
		sig, err := c.br.Peek(4)
		if err != nil {
			return io.ErrUnexpectedEOF
		}

		var n int
		switch string(sig) {
		case sigCentralDir:
			b, err := c.br.Peek(centralDirLen)
			if err != nil {
				return io.ErrUnexpectedEOF
			}

			n = centralDirLen +
				int(binary.LittleEndian.Uint16(b[28:])) +
				int(binary.LittleEndian.Uint16(b[30:])) +
				int(binary.LittleEndian.Uint16(b[32:]))
		case sigZip64EndOfCentral:
			b, err := c.br.Peek(12)
			if err != nil {
				return io.ErrUnexpectedEOF
			}

			size := binary.LittleEndian.Uint64(b[4:])
			if size > uint64(c.br.Size()) {
				return fmt.Errorf("zip64 end of central directory record is %d bytes: %w", size, zip.ErrFormat)
			}
			n = 12 + int(size)
		case sigZip64Locator:
			n = zip64LocatorLen
		case sigEndOfCentralDir:
			b, err := c.br.Peek(endOfCentralDirLen)
			if err != nil {
				return io.ErrUnexpectedEOF
			}

			if _, err = c.br.Discard(endOfCentralDirLen + int(binary.LittleEndian.Uint16(b[20:]))); err != nil {
				return io.ErrUnexpectedEOF
			}

			return io.EOF
		default:
			return fmt.Errorf("unexpected signature %q in central directory: %w", sig, zip.ErrFormat)
		}

		if _, err = c.br.Discard(n); err != nil {
			return io.ErrUnexpectedEOF
		}
	}
}

// atRecord returns true if the stream is positioned at the signature of a local file header or central directory record.
func (c *zipCodec) atRecord() bool {
	b, err := c.br.Peek(4)
	return err == nil && indexRecord(b) == 0
}

// truncated returns true if the stream ends too soon for even the smallest central directory to follow.
func (c *zipCodec) truncated() bool {
	_, err := c.br.Peek(minDirectoryLen)
	return err != nil
}

func (c *zipCodec) close() error {
	c.zr.Reader = nil
	c.payload = nil
	return nil
}

// indexRecord returns the index of the first local file header or central directory signature in b, or -1.
func indexRecord(b []byte) int {
	for off := 0; off+4 <= len(b); off++ {
		i := bytes.Index(b[off:], []byte("PK"))
		if i < 0 {
			return -1
		}

		off += i
		if off+4 > len(b) {
			return -1
		}

		switch string(b[off : off+4]) {
		case sigLocalFileHeader, sigCentralDir:
			return off
		}
	}

	return -1
}

type readerFunc func(p []byte) (int, error)

func (fn readerFunc) Read(p []byte) (int, error) {
	return fn(p)
}
