// Package codec decodes the single-stream compression formats (gzip, zstd, xz) that wrap archives and documents.
package codec

import (
	"bytes"
	"io"
)

// Codec can decompress one compression format.
type Codec interface {
	// NewDecoder creates a decoder to decompress contents from the given io.Reader.
	//
	// Closing the decoder must not close src.
	NewDecoder(src io.Reader) (io.ReadCloser, error)
	// Match returns true if header, the leading bytes of a stream, starts with this format's magic number.
	Match(header []byte) bool
	// Ext returns the file name extension of this format including the leading dot.
	Ext() string
	// ContentType returns the content type of this format.
	ContentType() string
}

// All contains every Codec of this package.
var All = []Codec{GzipCodec{}, ZstdCodec{}, XzCodec{}}

// Detect returns the first Codec from All that matches header, or nil if none does.
func Detect(header []byte) Codec {
	for _, c := range All {
		if c.Match(header) {
			return c
		}
	}

	return nil
}

type magic []byte

func (m magic) Match(header []byte) bool {
	return bytes.HasPrefix(header, m)
}
