package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec implements Codec for gzip compression algorithm.
//
// Concatenated gzip members are decoded as one stream.
type GzipCodec struct {
}

var _ Codec = GzipCodec{}

func (c GzipCodec) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}

func (c GzipCodec) Match(header []byte) bool {
	return magic{0x1f, 0x8b}.Match(header)
}

func (c GzipCodec) Ext() string {
	return ".gz"
}

func (c GzipCodec) ContentType() string {
	return "application/gzip"
}
