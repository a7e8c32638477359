package codec

import (
	"io"

	"github.com/ulikunitz/xz"
)

// XzCodec implements Codec for xz compression algorithm.
type XzCodec struct {
}

var _ Codec = XzCodec{}

func (c XzCodec) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	dec, err := xz.NewReader(src)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(dec), nil
}

func (c XzCodec) Match(header []byte) bool {
	return magic{0xfd, '7', 'z', 'X', 'Z', 0x00}.Match(header)
}

func (c XzCodec) Ext() string {
	return ".xz"
}

func (c XzCodec) ContentType() string {
	return "application/x-xz"
}
