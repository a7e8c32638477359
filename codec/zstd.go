package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdCodec implements Codec for zstd compression algorithm.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (c ZstdCodec) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	// a single goroutine is enough since the decoded stream is consumed sequentially.
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return &zstdDecoder{dec}, nil
}

type zstdDecoder struct {
	*zstd.Decoder
}

func (d *zstdDecoder) Close() error {
	d.Decoder.Close()
	return nil
}

func (c ZstdCodec) Match(header []byte) bool {
	return magic{0x28, 0xb5, 0x2f, 0xfd}.Match(header)
}

func (c ZstdCodec) Ext() string {
	return ".zst"
}

func (c ZstdCodec) ContentType() string {
	return "application/zstd"
}
