package archive

import (
	"archive/tar"
	"bytes"
	"io"
)

// Tar implements Container for POSIX (ustar, pax, GNU) tar archives.
type Tar struct {
}

var _ Container = Tar{}

func (t Tar) Open(src io.Reader) (*Entries, error) {
	return open(t, src, func(_ []byte, r io.Reader) (codec, error) {
		return &tarCodec{tar.NewReader(r)}, nil
	})
}

// Match looks for the "ustar" magic at offset 257, or an all-zero first block which is how an empty archive begins.
func (t Tar) Match(header []byte) bool {
	if len(header) < 512 {
		return false
	}

	if bytes.Equal(header[257:262], []byte("ustar")) {
		return true
	}

	return bytes.Count(header[:512], []byte{0}) == 512
}

func (t Tar) ArchiveExt() string {
	return "tar"
}

func (t Tar) ContentType() string {
	return "application/x-tar"
}

type tarCodec struct {
	*tar.Reader
}

func (c *tarCodec) next() (header, error) {
	hdr, err := c.Reader.Next()
	if err != nil {
		return header{}, err
	}

	return header{name: hdr.Name, info: hdr.FileInfo()}, nil
}

func (c *tarCodec) close() error {
	return nil
}
