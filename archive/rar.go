package archive

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/nwaples/rardecode/v2"
)

var (
	sigRar15 = []byte("Rar!\x1a\x07\x00")
	sigRar50 = []byte("Rar!\x1a\x07\x01\x00")
)

// Rar implements Container for RAR files.
//
// Only single-volume archives can be read from a stream.
type Rar struct {
}

var _ Container = Rar{}

func (r Rar) Open(src io.Reader) (*Entries, error) {
	return open(r, src, func(_ []byte, r io.Reader) (codec, error) {
		rr, err := rardecode.NewReader(r)
		if err != nil {
			return nil, err
		}

		return &rarCodec{rr}, nil
	})
}

func (r Rar) Match(header []byte) bool {
	return bytes.HasPrefix(header, sigRar15) || bytes.HasPrefix(header, sigRar50)
}

func (r Rar) ArchiveExt() string {
	return "rar"
}

func (r Rar) ContentType() string {
	return "application/vnd.rar"
}

type rarCodec struct {
	*rardecode.Reader
}

func (c *rarCodec) next() (header, error) {
	fh, err := c.Reader.Next()
	if err != nil {
		return header{}, err
	}

	return header{name: fh.Name, info: &rarFileInfo{
		name:    fh.Name,
		size:    fh.UnPackedSize,
		modTime: fh.ModificationTime,
		isDir:   fh.IsDir,
	}}, nil
}

func (c *rarCodec) close() error {
	return nil
}

// rarFileInfo implements fs.FileInfo from the few attributes that every RAR version records.
type rarFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (fi *rarFileInfo) Name() string {
	return path.Base(fi.name)
}

func (fi *rarFileInfo) Size() int64 {
	return fi.size
}

func (fi *rarFileInfo) Mode() fs.FileMode {
	if fi.isDir {
		return fs.ModeDir | 0755
	}

	return 0644
}

func (fi *rarFileInfo) ModTime() time.Time {
	return fi.modTime
}

func (fi *rarFileInfo) IsDir() bool {
	return fi.isDir
}

func (fi *rarFileInfo) Sys() any {
	return nil
}
