package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTar(t *testing.T, files ...file) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	for _, f := range files {
		require.NoError(t, w.WriteHeader(&tar.Header{
			Name:     f.name,
			Size:     int64(len(f.content)),
			Mode:     0644,
			Typeflag: tar.TypeReg,
		}))
		_, err := w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestTar_Entries(t *testing.T) {
	entries, err := Tar{}.Open(bytes.NewReader(newTar(t,
		file{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0\n"},
		file{"pom.properties", "groupId=com.example\n"})))
	require.NoError(t, err)
	defer entries.Close()

	e, err := entries.Next()
	require.NoError(t, err)
	assert.Equal(t, "META-INF/MANIFEST.MF", e.Name())
	assert.Equal(t, int64(22), e.FileInfo().Size())

	e, err = entries.Next()
	require.NoError(t, err)
	data, err := io.ReadAll(e)
	require.NoError(t, err)
	assert.Equal(t, "groupId=com.example\n", string(data))

	_, err = entries.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTar_EmptyArchive(t *testing.T) {
	entries, err := Tar{}.Open(bytes.NewReader(newTar(t)))
	require.NoError(t, err)

	_, err = entries.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, entries.Close())
}

func TestTar_NotATar(t *testing.T) {
	_, err := Tar{}.Open(bytes.NewReader(newZip(t, file{"a.txt", "hello"})))

	var cfe *ContainerFormatError
	assert.True(t, errors.As(err, &cfe))
	assert.Equal(t, "tar", cfe.Format)
}

func TestTar_TruncatedEntry(t *testing.T) {
	data := newTar(t,
		file{"a.txt", strings.Repeat("a", 2000)},
		file{"b.txt", "hello"})

	// 512 bytes of header then 1000 of the 2000 bytes of content.
	entries, err := Tar{}.Open(bytes.NewReader(data[:1512]))
	require.NoError(t, err)
	defer entries.Close()

	e, err := entries.Next()
	require.NoError(t, err)

	_, err = io.ReadAll(e)
	var tae *TruncatedArchiveError
	require.True(t, errors.As(err, &tae), "got %v", err)
	assert.Equal(t, "a.txt", tae.Entry)

	// truncation is fatal to the rest of the archive.
	_, err = entries.Next()
	assert.True(t, errors.As(err, &tae))
}

func TestTar_TrailingBytes(t *testing.T) {
	trailing := bytes.Repeat([]byte("trailing"), 12_500)
	data := newTar(t,
		file{"a.txt", "hello"},
		file{"b.txt", strings.Repeat("b", 10_000)})
	src := bytes.NewReader(append(data, trailing...))

	entries, err := Tar{}.Open(src)
	require.NoError(t, err)
	for e, err := range entries.All() {
		require.NoError(t, err)
		_, err = io.ReadAll(e)
		require.NoError(t, err)
	}
	require.NoError(t, entries.Close())

	// tar reads exactly up to its end-of-archive marker.
	rest, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, trailing, rest)
}
