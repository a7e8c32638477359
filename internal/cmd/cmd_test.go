package cmd

import (
	"archive/zip"
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/docarc/archive"
	"github.com/nguyengg/docarc/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, name string, files map[string]string, order ...string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, k := range order {
		fw, err := w.Create(k)
		require.NoError(t, err)
		_, err = fw.Write([]byte(files[k]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0644))
}

func TestExtract_Execute(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.zip")
	writeZip(t, name, map[string]string{
		"a.txt":     "hello",
		"dir/b.txt": "world & friends",
	}, "a.txt", "dir/b.txt")

	out := filepath.Join(dir, "out")
	c := &Extract{Output: flags.Filename(out)}
	c.Args.Files = []string{name}
	require.NoError(t, c.Execute(nil))

	data, err := os.ReadFile(filepath.Join(out, "test.zip.xhtml"))
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, `<html xmlns="http://www.w3.org/1999/xhtml">`), doc)
	assert.Contains(t, doc, `<meta name="content-type" content="application/zip"></meta>`)
	assert.Contains(t, doc, `<title>test.zip</title>`)
	assert.Contains(t, doc, `<h1>a.txt</h1>`)
	assert.Contains(t, doc, `<p>hello</p>`)
	assert.Contains(t, doc, `<h1>dir/b.txt</h1>`)
	assert.Contains(t, doc, `<p>world &amp; friends</p>`)
	assert.Less(t, strings.Index(doc, "a.txt</h1>"), strings.Index(doc, "dir/b.txt</h1>"))
	assert.True(t, strings.HasSuffix(doc, "</html>\n"), doc)
}

func TestExtract_ExecuteDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.zip")
	writeZip(t, name, map[string]string{"a.txt": "hello"}, "a.txt")

	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "test.zip.xhtml"), []byte("keep me"), 0644))

	c := &Extract{Output: flags.Filename(out)}
	require.NoError(t, c.extract(t.Context(), name))

	data, err := os.ReadFile(filepath.Join(out, "test.zip.xhtml"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	data, err = os.ReadFile(filepath.Join(out, "test.zip-1.xhtml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>hello</p>")
}

func TestListEntries(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.zip")
	writeZip(t, name, map[string]string{
		"a.txt": strings.Repeat("a", 2048),
		"dir/":  "",
	}, "a.txt", "dir/")

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, listEntries(t.Context(), f, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " a.txt"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " dir/"), lines[1])
}

func TestListEntries_NotAnArchive(t *testing.T) {
	assert.ErrorContains(t, listEntries(t.Context(), strings.NewReader("hello, world!"), &bytes.Buffer{}), "not a zip, tar, or rar archive")
}

func TestListEntries_LogsBytesRead(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.zip")
	writeZip(t, name, map[string]string{"a.txt": "hello", "b.txt": "world"}, "a.txt", "b.txt")

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	var logs bytes.Buffer
	ctx := internal.WithLogger(t.Context(), log.New(&logs, "", 0))
	require.NoError(t, listEntries(ctx, f, &bytes.Buffer{}))
	assert.Contains(t, logs.String(), "2 entries, read ")
	assert.NotContains(t, logs.String(), "read 0 B")
}

func TestListEntries_FlushesRowsBeforeError(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, k := range []string{"a.txt", "b.txt"} {
		fw, err := w.Create(k)
		require.NoError(t, err)
		_, err = fw.Write([]byte(strings.Repeat(k, 100)))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	// cut inside the end of central directory record.
	data := buf.Bytes()[:buf.Len()-5]

	var out bytes.Buffer
	err := listEntries(t.Context(), bytes.NewReader(data), &out)

	var tae *archive.TruncatedArchiveError
	require.ErrorAs(t, err, &tae)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " a.txt"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " b.txt"), lines[1])
}

func TestList_ExecuteReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good, bad := filepath.Join(dir, "good.zip"), filepath.Join(dir, "bad.zip")
	writeZip(t, good, map[string]string{"a.txt": "hello"}, "a.txt")
	require.NoError(t, os.WriteFile(bad, []byte("hello, world!"), 0644))

	c := &List{}
	c.Args.Files = []string{good}
	require.NoError(t, c.Execute(nil))

	c.Args.Files = []string{good, bad}
	assert.EqualError(t, c.Execute(nil), "failed to list 1/2 files")
}
