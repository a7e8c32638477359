package sax

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nguyengg/docarc/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXHTML(t *testing.T) {
	md := metadata.New()
	md.Set(metadata.ContentType, "application/zip")
	md.Set(metadata.ResourceName, "test.zip")

	var buf bytes.Buffer
	x := NewXHTML(&buf, md)
	require.NoError(t, x.StartDocument())
	require.NoError(t, x.StartElement("div", Attr{"class", "package-entry"}))
	require.NoError(t, Element(x, "h1", "a.txt"))
	require.NoError(t, Element(x, "p", "1 < 2 & 3 > 2"))
	require.NoError(t, x.EndElement("div"))
	require.NoError(t, x.EndDocument())

	assert.Equal(t, `<html xmlns="http://www.w3.org/1999/xhtml"><head><meta name="content-type" content="application/zip"></meta>
<meta name="resource-name" content="test.zip"></meta>
<title>test.zip</title>
</head>
<body><div class="package-entry"><h1>a.txt</h1>
<p>1 &lt; 2 &amp; 3 &gt; 2</p>
</div>
</body>
</html>
`, buf.String())
}

func TestXHTML_Unbalanced(t *testing.T) {
	x := NewXHTML(&bytes.Buffer{}, nil)
	require.NoError(t, x.StartDocument())
	require.NoError(t, x.StartElement("p"))
	assert.Error(t, x.EndElement("div"))
}

func TestEmbedded(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.StartDocument())

	e := Embed(r)
	assert.NoError(t, e.StartDocument())
	assert.NoError(t, e.StartElement("p"))
	assert.NoError(t, e.Characters("hello"))
	assert.NoError(t, e.StartElement("b"))
	assert.Error(t, e.EndElement("p"), "must reject end element that does not match innermost open element")
	assert.NoError(t, e.EndDocument())
	assert.Equal(t, 2, e.Depth())

	assert.NoError(t, e.Close())
	assert.NoError(t, e.Err())
	assert.Equal(t, 0, e.Depth())

	require.NoError(t, r.EndDocument())
	assert.Equal(t, []string{"StartDocument", "<p>", "hello", "<b>", "</b>", "</p>", "EndDocument"}, r.Strings())
}

type failingSink struct {
	Recorder
	err error
}

func (f *failingSink) Characters(_ string) error {
	return f.err
}

func TestEmbedded_SinkError(t *testing.T) {
	broken := errors.New("broken pipe")
	e := Embed(&failingSink{err: broken})

	assert.NoError(t, e.StartElement("p"))
	assert.ErrorIs(t, e.Characters("hello"), broken)
	assert.ErrorIs(t, e.Err(), broken)

	// once the wrapped sink fails, every call returns the same error.
	assert.ErrorIs(t, e.StartElement("p"), broken)
	assert.ErrorIs(t, e.Close(), broken)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.StartDocument())
	require.NoError(t, Element(r, "p", "hello, ", Attr{"class", "x"}))
	require.NoError(t, Element(r, "p", "world!"))
	require.NoError(t, Element(r, "p", ""))
	require.NoError(t, r.EndDocument())

	assert.Equal(t, "hello, world!", r.Text())
	assert.Equal(t, 3, r.Count(KindStartElement))
	assert.Equal(t, `<p class="x">`, r.Events[1].String())
}
