package parser

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/nguyengg/docarc/archive"
	"github.com/nguyengg/docarc/metadata"
	"github.com/nguyengg/docarc/sax"
	"github.com/valyala/bytebufferpool"
)

// TextExtractor emits a UTF-8 text stream as a single p element.
//
// The text is streamed to the sink in chunks of at most BufferSize bytes; a multibyte character is never split across
// two chunks. No character set detection is done.
type TextExtractor struct {
	// BufferSize is the size of the read buffer.
	//
	// Default to archive.DefaultBufferSize.
	BufferSize int
}

var _ Extractor = &TextExtractor{}

func (x *TextExtractor) Extract(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error {
	if md != nil && md.Get(metadata.ContentType) == "" {
		md.Set(metadata.ContentType, "text/plain; charset=utf-8")
	}

	if err := sink.StartDocument(); err != nil {
		return err
	}

	if err := sink.StartElement("p"); err != nil {
		return err
	}

	if err := x.copy(ctx, r, sink); err != nil {
		return err
	}

	if err := sink.EndElement("p"); err != nil {
		return err
	}

	return sink.EndDocument()
}

// copy is modeled after io.CopyBuffer with context checked after every write.
func (x *TextExtractor) copy(ctx context.Context, r io.Reader, sink sax.Sink) error {
	size := x.BufferSize
	if size <= 0 {
		size = archive.DefaultBufferSize
	}

	buf := make([]byte, size)

	// pending holds the bytes not yet sent, which is at most an incomplete trailing character between reads.
	pending := bytebufferpool.Get()
	defer bytebufferpool.Put(pending)

	for {
		nr, rerr := r.Read(buf)

		if nr > 0 {
			_, _ = pending.Write(buf[:nr])

			if k := completeRunes(pending.B); k > 0 {
				if err := sink.Characters(string(pending.B[:k])); err != nil {
					return err
				}

				pending.B = append(pending.B[:0], pending.B[k:]...)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if pending.Len() > 0 {
		return sink.Characters(string(pending.B))
	}

	return nil
}

// completeRunes returns the length of the longest prefix of b that does not end with an incomplete UTF-8 sequence.
func completeRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}

			return i
		}
	}

	return len(b)
}
