// Package parser turns archives into a single structured document.
//
// PackageParser walks the entries of an archive and hands each entry's bytes to an Extractor. AutoDetect is an
// Extractor that sniffs the bytes and dispatches to PackageParser again for nested archives, so that an archive of
// archives is walked recursively.
package parser

import (
	"context"
	"io"

	"github.com/nguyengg/docarc/metadata"
	"github.com/nguyengg/docarc/sax"
)

// Extractor turns a byte stream into document events.
//
// Implementations must not close r: it is borrowed for the duration of the call. An Extractor produces one complete
// document, StartDocument through EndDocument; when it is called for an archive entry, those two events are dropped
// so that the entry becomes part of the archive's document.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error

func (fn ExtractorFunc) Extract(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error {
	return fn(ctx, r, sink, md)
}

// Discard is an Extractor that produces an empty document without reading r.
var Discard Extractor = ExtractorFunc(func(_ context.Context, _ io.Reader, sink sax.Sink, _ *metadata.Metadata) error {
	if err := sink.StartDocument(); err != nil {
		return err
	}

	return sink.EndDocument()
})
