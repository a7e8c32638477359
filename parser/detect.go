package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/mholt/archives"
	"github.com/nguyengg/docarc/archive"
	"github.com/nguyengg/docarc/codec"
	"github.com/nguyengg/docarc/metadata"
	"github.com/nguyengg/docarc/sax"
	"github.com/nguyengg/docarc/util"
)

// DefaultMaxDepth is the default value of AutoDetect.MaxDepth.
const DefaultMaxDepth = 16

// minBufferSize is the smallest BufferSize that AutoDetect uses.
const minBufferSize = 4096

// AutoDetect is an Extractor that sniffs the leading bytes of a stream to decide how to extract it.
//
// In order:
//   - archives (zip, tar, rar by default) are parsed with a PackageParser that uses this AutoDetect for its entries;
//   - gzip, zstd, and xz streams are decompressed, and the decompressed bytes are detected again;
//   - text, as recognised by http.DetectContentType, is passed to TextExtractor;
//   - other compressed streams recognised by github.com/mholt/archives are decompressed and detected again;
//   - anything else produces an empty document with only its detected content type.
//
// Every archive or compressed stream counts towards MaxDepth, including the outermost one.
type AutoDetect struct {
	// Containers are the archive formats that AutoDetect recognises, tried in order.
	//
	// Default to archive.Zip, archive.Tar, and archive.Rar.
	Containers []archive.Container

	// MaxDepth limits how many nested archives or compressed streams AutoDetect descends into. ErrMaxDepth is
	// returned for anything deeper.
	//
	// Default to DefaultMaxDepth.
	MaxDepth int

	// BufferSize is the size of the read buffer used by TextExtractor.
	//
	// Default to archive.DefaultBufferSize.
	BufferSize int

	// PackageOptions are applied to every PackageParser created for archives.
	PackageOptions []func(*Options)
}

var _ Extractor = &AutoDetect{}

// NewAutoDetect creates a new AutoDetect with default settings.
func NewAutoDetect(optFns ...func(*AutoDetect)) *AutoDetect {
	a := &AutoDetect{
		Containers: []archive.Container{archive.Zip{}, archive.Tar{}, archive.Rar{}},
		MaxDepth:   DefaultMaxDepth,
		BufferSize: archive.DefaultBufferSize,
	}
	for _, fn := range optFns {
		fn(a)
	}

	return a
}

type depthKey struct{}

func depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func (a *AutoDetect) Extract(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error {
	if md == nil {
		md = metadata.New()
	}

	// the sniffed bytes are put back in front of the rest of r rather than buffered so that an archive is not read any
	// further than its container codec requires.
	b := util.Borrow(r)
	head := make([]byte, archive.SniffLen)
	n, err := io.ReadFull(b, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("sniff content type error: %w", err)
	}
	head = head[:n]
	rest := io.MultiReader(bytes.NewReader(head), b)

	if n == 0 {
		return Discard.Extract(ctx, rest, sink, md)
	}

	for _, c := range a.containers() {
		if c.Match(head) {
			md.Set(metadata.ContentType, c.ContentType())

			if ctx, err = a.descend(ctx); err != nil {
				return err
			}

			return New(c, a, a.PackageOptions...).Parse(ctx, rest, sink, md)
		}
	}

	if c := codec.Detect(head); c != nil {
		return a.decompress(ctx, c.ContentType(), c.NewDecoder, rest, sink, md)
	}

	contentType := http.DetectContentType(head)
	if strings.HasPrefix(contentType, "text/") {
		md.Set(metadata.ContentType, contentType)
		return (&TextExtractor{BufferSize: a.bufferSize()}).Extract(ctx, rest, sink, md)
	}

	// Identify returns the rewound stream even if nothing matches.
	format, stream, err := archives.Identify(ctx, "", rest)
	if stream != nil {
		rest = stream
	}
	if dec, ok := format.(archives.Decompressor); ok && err == nil {
		return a.decompress(ctx, "application/x-"+strings.TrimPrefix(format.Extension(), "."), dec.OpenReader, rest, sink, md)
	}

	md.Set(metadata.ContentType, contentType)
	return Discard.Extract(ctx, rest, sink, md)
}

// decompress emits a document whose only content is the detected content of the decompressed stream.
func (a *AutoDetect) decompress(ctx context.Context, contentType string, open func(io.Reader) (io.ReadCloser, error), r io.Reader, sink sax.Sink, md *metadata.Metadata) (err error) {
	md.Set(metadata.ContentType, contentType)

	if ctx, err = a.descend(ctx); err != nil {
		return err
	}

	dec, err := open(r)
	if err != nil {
		return fmt.Errorf("open %s decoder error: %w", contentType, err)
	}
	defer func() {
		if cerr := dec.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s decoder error: %w", contentType, cerr)
		}
	}()

	inner := metadata.New()
	if name := md.Get(metadata.ResourceName); name != "" {
		inner.Set(metadata.ResourceName, strings.TrimSuffix(name, path.Ext(name)))
	}

	if err = sink.StartDocument(); err != nil {
		return err
	}

	embedded := sax.Embed(sink)
	err = a.Extract(ctx, dec, embedded, inner)
	if cerr := embedded.Close(); cerr != nil {
		return cerr
	}
	if err != nil {
		return err
	}

	return sink.EndDocument()
}

// descend returns a context one level deeper, or ErrMaxDepth if that would exceed MaxDepth.
func (a *AutoDetect) descend(ctx context.Context) (context.Context, error) {
	d := depth(ctx)
	if d >= a.maxDepth() {
		return ctx, fmt.Errorf("%w (%d)", ErrMaxDepth, a.maxDepth())
	}

	return context.WithValue(ctx, depthKey{}, d+1), nil
}

func (a *AutoDetect) containers() []archive.Container {
	if a.Containers == nil {
		return []archive.Container{archive.Zip{}, archive.Tar{}, archive.Rar{}}
	}

	return a.Containers
}

func (a *AutoDetect) maxDepth() int {
	if a.MaxDepth <= 0 {
		return DefaultMaxDepth
	}

	return a.MaxDepth
}

func (a *AutoDetect) bufferSize() int {
	if a.BufferSize <= 0 {
		return archive.DefaultBufferSize
	}

	return max(a.BufferSize, minBufferSize)
}
