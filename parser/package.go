package parser

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/nguyengg/docarc/archive"
	"github.com/nguyengg/docarc/internal"
	"github.com/nguyengg/docarc/metadata"
	"github.com/nguyengg/docarc/sax"
)

// Options customises PackageParser.
type Options struct {
	// OnEntryError is called for every entry whose extraction fails, after which the traversal continues with the
	// next entry.
	//
	// By default, the error is logged with the logger attached to the context.
	OnEntryError func(ctx context.Context, err *EntryError)

	// SkipDirectories skips directory entries instead of passing them to the Extractor.
	SkipDirectories bool
}

// PackageParser emits an archive as one document whose children are the archive's entries.
//
// Each entry becomes a div element of class "package-entry" containing an h1 element with the entry's name, followed by
// whatever the Extractor produces from the entry's bytes.
type PackageParser struct {
	container archive.Container
	extractor Extractor
	opts      Options
}

var _ Extractor = &PackageParser{}

// New creates a PackageParser for the given container format.
func New(container archive.Container, extractor Extractor, optFns ...func(*Options)) *PackageParser {
	opts := Options{OnEntryError: logEntryError}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.OnEntryError == nil {
		opts.OnEntryError = logEntryError
	}

	return &PackageParser{container: container, extractor: extractor, opts: opts}
}

// NewZipParser creates a PackageParser for ZIP files.
func NewZipParser(extractor Extractor, optFns ...func(*Options)) *PackageParser {
	return New(archive.Zip{}, extractor, optFns...)
}

// NewTarParser creates a PackageParser for tar archives.
func NewTarParser(extractor Extractor, optFns ...func(*Options)) *PackageParser {
	return New(archive.Tar{}, extractor, optFns...)
}

// NewRarParser creates a PackageParser for RAR files.
func NewRarParser(extractor Extractor, optFns ...func(*Options)) *PackageParser {
	return New(archive.Rar{}, extractor, optFns...)
}

// Extract is an alias for Parse so that PackageParser can be used as an Extractor.
func (p *PackageParser) Extract(ctx context.Context, r io.Reader, sink sax.Sink, md *metadata.Metadata) error {
	return p.Parse(ctx, r, sink, md)
}

// Parse reads the archive from src and emits its document to sink.
//
// The content type of the container is set on md before anything is read. src is never closed.
//
// If src is not an archive of the expected format, an *archive.ContainerFormatError is returned and no event is
// emitted. Entries whose extraction fails are passed to Options.OnEntryError and the traversal continues. Errors from
// reading the archive itself (such as *archive.TruncatedArchiveError), from the sink, or from ctx stop the traversal
// and are returned without EndDocument being emitted.
//
// The archive reader is released before EndDocument is emitted. If releasing fails after the traversal succeeds,
// EndDocument is still emitted and an *archive.ResourceReleaseError is returned; if the traversal had already failed,
// the release error is logged and the traversal error is returned.
func (p *PackageParser) Parse(ctx context.Context, src io.Reader, sink sax.Sink, md *metadata.Metadata) (err error) {
	if md == nil {
		md = metadata.New()
	}

	md.Set(metadata.ContentType, p.container.ContentType())

	entries, err := p.container.Open(src)
	if err != nil {
		return err
	}

	released := false
	release := func() error {
		if released {
			return nil
		}

		released = true
		if err := entries.Close(); err != nil {
			return &archive.ResourceReleaseError{Format: p.container.ArchiveExt(), Err: err}
		}

		return nil
	}
	defer func() {
		_ = release()
	}()

	if err = sink.StartDocument(); err != nil {
		return err
	}

	err = p.walk(ctx, entries, sink)

	switch rerr := release(); {
	case err != nil:
		if rerr != nil {
			internal.Logger(ctx).Printf("%v", rerr)
		}

		return err
	case rerr != nil:
		if err = sink.EndDocument(); err != nil {
			return errors.Join(err, rerr)
		}

		return rerr
	default:
		return sink.EndDocument()
	}
}

// walk extracts entries until the archive is exhausted or a fatal error happens.
func (p *PackageParser) walk(ctx context.Context, entries *archive.Entries, sink sax.Sink) error {
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e, err := entries.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if p.opts.SkipDirectories && isDir(e) {
			continue
		}

		if err = p.parseEntry(ctx, entries, i, e, sink); err != nil {
			return err
		}
	}
}

// parseEntry emits one package-entry element.
//
// Only fatal errors are returned: those from the sink, from ctx, or from the archive itself.
func (p *PackageParser) parseEntry(ctx context.Context, entries *archive.Entries, i int, e archive.Entry, sink sax.Sink) error {
	name := e.Name()

	md := metadata.New()
	md.Set(metadata.ResourceName, name)

	if err := sink.StartElement("div", sax.Attr{Name: "class", Value: "package-entry"}); err != nil {
		return err
	}

	if name != "" {
		if err := sax.Element(sink, "h1", name); err != nil {
			return err
		}
	}

	embedded := sax.Embed(sink)
	xerr := p.extractor.Extract(ctx, e, embedded, md)

	// ends whatever a failed extraction left open.
	if err := embedded.Close(); err != nil {
		return err
	}

	if xerr != nil {
		if err := entries.Err(); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil && errors.Is(xerr, err) {
			return xerr
		}

		p.opts.OnEntryError(ctx, &EntryError{Index: i, Name: name, Metadata: md, Err: xerr})
	}

	return sink.EndElement("div")
}

func isDir(e archive.Entry) bool {
	if fi := e.FileInfo(); fi != nil && fi.IsDir() {
		return true
	}

	return strings.HasSuffix(e.Name(), "/")
}

func logEntryError(ctx context.Context, err *EntryError) {
	internal.Logger(ctx).Printf("%v", err)
}
