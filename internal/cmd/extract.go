package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/docarc/internal"
	"github.com/nguyengg/docarc/internal/config"
	"github.com/nguyengg/docarc/internal/source"
	"github.com/nguyengg/docarc/metadata"
	"github.com/nguyengg/docarc/parser"
	"github.com/nguyengg/docarc/sax"
	"github.com/nguyengg/docarc/util"
)

type Extract struct {
	Output          flags.Filename `short:"o" long:"output" description:"the directory to write <name>.xhtml files to, never overwriting existing files; by default, the XHTML documents are written to standard output"`
	MaxDepth        int            `long:"max-depth" description:"override the [parse] max-depth setting"`
	SkipDirectories bool           `long:"skip-directories" description:"skip directory entries"`
	Progress        bool           `long:"progress" description:"show a progress bar instead of logging progress every so often"`
	Args            struct {
		Files []string `positional-arg-name:"file" description:"the local files or S3 objects in format s3://bucket/key to be extracted" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Extract) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if c.Output != "" {
		if err := os.MkdirAll(string(c.Output), 0755); err != nil {
			return fmt.Errorf("create output directory error: %w", err)
		}
	}

	success := 0
	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		ctx := internal.WithPrefixLogger(ctx, internal.Prefix(i, n, file))

		err := c.extract(ctx, file)
		if err == nil {
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		internal.Logger(ctx).Printf("extract error: %v", err)
	}

	log.Printf("successfully extracted %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("failed to extract %d/%d files", n-success, n)
	}

	return nil
}

func (c *Extract) extract(ctx context.Context, name string) (err error) {
	logger := internal.Logger(ctx)

	src, err := source.Open(ctx, name)
	if err != nil {
		return err
	}

	var (
		r        io.Reader
		progress io.WriteCloser
	)
	if c.Progress {
		progress = internal.NewProgressBar(src.Size, src.Name)
	} else {
		progress = internal.NewProgressLogger(logger, src.Size, 5*time.Second)
	}
	r = io.TeeReader(src, progress)

	w, closeOutput, err := c.createOutput(src.Name)
	if err != nil {
		_ = src.Close()
		return err
	}

	// the source is closed last since the output may still be flushing.
	closer := util.ChainCloser(closeOutput, progress.Close, src.Close)
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	md := metadata.New()
	md.Set(metadata.ResourceName, src.Name)

	sink := sax.NewXHTML(w, md)
	err = c.newAutoDetect().Extract(ctx, r, sink, md)

	// a failed document is still flushed so that whatever was extracted is kept.
	if ferr := sink.Flush(); ferr != nil && err == nil {
		err = ferr
	}

	return err
}

func (c *Extract) newAutoDetect() *parser.AutoDetect {
	cfg := config.ForParse()

	return parser.NewAutoDetect(func(a *parser.AutoDetect) {
		a.MaxDepth = cfg.MaxDepth
		if c.MaxDepth > 0 {
			a.MaxDepth = c.MaxDepth
		}

		a.BufferSize = cfg.BufferSize
		a.PackageOptions = append(a.PackageOptions, func(opts *parser.Options) {
			opts.SkipDirectories = cfg.SkipDirectories || c.SkipDirectories
		})
	})
}

// createOutput returns standard output if no output directory was given.
func (c *Extract) createOutput(name string) (io.Writer, func() error, error) {
	if c.Output == "" {
		return os.Stdout, func() error {
			return nil
		}, nil
	}

	f, err := util.OpenExclFile(string(c.Output), name, ".xhtml", 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file error: %w", err)
	}

	return f, func() error {
		if err := f.Close(); err != nil {
			return err
		}

		log.Printf(`wrote "%s"`, util.DirBase(f.Name()))
		return nil
	}, nil
}
