package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/docarc/archive"
	"github.com/nguyengg/docarc/internal"
	"github.com/nguyengg/docarc/internal/source"
	"github.com/nguyengg/docarc/util"
)

type List struct {
	Args struct {
		Files []string `positional-arg-name:"file" description:"the local files or S3 objects in format s3://bucket/key to be listed" required:"yes"`
	} `positional-args:"yes"`
}

func (c *List) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	success := 0
	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		ctx := internal.WithPrefixLogger(ctx, internal.Prefix(i, n, file))

		err := c.list(ctx, file, os.Stdout)
		if err == nil {
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		internal.Logger(ctx).Printf("list error: %v", err)
	}

	log.Printf("successfully listed %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("failed to list %d/%d files", n-success, n)
	}

	return nil
}

func (c *List) list(ctx context.Context, name string, w io.Writer) error {
	src, err := source.Open(ctx, name)
	if err != nil {
		return err
	}
	defer src.Close()

	return listEntries(ctx, src, w)
}

// listEntries prints one line per entry: its size, modification time, and name.
//
// Rows printed before an error are flushed to w.
func listEntries(ctx context.Context, src io.Reader, w io.Writer) (err error) {
	b := util.Borrow(src)
	br := bufio.NewReaderSize(b, archive.SniffLen)
	head, err := br.Peek(archive.SniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read signature error: %w", err)
	}

	var c archive.Container
	for _, candidate := range []archive.Container{archive.Zip{}, archive.Tar{}, archive.Rar{}} {
		if candidate.Match(head) {
			c = candidate
			break
		}
	}
	if c == nil {
		return fmt.Errorf("not a zip, tar, or rar archive")
	}

	entries, err := c.Open(br)
	if err != nil {
		return err
	}
	defer entries.Close()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	defer func() {
		if ferr := tw.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	for e, err := range entries.All() {
		if err != nil {
			return err
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		size, modTime := "-", "-"
		if fi := e.FileInfo(); fi != nil {
			if !fi.IsDir() {
				size = humanize.IBytes(uint64(fi.Size()))
			}
			if !fi.ModTime().IsZero() {
				modTime = fi.ModTime().Format("2006-01-02 15:04")
			}
		}

		if _, err = fmt.Fprintf(tw, "%s\t%s\t %s\n", size, modTime, e.Name()); err != nil {
			return err
		}
	}

	internal.Logger(ctx).Printf("%d entries, read %s", entries.Count(), humanize.IBytes(uint64(b.BytesRead())))
	return nil
}
