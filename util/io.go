package util

import (
	"io"
)

// Borrowed is a non-owning view of an io.Reader.
//
// Borrowed only exposes Read: there is no Close, Seek, or ReadAt, so whoever holds a Borrowed cannot end or reposition
// the stream it came from. The owner of the underlying reader remains responsible for closing it.
type Borrowed struct {
	src io.Reader
	n   int64
}

// Borrow wraps src in a Borrowed.
//
// If src is already a *Borrowed, it is returned as-is.
func Borrow(src io.Reader) *Borrowed {
	if b, ok := src.(*Borrowed); ok {
		return b
	}

	return &Borrowed{src: src}
}

func (b *Borrowed) Read(p []byte) (n int, err error) {
	n, err = b.src.Read(p)
	b.n += int64(n)
	return
}

// BytesRead returns the number of bytes that have been read through this Borrowed.
func (b *Borrowed) BytesRead() int64 {
	return b.n
}

// ChainCloser makes sure all the close functions are called at least once and will return the first error.
//
// The order of wrapping assumes the first close function is the most important.
func ChainCloser(fn1 func() error, fn2 func() error, fns ...func() error) func() error {
	return func() error {
		err, err2 := fn1(), fn2()

		if err2 != nil && err == nil {
			err = err2
		}

		for _, fn := range fns {
			if err2 = fn(); err2 != nil && err == nil {
				err = err2
			}
		}

		return err
	}
}
