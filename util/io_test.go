package util

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestBorrow(t *testing.T) {
	src := &closeTracker{Reader: strings.NewReader("hello, world!")}

	b := Borrow(src)
	_, ok := any(b).(io.Closer)
	assert.False(t, ok, "Borrowed must not expose Close")

	data, err := io.ReadAll(b)
	assert.NoError(t, err)
	assert.Equal(t, "hello, world!", string(data))
	assert.Equal(t, int64(13), b.BytesRead())
	assert.False(t, src.closed)

	assert.Same(t, b, Borrow(b))
}

func TestChainCloser(t *testing.T) {
	var calls []string
	first, second := errors.New("first"), errors.New("second")

	err := ChainCloser(
		func() error {
			calls = append(calls, "a")
			return nil
		},
		func() error {
			calls = append(calls, "b")
			return first
		},
		func() error {
			calls = append(calls, "c")
			return second
		})()

	assert.ErrorIs(t, err, first)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}
