package sax

import (
	"fmt"
)

// Embedded passes events through to another Sink while turning a nested document into part of the enclosing one.
//
// StartDocument and EndDocument are dropped. Elements are tracked so that Close can end whatever the nested document
// left open, and an EndElement that does not match the innermost open element is rejected instead of being forwarded.
type Embedded struct {
	sink Sink
	open []string
	err  error
}

var _ Sink = &Embedded{}

// Embed wraps sink.
func Embed(sink Sink) *Embedded {
	return &Embedded{sink: sink}
}

func (e *Embedded) StartDocument() error {
	return e.err
}

func (e *Embedded) EndDocument() error {
	return e.err
}

func (e *Embedded) StartElement(name string, attrs ...Attr) error {
	if e.err != nil {
		return e.err
	}

	if e.err = e.sink.StartElement(name, attrs...); e.err != nil {
		return e.err
	}

	e.open = append(e.open, name)
	return nil
}

func (e *Embedded) EndElement(name string) error {
	if e.err != nil {
		return e.err
	}

	n := len(e.open)
	if n == 0 || e.open[n-1] != name {
		return fmt.Errorf(`unbalanced end element "%s"`, name)
	}

	if e.err = e.sink.EndElement(name); e.err != nil {
		return e.err
	}

	e.open = e.open[:n-1]
	return nil
}

func (e *Embedded) Characters(text string) error {
	if e.err != nil {
		return e.err
	}

	e.err = e.sink.Characters(text)
	return e.err
}

// Depth returns the number of elements currently open.
func (e *Embedded) Depth() int {
	return len(e.open)
}

// Err returns the first error returned by the wrapped Sink.
//
// Unlike the errors from unbalanced elements, an error here means the wrapped Sink itself is broken.
func (e *Embedded) Err() error {
	return e.err
}

// Close ends all elements that are still open, innermost first.
func (e *Embedded) Close() error {
	for n := len(e.open); n > 0 && e.err == nil; n = len(e.open) {
		if e.err = e.sink.EndElement(e.open[n-1]); e.err == nil {
			e.open = e.open[:n-1]
		}
	}

	return e.err
}
