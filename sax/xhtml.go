package sax

import (
	"bufio"
	"encoding/xml"
	"io"

	"github.com/nguyengg/docarc/metadata"
)

const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

// blocks are the elements that are followed by a newline to keep the output readable.
var blocks = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "meta": true,
	"div": true, "p": true, "pre": true, "ul": true, "ol": true, "li": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// XHTML is a Sink that writes the events as an XHTML document.
//
// StartDocument writes the html and head elements, rendering every name-value of the document's metadata as a meta
// element and its resource name as the title, then opens the body. EndDocument closes the body and html elements and
// flushes the output.
type XHTML struct {
	bw  *bufio.Writer
	enc *xml.Encoder
	md  *metadata.Metadata
}

var _ Sink = &XHTML{}

// NewXHTML creates a new XHTML writing to w.
//
// md is read at StartDocument, so values added until then will be rendered.
func NewXHTML(w io.Writer, md *metadata.Metadata) *XHTML {
	bw := bufio.NewWriter(w)
	return &XHTML{bw: bw, enc: xml.NewEncoder(bw), md: md}
}

func (x *XHTML) StartDocument() error {
	if err := x.StartElement("html", Attr{"xmlns", xhtmlNamespace}); err != nil {
		return err
	}

	if err := x.StartElement("head"); err != nil {
		return err
	}

	if x.md != nil {
		for _, name := range x.md.Names() {
			for _, value := range x.md.Values(name) {
				if err := Element(x, "meta", "", Attr{"name", name}, Attr{"content", value}); err != nil {
					return err
				}
			}
		}
	}

	title := ""
	if x.md != nil {
		title = x.md.Get(metadata.ResourceName)
	}

	if err := Element(x, "title", title); err != nil {
		return err
	}

	if err := x.EndElement("head"); err != nil {
		return err
	}

	return x.StartElement("body")
}

func (x *XHTML) EndDocument() error {
	if err := x.EndElement("body"); err != nil {
		return err
	}

	if err := x.EndElement("html"); err != nil {
		return err
	}

	return x.Flush()
}

func (x *XHTML) StartElement(name string, attrs ...Attr) error {
	se := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}

	return x.enc.EncodeToken(se)
}

func (x *XHTML) EndElement(name string) error {
	if err := x.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}}); err != nil {
		return err
	}

	if !blocks[name] {
		return nil
	}

	if err := x.enc.Flush(); err != nil {
		return err
	}

	return x.bw.WriteByte('\n')
}

func (x *XHTML) Characters(text string) error {
	return x.enc.EncodeToken(xml.CharData(text))
}

// Flush writes any buffered output to the underlying io.Writer.
func (x *XHTML) Flush() error {
	if err := x.enc.Flush(); err != nil {
		return err
	}

	return x.bw.Flush()
}
