// Package sax contains the push-based document event model that extractors write to.
//
// A well-formed event stream is StartDocument, then balanced StartElement/EndElement pairs with Characters in between,
// then EndDocument. Element names are XHTML element names such as "div", "h1", or "p".
package sax

// Attr is an element attribute.
type Attr struct {
	Name, Value string
}

// Sink consumes structured document events.
//
// A non-nil error from any method means the sink can no longer accept events.
type Sink interface {
	StartDocument() error
	EndDocument() error
	StartElement(name string, attrs ...Attr) error
	EndElement(name string) error
	Characters(text string) error
}

// Element emits a complete element with optional text content.
func Element(s Sink, name, text string, attrs ...Attr) error {
	if err := s.StartElement(name, attrs...); err != nil {
		return err
	}

	if text != "" {
		if err := s.Characters(text); err != nil {
			return err
		}
	}

	return s.EndElement(name)
}
