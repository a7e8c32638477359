package sax

import (
	"fmt"
	"strings"
)

// Kind is the type of an Event.
type Kind int

const (
	KindStartDocument Kind = iota
	KindEndDocument
	KindStartElement
	KindEndElement
	KindCharacters
)

func (k Kind) String() string {
	switch k {
	case KindStartDocument:
		return "StartDocument"
	case KindEndDocument:
		return "EndDocument"
	case KindStartElement:
		return "StartElement"
	case KindEndElement:
		return "EndElement"
	case KindCharacters:
		return "Characters"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a recorded Sink call.
type Event struct {
	Kind  Kind
	Name  string
	Attrs []Attr
	Text  string
}

func (e Event) String() string {
	switch e.Kind {
	case KindStartElement:
		if len(e.Attrs) == 0 {
			return "<" + e.Name + ">"
		}

		var sb strings.Builder
		sb.WriteString("<" + e.Name)
		for _, a := range e.Attrs {
			sb.WriteString(fmt.Sprintf(` %s="%s"`, a.Name, a.Value))
		}
		sb.WriteString(">")
		return sb.String()
	case KindEndElement:
		return "</" + e.Name + ">"
	case KindCharacters:
		return e.Text
	default:
		return e.Kind.String()
	}
}

// Recorder is a Sink that keeps every event in memory.
type Recorder struct {
	Events []Event
}

var _ Sink = &Recorder{}

func (r *Recorder) StartDocument() error {
	r.Events = append(r.Events, Event{Kind: KindStartDocument})
	return nil
}

func (r *Recorder) EndDocument() error {
	r.Events = append(r.Events, Event{Kind: KindEndDocument})
	return nil
}

func (r *Recorder) StartElement(name string, attrs ...Attr) error {
	r.Events = append(r.Events, Event{Kind: KindStartElement, Name: name, Attrs: append([]Attr(nil), attrs...)})
	return nil
}

func (r *Recorder) EndElement(name string) error {
	r.Events = append(r.Events, Event{Kind: KindEndElement, Name: name})
	return nil
}

func (r *Recorder) Characters(text string) error {
	r.Events = append(r.Events, Event{Kind: KindCharacters, Text: text})
	return nil
}

// Count returns the number of recorded events of the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

// Text concatenates all recorded Characters.
func (r *Recorder) Text() string {
	var sb strings.Builder
	for _, e := range r.Events {
		if e.Kind == KindCharacters {
			sb.WriteString(e.Text)
		}
	}

	return sb.String()
}

// Strings returns the String of every recorded event.
func (r *Recorder) Strings() []string {
	ss := make([]string, len(r.Events))
	for i, e := range r.Events {
		ss[i] = e.String()
	}

	return ss
}
