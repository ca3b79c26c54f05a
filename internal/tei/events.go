package tei

import (
	"iter"

	"github.com/beevik/etree"
)

// EventKind distinguishes the two kinds of paragraph events.
type EventKind int

const (
	// TextRun is a run of character data, appended verbatim.
	TextRun EventKind = iota
	// Marker is an inline <ref> element. Its own text follows as TextRun events.
	Marker
)

func (k EventKind) String() string {
	switch k {
	case TextRun:
		return "text"
	case Marker:
		return "marker"
	default:
		return "unknown"
	}
}

// Event is one step of the depth-first walk over a paragraph.
type Event struct {
	Kind EventKind
	Text string         // TextRun: the run. Marker: the ref's flattened text.
	Ref  *etree.Element // Marker only
}

// Events returns a depth-first, document-order stream of text runs and
// <ref> markers under el. The sequence is lazy and can be ranged over any
// number of times.
func Events(el *etree.Element) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if el != nil {
			walkEvents(el, yield)
		}
	}
}

func walkEvents(el *etree.Element, yield func(Event) bool) bool {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if !yield(Event{Kind: TextRun, Text: t.Data}) {
				return false
			}
		case *etree.Element:
			if t.Tag == "ref" {
				if !yield(Event{Kind: Marker, Text: Text(t), Ref: t}) {
					return false
				}
			}
			if !walkEvents(t, yield) {
				return false
			}
		}
	}
	return true
}
