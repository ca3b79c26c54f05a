package tei

import (
	"strings"

	"github.com/beevik/etree"
)

// Cond is an attribute predicate used to filter elements during lookup.
type Cond func(el *etree.Element) bool

// AttrEq matches elements whose attribute key equals value exactly.
func AttrEq(key, value string) Cond {
	return func(el *etree.Element) bool {
		v, ok := Attr(el, key)
		return ok && v == value
	}
}

// HasAttr matches elements that carry attribute key, whatever its value.
func HasAttr(key string) Cond {
	return func(el *etree.Element) bool {
		_, ok := Attr(el, key)
		return ok
	}
}

// AnyOf matches when at least one of conds matches.
func AnyOf(conds ...Cond) Cond {
	return func(el *etree.Element) bool {
		for _, c := range conds {
			if c(el) {
				return true
			}
		}
		return false
	}
}

func matches(el *etree.Element, tag string, conds []Cond) bool {
	if el.Tag != tag {
		return false
	}
	for _, c := range conds {
		if !c(el) {
			return false
		}
	}
	return true
}

// Find returns the first descendant of el, in document order, named tag and
// satisfying every cond. It returns nil when nothing matches or el is nil.
func Find(el *etree.Element, tag string, conds ...Cond) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if matches(child, tag, conds) {
			return child
		}
		if found := Find(child, tag, conds...); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of el named tag and satisfying every
// cond, in document order.
func FindAll(el *etree.Element, tag string, conds ...Cond) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(cur *etree.Element) {
		for _, child := range cur.ChildElements() {
			if matches(child, tag, conds) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	if el != nil {
		walk(el)
	}
	return out
}

// Text returns the concatenated character data of el and all of its
// descendants. Comments and processing instructions are skipped.
func Text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	writeText(&b, el)
	return b.String()
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}

// Attr returns the value of attribute key on el. Prefixed keys such as
// "xml:id" are matched against the attribute's namespace prefix.
func Attr(el *etree.Element, key string) (string, bool) {
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}
