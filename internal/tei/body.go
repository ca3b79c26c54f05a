package tei

import (
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/wilsvd/teiparse/internal/document"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section converts a <div> (or <abstract>) into a Section.
//
// The first <head> supplies the title when it is numbered (n attribute) or
// starts with an ASCII letter; all-caps and all-lowercase headings are
// re-cased. Without a usable heading the element is not a section, unless
// forcedTitle is non-empty, in which case forcedTitle is the title.
func Section(el *etree.Element, forcedTitle string) (document.Section, bool) {
	if el == nil {
		return document.Section{}, false
	}

	title, ok := headingTitle(Find(el, "head"))
	if !ok {
		if forcedTitle == "" {
			return document.Section{}, false
		}
		title = forcedTitle
	}

	section := document.Section{Title: title, Paragraphs: []document.RefText{}}
	for _, para := range FindAll(el, "p") {
		rt := RefText(para)
		if rt.Text == "" && len(rt.Refs) == 0 {
			continue
		}
		section.Paragraphs = append(section.Paragraphs, rt)
	}
	return section, true
}

func headingTitle(head *etree.Element) (string, bool) {
	if head == nil {
		return "", false
	}
	text := Text(head)
	_, numbered := Attr(head, "n")
	if !numbered && !startsWithASCIILetter(text) {
		return "", false
	}
	if isUpper(text) || isLower(text) {
		text = Capitalize(text)
	}
	return text, true
}

func startsWithASCIILetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isUpper reports whether s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isLower reports whether s has at least one cased letter and no uppercase ones.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// Capitalize title-cases the first rune of s and lower-cases the rest.
// A Caser is stateful, so one is built per call.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}

// RefText flattens a paragraph into text plus marker spans. A marker's span
// covers the marker's own text, which stays inline in the flattened text.
func RefText(el *etree.Element) document.RefText {
	var text []byte
	rt := document.RefText{Refs: []document.Ref{}}
	for ev := range Events(el) {
		switch ev.Kind {
		case TextRun:
			text = append(text, ev.Text...)
		case Marker:
			start := len(text)
			ref := document.Ref{Start: start, End: start + len(ev.Text)}
			if v, ok := Attr(ev.Ref, "type"); ok {
				ref.Type = v
			}
			if v, ok := Attr(ev.Ref, "target"); ok {
				ref.Target = v
			}
			rt.Refs = append(rt.Refs, ref)
		}
	}
	rt.Text = string(text)
	return rt
}
