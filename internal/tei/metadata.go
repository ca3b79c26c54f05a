package tei

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/nlp"
)

// acceptedEntities are the labels under which an author-name candidate
// counts as a name.
var acceptedEntities = map[string]bool{
	nlp.LabelGPE:    true,
	nlp.LabelOrg:    true,
	nlp.LabelPerson: true,
}

// Citation builds a Citation from a <biblStruct>. It never fails: every
// field that is missing or malformed is simply left out.
func (p *Parser) Citation(source *etree.Element) document.Citation {
	citation := document.Citation{
		Title:   Text(Find(source, "title")),
		Authors: p.Authors(source),
	}

	ids := document.CitationIDs{
		DOI:   idno(source, "DOI"),
		ArXiv: idno(source, "arXiv"),
	}
	if !ids.IsEmpty() {
		citation.IDs = &ids
	}

	citation.Date = ParseDate(source)
	citation.Target = target(source)
	citation.Publisher = Text(Find(source, "publisher"))
	citation.Scope = ParseScope(source)

	journal := Text(Find(source, "title", AnyOf(AttrEq("level", "j"), AttrEq("level", "journal"))))
	if journal != "" && journal != citation.Title {
		citation.Journal = journal
	}
	series := Text(Find(source, "title", AnyOf(AttrEq("level", "s"), AttrEq("level", "series"))))
	if series != "" && series != citation.Title {
		citation.Series = series
	}

	return citation
}

func idno(source *etree.Element, kind string) string {
	return Text(Find(source, "idno", AttrEq("type", kind)))
}

func target(source *etree.Element) string {
	v, _ := Attr(Find(source, "ptr", HasAttr("target")), "target")
	return v
}

// Authors extracts every <author> whose <persName> has a <surname> and whose
// name the entity recognizer accepts. Rejected candidates are dropped.
func (p *Parser) Authors(source *etree.Element) []document.Author {
	authors := []document.Author{}
	for _, el := range FindAll(source, "author") {
		persName := Find(el, "persName")
		surname := Find(persName, "surname")
		if surname == nil {
			continue
		}

		name := document.PersonName{Surname: Text(surname)}
		if first := Find(persName, "forename", AttrEq("type", "first")); first != nil {
			name.FirstName = Text(first)
		}
		if !p.isName(name.String()) {
			continue
		}

		author := document.Author{
			PersonName:   name,
			Email:        Text(Find(el, "email")),
			Affiliations: []document.Affiliation{},
		}
		for _, aff := range FindAll(el, "affiliation") {
			if a := affiliation(aff); !a.IsEmpty() {
				author.Affiliations = append(author.Affiliations, a)
			}
		}
		authors = append(authors, author)
	}
	return authors
}

// isName runs the entity gate: the first recognized entity must carry an
// accepted label.
func (p *Parser) isName(candidate string) bool {
	if p.entities == nil {
		return false
	}
	ents := p.entities.Entities(candidate)
	return len(ents) > 0 && acceptedEntities[ents[0].Label]
}

func affiliation(el *etree.Element) document.Affiliation {
	var a document.Affiliation
	for _, org := range FindAll(el, "orgName") {
		kind, _ := Attr(org, "type")
		switch kind {
		case "institution":
			a.Institution = Text(org)
		case "department":
			a.Department = Text(org)
		case "laboratory":
			a.Laboratory = Text(org)
		}
	}
	return a
}

// ParseDate reads the first <date when="..."> under source.
func ParseDate(source *etree.Element) *document.Date {
	when, ok := Attr(Find(source, "date", HasAttr("when")), "when")
	if !ok {
		return nil
	}
	return DateFromString(when)
}

// DateFromString maps "YYYY", "YYYY-MM" and "YYYY-MM-DD" onto a Date.
// Any other number of hyphen-separated tokens yields nil.
func DateFromString(when string) *document.Date {
	tokens := strings.Split(when, "-")
	switch len(tokens) {
	case 1:
		return &document.Date{Year: tokens[0]}
	case 2:
		return &document.Date{Year: tokens[0], Month: tokens[1]}
	case 3:
		return &document.Date{Year: tokens[0], Month: tokens[1], Day: tokens[2]}
	}
	return nil
}

// ParseScope folds every <biblScope> under source into a Scope. Values that
// are not integers are skipped one tag at a time; later tags override
// earlier ones. It returns nil when neither pages nor volume resolved.
func ParseScope(source *etree.Element) *document.Scope {
	var scope document.Scope
	for _, el := range FindAll(source, "biblScope") {
		unit, _ := Attr(el, "unit")
		switch unit {
		case "page":
			if pages, ok := pageRange(el); ok {
				scope.Pages = &pages
			}
		case "volume":
			if v, err := atoi(Text(el)); err == nil {
				scope.Volume = &v
			}
		}
	}
	if scope.IsEmpty() {
		return nil
	}
	return &scope
}

func pageRange(el *etree.Element) (document.PageRange, bool) {
	from, hasFrom := Attr(el, "from")
	to, hasTo := Attr(el, "to")
	if hasFrom && hasTo {
		f, err := atoi(from)
		if err != nil {
			return document.PageRange{}, false
		}
		t, err := atoi(to)
		if err != nil {
			return document.PageRange{}, false
		}
		return document.PageRange{FromPage: f, ToPage: t}, true
	}

	text := Text(el)
	if text == "" {
		return document.PageRange{}, false
	}
	page, err := atoi(text)
	if err != nil {
		return document.PageRange{}, false
	}
	return document.PageRange{FromPage: page, ToPage: page}, true
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
