package tei

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/nlp"
)

// AbstractTitle is the title given to the abstract, which has no <head>.
const AbstractTitle = "Abstract"

// citationKeySpace namespaces the synthetic keys given to bibliography
// records without a usable xml:id.
var citationKeySpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.tei-c.org/ns/1.0#listBibl"))

// Parser turns TEI bytes into a Document. It holds only the read-only model
// and is safe for concurrent use. Build one with NewParser; a zero Parser
// has no model and treats every author candidate as invalid and every
// keyword as absent.
type Parser struct {
	model    nlp.Model
	entities nlp.EntityRecognizer
	chunks   nlp.NounChunker
}

// NewParser checks that model supports entity recognition and noun chunking
// and returns a Parser bound to it.
func NewParser(model nlp.Model) (*Parser, error) {
	hasEntities, hasChunks := nlp.Capabilities(model)
	switch {
	case model == nil:
		return nil, fmt.Errorf("%w: no model", ErrModelCapability)
	case !hasEntities:
		return nil, fmt.Errorf("%w: %s has no entity recognizer", ErrModelCapability, model.Name())
	case !hasChunks:
		return nil, fmt.Errorf("%w: %s has no noun chunker", ErrModelCapability, model.Name())
	}
	return &Parser{
		model:    model,
		entities: model.(nlp.EntityRecognizer),
		chunks:   model.(nlp.NounChunker),
	}, nil
}

// Model returns the model the parser was built with.
func (p *Parser) Model() nlp.Model {
	return p.model
}

// Parse loads data and assembles a Document.
//
// The body, the <sourceDesc> with its <biblStruct>, and the <listBibl> are
// mandatory; a missing one fails the parse with a *ParseError. Everything
// else degrades to absent.
func (p *Parser) Parse(data []byte) (*document.Document, error) {
	tree, err := Load(data)
	if err != nil {
		return nil, err
	}
	return p.ParseTree(tree)
}

// ParseTree assembles a Document from an already loaded tree.
func (p *Parser) ParseTree(tree *Tree) (*document.Document, error) {
	root := tree.Root()

	body := findSelfOrDescendant(root, "body")
	if body == nil {
		return nil, missing("body", ErrMissingBody)
	}

	doc := &document.Document{Sections: []document.Section{}}

	if abstract, ok := Section(findSelfOrDescendant(root, "abstract"), AbstractTitle); ok {
		doc.Abstract = &abstract
	}

	for _, div := range FindAll(body, "div") {
		if section, ok := Section(div, ""); ok {
			doc.Sections = append(doc.Sections, section)
		}
	}

	source := findSelfOrDescendant(root, "sourceDesc")
	if source == nil {
		return nil, missing("sourceDesc", ErrMissingSourceDesc)
	}
	self := Find(source, "biblStruct")
	if self == nil {
		return nil, missing("biblStruct", ErrMissingBibliography)
	}
	doc.Bibliography = p.Citation(self)

	doc.Keywords = p.Keywords(findSelfOrDescendant(root, "keywords"))

	listBibl := findSelfOrDescendant(root, "listBibl")
	if listBibl == nil {
		return nil, missing("listBibl", ErrMissingCitations)
	}
	doc.Citations = p.Citations(listBibl)

	return doc, nil
}

// Citations parses every <biblStruct> in a <listBibl>, keyed by xml:id.
// Records without an xml:id, or whose xml:id was already taken, get a
// synthetic key derived from their position so no record is dropped or
// overwritten.
func (p *Parser) Citations(listBibl *etree.Element) map[string]document.Citation {
	citations := make(map[string]document.Citation)
	for i, el := range FindAll(listBibl, "biblStruct") {
		key, ok := Attr(el, "xml:id")
		if _, taken := citations[key]; !ok || key == "" || taken {
			key = SyntheticKey(i)
		}
		citations[key] = p.Citation(el)
	}
	return citations
}

// SyntheticKey returns the key used for the i-th (zero-based) bibliography
// record when it has no usable xml:id.
func SyntheticKey(i int) string {
	return uuid.NewSHA1(citationKeySpace, []byte(fmt.Sprintf("biblStruct/%d", i))).URN()
}

// Keywords runs every <term> under el through the noun chunker and collects
// the cleaned chunks.
func (p *Parser) Keywords(el *etree.Element) document.Keywords {
	keywords := make(document.Keywords)
	if p.chunks == nil {
		return keywords
	}
	for _, term := range FindAll(el, "term") {
		text := Text(term)
		if text == "" {
			continue
		}
		for _, chunk := range p.chunks.NounChunks(text) {
			keywords.Add(CleanTitle(chunk))
		}
	}
	return keywords
}

// CleanTitle trims s, drops leading non-letters and capitalizes the rest.
func CleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	return Capitalize(s)
}

func findSelfOrDescendant(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	if el.Tag == tag {
		return el
	}
	return Find(el, tag)
}
