// Package tei parses GROBID's TEI XML into the typed records of package document.
package tei

import (
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Tree is a fully loaded, well-formed TEI document. It is never mutated
// after Load returns.
type Tree struct {
	doc *etree.Document
}

// Load parses data into a Tree. Any syntax error fails the whole load; no
// partial tree is returned. Encodings other than UTF-8 are honoured when
// the XML declaration names them.
func Load(data []byte) (*Tree, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return &Tree{doc: doc}, nil
}

// Root returns the document element (normally <TEI>).
func (t *Tree) Root() *etree.Element {
	return t.doc.Root()
}
