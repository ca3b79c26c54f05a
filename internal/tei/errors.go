package tei

import (
	"errors"
	"fmt"
)

// Structural errors. Each aborts the whole parse.
var (
	// ErrMalformed indicates the input is not well-formed XML.
	ErrMalformed = errors.New("malformed TEI XML")

	// ErrMissingBody indicates the document has no <body>.
	ErrMissingBody = errors.New("missing body")

	// ErrMissingSourceDesc indicates the header has no <sourceDesc>.
	ErrMissingSourceDesc = errors.New("missing source description")

	// ErrMissingBibliography indicates <sourceDesc> has no <biblStruct>.
	ErrMissingBibliography = errors.New("missing bibliography")

	// ErrMissingCitations indicates the document has no <listBibl>.
	ErrMissingCitations = errors.New("missing citations")

	// ErrModelCapability indicates the NLP model lacks a required capability.
	ErrModelCapability = errors.New("language model lacks required capability")
)

// ParseError reports which mandatory substructure was missing.
type ParseError struct {
	Element string // TEI element name: body, sourceDesc, biblStruct, listBibl
	Err     error  // One of the ErrMissing* sentinels
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing TEI: %v (<%s>)", e.Err, e.Element)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func missing(element string, err error) error {
	return &ParseError{Element: element, Err: err}
}

// IsStructural reports whether err is a structural parse failure, as opposed
// to a configuration problem with the parser itself.
func IsStructural(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) || errors.Is(err, ErrMalformed)
}
