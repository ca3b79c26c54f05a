// Package nlp defines the language-model capabilities the TEI parser relies on.
//
// A Model is a named handle. The parser discovers what it can do through
// type assertions against EntityRecognizer and NounChunker, the same way
// io.Writer implementations advertise io.ReaderFrom.
package nlp

// Entity labels, using the OntoNotes names that spaCy and prose share.
const (
	LabelPerson = "PERSON"
	LabelGPE    = "GPE"
	LabelOrg    = "ORG"
)

// Model is a loaded language model.
type Model interface {
	Name() string
}

// Entity is a recognized named entity.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntityRecognizer finds named entities in a short string, in text order.
type EntityRecognizer interface {
	Entities(text string) []Entity
}

// NounChunker splits a short string into base noun phrases, in text order.
type NounChunker interface {
	NounChunks(text string) []string
}

// Capabilities reports which of the parser-relevant capabilities m offers.
func Capabilities(m Model) (entities, chunks bool) {
	if m == nil {
		return false, false
	}
	_, entities = m.(EntityRecognizer)
	_, chunks = m.(NounChunker)
	return entities, chunks
}
