package tei

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/wilsvd/teiparse/internal/nlp"
)

// stubModel labels every non-empty string PERSON except the ones listed in
// reject, and chunks text on commas and semicolons.
type stubModel struct {
	reject map[string]string // candidate -> label to return instead of PERSON
}

func (s stubModel) Name() string { return "stub" }

func (s stubModel) Entities(text string) []nlp.Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if label, ok := s.reject[text]; ok {
		if label == "" {
			return nil
		}
		return []nlp.Entity{{Text: text, Label: label}}
	}
	return []nlp.Entity{{Text: text, Label: nlp.LabelPerson}}
}

func (s stubModel) NounChunks(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' })
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(stubModel{reject: map[string]string{
		"Ibid":    "WORK_OF_ART",
		"Nobody":  "",
		"Paris":   nlp.LabelGPE,
		"Acme":    nlp.LabelOrg,
		"Table 3": "CARDINAL",
	}})
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	return p
}

// element parses a fragment and returns its root element.
func element(t *testing.T, xml string) *etree.Element {
	t.Helper()
	tree, err := Load([]byte(xml))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return tree.Root()
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return data
}
