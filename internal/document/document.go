package document

import (
	"encoding/json"
	"sort"
	"strings"
)

// Document is one parsed article.
type Document struct {
	Abstract *Section  `json:"abstract"`
	Sections []Section `json:"sections"`

	// Bibliography is the record describing the article itself.
	Bibliography Citation `json:"bibliography"`

	Keywords Keywords `json:"keywords"`

	// Citations maps the bibliography key (the biblStruct xml:id) to the cited work.
	// Keys are not linked back to Ref.Target; see Ref.CitationKey.
	Citations map[string]Citation `json:"citations"`
}

// Section is one body division with its paragraphs.
type Section struct {
	Title      string    `json:"title"`
	Paragraphs []RefText `json:"paragraphs"`
}

// RefText is a paragraph's flattened text plus its inline markers.
type RefText struct {
	Text string `json:"text"`
	Refs []Ref  `json:"refs"`
}

// Ref is an inline citation, figure, table or footnote marker.
// Start and End are byte offsets into the owning RefText.Text.
type Ref struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Type   string `json:"type,omitempty"`   // bibr, figure, table, foot, formula...
	Target string `json:"target,omitempty"` // e.g. "#b12"
}

// CitationKey returns the same-document key a marker points at, if any.
// GROBID writes bibliography targets as "#<xml:id>".
func (r Ref) CitationKey() (string, bool) {
	if len(r.Target) < 2 || r.Target[0] != '#' {
		return "", false
	}
	return r.Target[1:], true
}

// Span returns the marker's slice of text. Out-of-range spans yield "".
func (r Ref) Span(text string) string {
	if r.Start < 0 || r.End < r.Start || r.End > len(text) {
		return ""
	}
	return text[r.Start:r.End]
}

// Text joins the section's paragraph texts, one per line.
func (s Section) Text() string {
	parts := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

// Text returns the plain text of the abstract and every section, in order,
// separated by blank lines. This is what downstream text statistics consume.
func (d *Document) Text() string {
	var parts []string
	if d.Abstract != nil {
		if t := d.Abstract.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	for _, s := range d.Sections {
		if t := s.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Keywords is a set of cleaned keyword strings.
type Keywords map[string]struct{}

// Add inserts k into the set; empty strings are ignored.
func (k Keywords) Add(s string) {
	if s == "" {
		return
	}
	k[s] = struct{}{}
}

// Has reports whether s is in the set.
func (k Keywords) Has(s string) bool {
	_, ok := k[s]
	return ok
}

// Sorted returns the keywords in lexical order.
func (k Keywords) Sorted() []string {
	out := make([]string, 0, len(k))
	for s := range k {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (k Keywords) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Sorted())
}

// UnmarshalJSON decodes an array into the set, collapsing duplicates.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*k = make(Keywords, len(list))
	for _, s := range list {
		k.Add(s)
	}
	return nil
}
