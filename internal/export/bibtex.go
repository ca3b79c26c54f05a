// Package export renders parsed documents in other bibliographic formats.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/wilsvd/teiparse/internal/document"
)

// ToBibTeX converts a citation to a BibTeX entry with the given key.
func ToBibTeX(key string, c document.Citation) string {
	entryType := determineEntryType(c)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))

	if len(c.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(c.Authors)))
	}
	if c.Title != "" {
		b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(c.Title)))
	}

	// Venue
	if c.Journal != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(c.Journal)))
	}
	if c.Series != "" {
		b.WriteString(fmt.Sprintf("  series = {%s},\n", escapeLatex(c.Series)))
	}
	if c.Publisher != "" {
		b.WriteString(fmt.Sprintf("  publisher = {%s},\n", escapeLatex(c.Publisher)))
	}

	if c.Date != nil {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", c.Date.Year))
		if m, err := strconv.Atoi(c.Date.Month); err == nil && m > 0 {
			b.WriteString(fmt.Sprintf("  month = {%d},\n", m))
		}
	}

	if c.Scope != nil {
		if c.Scope.Volume != nil {
			b.WriteString(fmt.Sprintf("  volume = {%d},\n", *c.Scope.Volume))
		}
		if p := c.Scope.Pages; p != nil {
			if p.FromPage == p.ToPage {
				b.WriteString(fmt.Sprintf("  pages = {%d},\n", p.FromPage))
			} else {
				b.WriteString(fmt.Sprintf("  pages = {%d--%d},\n", p.FromPage, p.ToPage))
			}
		}
	}

	if c.IDs != nil {
		if c.IDs.DOI != "" {
			b.WriteString(fmt.Sprintf("  doi = {%s},\n", c.IDs.DOI))
		}
		if c.IDs.ArXiv != "" {
			b.WriteString(fmt.Sprintf("  eprint = {%s},\n", c.IDs.ArXiv))
			b.WriteString("  archiveprefix = {arXiv},\n")
		}
	}
	if c.Target != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", c.Target))
	}

	b.WriteString("}\n")

	return b.String()
}

// DocumentToBibTeX renders the article's own record followed by every cited
// work, ordered by citation key. The article's key is derived from its
// first author and year.
func DocumentToBibTeX(doc *document.Document) string {
	entries := []string{ToBibTeX(CiteKey(doc.Bibliography), doc.Bibliography)}

	keys := make([]string, 0, len(doc.Citations))
	for k := range doc.Citations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, ToBibTeX(k, doc.Citations[k]))
	}
	return strings.Join(entries, "\n")
}

// CiteKey builds a "Surname2021" style key for a citation. Citations with no
// author fall back to "anon"; missing years are omitted.
func CiteKey(c document.Citation) string {
	key := "anon"
	if len(c.Authors) > 0 {
		key = asciiLetters(c.Authors[0].PersonName.Surname)
	}
	if key == "" {
		key = "anon"
	}
	if c.Date != nil {
		key += c.Date.Year
	}
	return key
}

func asciiLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// determineEntryType returns the BibTeX entry type for a citation.
func determineEntryType(c document.Citation) string {
	venue := strings.ToLower(c.Journal + " " + c.Series)

	// Preprints
	if c.IDs != nil && c.IDs.ArXiv != "" && c.Journal == "" {
		return "misc"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	if c.Journal != "" {
		return "article"
	}
	if c.Publisher != "" {
		return "book"
	}
	return "misc"
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []document.Author) string {
	var formatted []string
	for _, a := range authors {
		n := a.PersonName
		if n.FirstName != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", escapeLatex(n.Surname), escapeLatex(n.FirstName)))
		} else {
			formatted = append(formatted, escapeLatex(n.Surname))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
