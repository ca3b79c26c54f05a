// Package document defines the typed records extracted from a TEI article.
package document

// Citation represents one bibliographic record: the article itself or a work it cites.
type Citation struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`

	// Optional sub-records are nil when nothing resolved.
	IDs   *CitationIDs `json:"ids,omitempty"`
	Date  *Date        `json:"date,omitempty"`
	Scope *Scope       `json:"scope,omitempty"`

	Target    string `json:"target,omitempty"` // External URL from <ptr target>
	Publisher string `json:"publisher,omitempty"`
	Journal   string `json:"journal,omitempty"` // Only when different from Title
	Series    string `json:"series,omitempty"`  // Only when different from Title
}

// CitationIDs holds external identifiers for a citation.
type CitationIDs struct {
	DOI   string `json:"DOI,omitempty"`
	ArXiv string `json:"arXiv,omitempty"`
}

// IsEmpty reports whether no identifier resolved.
func (ids CitationIDs) IsEmpty() bool {
	return ids.DOI == "" && ids.ArXiv == ""
}

// Date is a bibliographic date. Components are kept exactly as supplied
// ("2019", "03", "07"), so zero-padding survives a round trip.
type Date struct {
	Year  string `json:"year"`
	Month string `json:"month,omitempty"`
	Day   string `json:"day,omitempty"`
}

// String renders the date in the hyphenated form it was parsed from.
func (d Date) String() string {
	s := d.Year
	if d.Month != "" {
		s += "-" + d.Month
		if d.Day != "" {
			s += "-" + d.Day
		}
	}
	return s
}

// PageRange is an inclusive page span.
type PageRange struct {
	FromPage int `json:"from_page"`
	ToPage   int `json:"to_page"`
}

// Scope is the page/volume scope of a citation.
type Scope struct {
	Pages  *PageRange `json:"pages,omitempty"`
	Volume *int       `json:"volume,omitempty"`
}

// IsEmpty reports whether neither pages nor volume resolved.
func (s Scope) IsEmpty() bool {
	return s.Pages == nil && s.Volume == nil
}
