// Package pdf checks uploaded PDFs before they are sent for conversion.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF indicates the bytes could not be opened as a PDF.
	ErrNotPDF = errors.New("not a readable PDF")

	// ErrNoPages indicates a well-formed PDF with no pages.
	ErrNoPages = errors.New("PDF has no pages")
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiSearchPages is how many leading pages are searched for a DOI.
const doiSearchPages = 3

// Info is what Inspect learned about a PDF.
type Info struct {
	Pages int    `json:"pages"`
	DOI   string `json:"doi,omitempty"` // Best effort; empty when none was found
}

// Inspect opens data as a PDF and reports its page count and, when one is
// printed on the first pages, its DOI. Corrupted input yields ErrNotPDF.
func Inspect(data []byte) (info Info, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\n\r "), []byte("%PDF-")) {
		return Info{}, fmt.Errorf("%w: missing %%PDF header", ErrNotPDF)
	}

	// The reader panics on some damaged cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	info.Pages = r.NumPage()
	if info.Pages < 1 {
		return Info{}, ErrNoPages
	}
	info.DOI = sniffDOI(r, doiSearchPages)
	return info, nil
}

func sniffDOI(r *pdf.Reader, maxPages int) string {
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi
		}
	}
	return ""
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
