package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wilsvd/teiparse/internal/config"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/pdf"
	"github.com/wilsvd/teiparse/internal/tei"
)

// Title truncation lengths by context
const (
	SummaryTitleMaxLen = 70 // Used in document summaries
	CitedTitleMaxLen   = 60 // Used in cited-work lines
	MaxCitedShown      = 10 // Cited works listed in a summary
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputJSONCompact writes a value as compact JSON to stdout.
func outputJSONCompact(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCode maps an error onto the exit-code table.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case grobid.IsRetryable(err):
		return ExitUnavailable
	case tei.IsStructural(err),
		errors.Is(err, pdf.ErrNotPDF),
		errors.Is(err, pdf.ErrNoPages),
		errors.Is(err, grobid.ErrNoContent),
		errors.Is(err, grobid.ErrBadRequest),
		errors.Is(err, grobid.ErrServerError):
		return ExitDataError
	}
	return ExitError
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ParseResult is one file's outcome when several files are parsed at once.
type ParseResult struct {
	File     string             `json:"file"`
	Document *document.Document `json:"document,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// printDocumentHuman prints a short summary of a parsed document.
func printDocumentHuman(source string, doc *document.Document) {
	bib := doc.Bibliography
	fmt.Printf("%s\n", source)
	fmt.Printf("  Title:    %s\n", truncateString(orDash(bib.Title), SummaryTitleMaxLen))
	fmt.Printf("  Authors:  %s\n", orDash(formatAuthorsShort(bib.Authors, 3)))
	if bib.Date != nil {
		fmt.Printf("  Date:     %s\n", bib.Date)
	}
	if bib.IDs != nil && bib.IDs.DOI != "" {
		fmt.Printf("  DOI:      %s\n", bib.IDs.DOI)
	}
	if kw := doc.Keywords.Sorted(); len(kw) > 0 {
		fmt.Printf("  Keywords: %s\n", strings.Join(kw, ", "))
	}

	abstract := "no"
	if doc.Abstract != nil {
		abstract = "yes"
	}
	fmt.Printf("  Abstract: %s\n", abstract)
	fmt.Printf("  Sections: %d\n", len(doc.Sections))
	for _, s := range doc.Sections {
		fmt.Printf("    - %s (%d paragraphs)\n", s.Title, len(s.Paragraphs))
	}

	fmt.Printf("  Cited works: %d\n", len(doc.Citations))
	keys := make([]string, 0, len(doc.Citations))
	for k := range doc.Citations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i >= MaxCitedShown {
			fmt.Printf("    ... and %d more\n", len(keys)-MaxCitedShown)
			break
		}
		c := doc.Citations[k]
		fmt.Printf("    [%s] %s\n", k, truncateString(orDash(c.Title), CitedTitleMaxLen))
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAuthorShort formats an author as "Surname F" (abbreviated first name).
func formatAuthorShort(a document.Author) string {
	n := a.PersonName
	if n.FirstName != "" {
		return n.Surname + " " + string([]rune(n.FirstName)[0])
	}
	return n.Surname
}

// formatAuthorsShort formats authors with abbreviation and "et al." for more than maxCount.
func formatAuthorsShort(authors []document.Author, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, formatAuthorShort(a))
	}
	return strings.Join(names, ", ")
}

// formatBytes formats bytes in a human-readable way.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
