package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wilsvd/teiparse/internal/config"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/pdf"
	"github.com/wilsvd/teiparse/internal/tei"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", fmt.Errorf("loading: %w", config.ErrInvalid), ExitConfigError},
		{"unavailable", &grobid.StatusError{StatusCode: 503, Err: grobid.ErrUnavailable}, ExitUnavailable},
		{"network", fmt.Errorf("converting: %w", grobid.ErrNetworkError), ExitUnavailable},
		{"missing body", &tei.ParseError{Element: "body", Err: tei.ErrMissingBody}, ExitDataError},
		{"malformed", fmt.Errorf("parsing: %w", tei.ErrMalformed), ExitDataError},
		{"not a pdf", fmt.Errorf("checking: %w", pdf.ErrNotPDF), ExitDataError},
		{"no content", grobid.ErrNoContent, ExitDataError},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title here", 10, "a longe..."},
		{"Théorie des graphes", 10, "Théorie..."},
		{"グラフ理論の基礎", 6, "グラフ..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatAuthorsShort(t *testing.T) {
	author := func(first, last string) document.Author {
		return document.Author{PersonName: document.PersonName{FirstName: first, Surname: last}}
	}
	authors := []document.Author{
		author("Ada", "Lovelace"),
		author("Émile", "Borel"),
		author("", "Euclid"),
		author("Alan", "Turing"),
	}

	if got, want := formatAuthorsShort(authors, 3), "Lovelace A, Borel É, Euclid, et al."; got != want {
		t.Errorf("formatAuthorsShort() = %q, want %q", got, want)
	}
	if got := formatAuthorsShort(nil, 3); got != "" {
		t.Errorf("formatAuthorsShort(nil) = %q, want empty", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
