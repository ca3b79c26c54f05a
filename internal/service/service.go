// Package service strings the PDF check, TEI cache, GROBID conversion and
// TEI parser together. The HTTP API and the CLI both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wilsvd/teiparse/internal/cache"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/pdf"
	"github.com/wilsvd/teiparse/internal/tei"
)

// DefaultValidateTimeout bounds a ValidatePDFURL probe.
const DefaultValidateTimeout = 10 * time.Second

// ErrURLUnreachable indicates the HEAD request in ValidatePDFURL never got a reply.
var ErrURLUnreachable = errors.New("URL could not be requested")

// URLError is a PDF URL that answered, but not with a PDF.
type URLError struct {
	StatusCode int    // Upstream status, or 415 for a non-PDF content type
	Detail     string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Detail)
}

// Converter turns a PDF into TEI. *grobid.Client implements it.
type Converter interface {
	ProcessFulltext(ctx context.Context, name string, pdf []byte) (*grobid.Response, error)
}

// Service holds the long-lived pieces one conversion needs. Parser and
// GROBID are required; Cache and HTTPClient may be nil.
type Service struct {
	Parser     *tei.Parser
	GROBID     Converter
	Cache      *cache.Cache
	HTTPClient *http.Client
}

// ParseTEI parses already converted TEI XML.
func (s *Service) ParseTEI(data []byte) (*document.Document, error) {
	return s.Parser.Parse(data)
}

// ProcessPDF checks data is a PDF, converts it (or reuses a cached
// conversion) and parses the TEI. Only TEI that parsed is cached.
func (s *Service) ProcessPDF(ctx context.Context, name string, data []byte) (*document.Document, error) {
	info, err := pdf.Inspect(data)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", name, err)
	}
	logger := log.With().Str("file", name).Int("bytes", len(data)).Int("pages", info.Pages).Logger()

	key := cache.Key(data)
	if doc, ok := s.fromCache(logger, key, info.DOI); ok {
		return doc, nil
	}

	start := time.Now()
	resp, err := s.GROBID.ProcessFulltext(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", name, err)
	}
	if err := resp.Err(); err != nil {
		logger.Warn().Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("GROBID refused document")
		return nil, fmt.Errorf("converting %s: %w", name, err)
	}
	logger.Info().Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("converted PDF")

	doc, err := s.Parser.Parse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	if s.Cache != nil {
		doi := info.DOI
		if doc.Bibliography.IDs != nil && doc.Bibliography.IDs.DOI != "" {
			doi = doc.Bibliography.IDs.DOI
		}
		if err := s.Cache.Put(key, doi, resp.Content); err != nil {
			logger.Warn().Err(err).Msg("caching TEI failed")
		}
	}
	return doc, nil
}

// fromCache returns a document parsed from cached TEI. An exact hit on the
// PDF hash is trusted. A hit on the DOI printed in the PDF is only accepted
// when the cached article's own DOI matches, since the first DOI on a page
// may belong to a cited work or to the proceedings volume.
func (s *Service) fromCache(logger zerolog.Logger, key, doi string) (*document.Document, bool) {
	if s.Cache == nil {
		return nil, false
	}

	teiXML, ok, err := s.Cache.Get(key)
	if err != nil {
		logger.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	if ok {
		doc, err := s.Parser.Parse(teiXML)
		if err == nil {
			logger.Debug().Str("cache", "hit").Msg("parsed cached TEI")
			return doc, true
		}
		logger.Warn().Err(err).Msg("cached TEI no longer parses; converting again")
		return nil, false
	}

	if doi == "" {
		return nil, false
	}
	teiXML, ok, err = s.Cache.GetByDOI(doi)
	if err != nil {
		logger.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	doc, err := s.Parser.Parse(teiXML)
	if err != nil {
		logger.Warn().Err(err).Msg("cached TEI no longer parses; converting again")
		return nil, false
	}
	if ids := doc.Bibliography.IDs; ids == nil || !strings.EqualFold(ids.DOI, doi) {
		logger.Debug().Str("doi", doi).Msg("DOI match belongs to another article")
		return nil, false
	}
	logger.Debug().Str("cache", "doi").Str("doi", doi).Msg("parsed cached TEI")
	return doc, true
}

// ValidatePDFURL checks that url answers a HEAD request with 200 and a
// PDF content type.
func (s *Service) ValidatePDFURL(ctx context.Context, url string) error {
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultValidateTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrURLUnreachable, url, err)
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrURLUnreachable, url, err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &URLError{StatusCode: res.StatusCode, Detail: "Request unsuccessful"}
	}
	mediaType, _, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/pdf" {
		return &URLError{StatusCode: http.StatusUnsupportedMediaType, Detail: "File has unsupported extension type"}
	}
	return nil
}
