// Package grobid is a small client for the GROBID PDF-to-TEI service.
package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is where a local GROBID container listens.
	DefaultBaseURL = "http://localhost:8070"

	// DefaultTimeout bounds one full-text conversion. Large PDFs are slow.
	DefaultTimeout = 2 * time.Minute

	// DefaultRateLimit is requests per second; GROBID queues work per worker.
	DefaultRateLimit = 4.0

	fulltextPath = "/api/processFulltextDocument"
	isAlivePath  = "/api/isalive"
)

// Client is a rate-limited HTTP client for a GROBID server.
type Client struct {
	httpClient           *http.Client
	limiter              *rate.Limiter
	baseURL              string
	consolidateHeader    bool
	consolidateCitations bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the server URL, e.g. "http://grobid:8070".
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the maximum requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithConsolidation asks GROBID to consolidate header and/or citation
// metadata against external services.
func WithConsolidation(header, citations bool) ClientOption {
	return func(c *Client) {
		c.consolidateHeader = header
		c.consolidateCitations = citations
	}
}

// NewClient creates a GROBID client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessFulltext uploads a PDF and returns GROBID's reply. A reply with a
// documented failure status is still returned without error; check
// Response.Err. The error is non-nil only when no reply arrived.
func (c *Client) ProcessFulltext(ctx context.Context, name string, pdf []byte) (*Response, error) {
	body, contentType, err := c.fulltextForm(name, pdf)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fulltextPath, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkError, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Content:    content,
		Headers:    resp.Header,
	}, nil
}

func (c *Client) fulltextForm(name string, pdf []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("input", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", err
	}

	fields := map[string]bool{
		"consolidateHeader":    c.consolidateHeader,
		"consolidateCitations": c.consolidateCitations,
	}
	for field, on := range fields {
		value := "0"
		if on {
			value = "1"
		}
		if err := w.WriteField(field, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// IsAlive reports whether the server answers its health probe.
func (c *Client) IsAlive(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+isAlivePath, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if err := statusErr(resp.StatusCode); err != nil {
			return err
		}
		return &StatusError{StatusCode: resp.StatusCode, Err: ErrUnavailable}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64))
	if strings.TrimSpace(string(body)) == "false" {
		return &StatusError{StatusCode: resp.StatusCode, Err: ErrUnavailable}
	}
	return nil
}
