// Package api exposes the service over HTTP with gin.
package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/pdf"
	"github.com/wilsvd/teiparse/internal/service"
)

// Handler serves the HTTP endpoints.
type Handler struct {
	Service        *service.Service
	MaxUploadBytes int64
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.POST("/upload", h.Upload)
	r.GET("/validate_url", h.ValidateURL)
	r.GET("/healthz", h.Health)

	return r
}

// detail writes the error body shape every failing endpoint shares.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// Upload converts an uploaded PDF (multipart field "file") and returns the
// parsed document.
func (h *Handler) Upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.MaxUploadBytes {
			detail(c, http.StatusRequestEntityTooLarge, "Document is too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			detail(c, http.StatusRequestEntityTooLarge, "Document is too large")
			return
		}
		detail(c, http.StatusBadRequest, "Missing file")
		return
	}

	mediaType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if mediaType != "application/pdf" {
		detail(c, http.StatusUnsupportedMediaType, "Invalid document type")
		return
	}

	f, err := header.Open()
	if err != nil {
		detail(c, http.StatusUnsupportedMediaType, "Couldn't read document")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		detail(c, http.StatusUnsupportedMediaType, "Couldn't read document")
		return
	}

	doc, err := h.Service.ProcessPDF(c.Request.Context(), header.Filename, data)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, pdf.ErrNotPDF), errors.Is(err, pdf.ErrNoPages):
			detail(c, http.StatusUnsupportedMediaType, "Couldn't read document")
		case grobid.IsRetryable(err):
			detail(c, http.StatusServiceUnavailable, err.Error())
		default:
			detail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ValidateURL checks that ?url= points at a downloadable PDF.
func (h *Handler) ValidateURL(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		detail(c, http.StatusBadRequest, "Missing url parameter")
		return
	}

	err := h.Service.ValidatePDFURL(c.Request.Context(), url)
	var urlErr *service.URLError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"detail": "PDF URL is valid"})
	case errors.As(err, &urlErr):
		detail(c, urlErr.StatusCode, urlErr.Detail)
	default:
		_ = c.Error(err)
		detail(c, http.StatusInternalServerError, "An error occurred while requesting '"+url+"'.")
	}
}

// Health reports liveness and the parser's language model.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  h.Service.Parser.Model().Name(),
	})
}

// requestLogger logs one line per request with zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if err := c.Errors.Last(); err != nil {
			event = event.Err(err.Err)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("request")
	}
}
