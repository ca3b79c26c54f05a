package grobid

import "net/http"

// Response is the raw reply from processFulltextDocument.
type Response struct {
	StatusCode int
	Content    []byte // TEI XML on success
	Headers    http.Header
}

// Err returns a *StatusError for GROBID's documented failure codes
// (203, 400, 500, 503) and nil for anything else.
func (r *Response) Err() error {
	return statusErr(r.StatusCode)
}
