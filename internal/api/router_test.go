package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/nlp"
	"github.com/wilsvd/teiparse/internal/pdf/pdftest"
	"github.com/wilsvd/teiparse/internal/service"
	"github.com/wilsvd/teiparse/internal/tei"
)

const sampleTEI = `<TEI><teiHeader><fileDesc><sourceDesc><biblStruct>
<analytic><title type="main">Uploaded Paper</title></analytic>
</biblStruct></sourceDesc></fileDesc></teiHeader>
<text><body><div><head>Intro</head><p>Hi.</p></div></body><back><listBibl/></back></text></TEI>`

type personModel struct{}

func (personModel) Name() string { return "person" }

func (personModel) Entities(text string) []nlp.Entity {
	return []nlp.Entity{{Text: text, Label: nlp.LabelPerson}}
}

func (personModel) NounChunks(text string) []string { return []string{text} }

type fixedConverter struct {
	status int
	body   string
	err    error
}

func (f fixedConverter) ProcessFulltext(ctx context.Context, name string, data []byte) (*grobid.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &grobid.Response{StatusCode: f.status, Content: []byte(f.body)}, nil
}

func newTestRouter(t *testing.T, conv service.Converter, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	parser, err := tei.NewParser(personModel{})
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	return NewRouter(&Handler{
		Service:        &service.Service{Parser: parser, GROBID: conv},
		MaxUploadBytes: maxUpload,
	})
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body.String(), err)
	}
	return body.Detail
}

func TestUpload_Success(t *testing.T) {
	r := newTestRouter(t, fixedConverter{status: http.StatusOK, body: sampleTEI}, 1<<20)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "paper.pdf", "application/pdf", pdftest.Blank(1, "ok")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc struct {
		Bibliography struct {
			Title string `json:"title"`
		} `json:"bibliography"`
		Sections []struct {
			Title string `json:"title"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if doc.Bibliography.Title != "Uploaded Paper" || len(doc.Sections) != 1 {
		t.Errorf("document = %+v", doc)
	}
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name        string
		conv        fixedConverter
		contentType string
		data        []byte
		maxUpload   int64
		wantStatus  int
		wantDetail  string
	}{
		{
			name:        "wrong media type",
			conv:        fixedConverter{status: 200, body: sampleTEI},
			contentType: "text/plain",
			data:        []byte("hello"),
			wantStatus:  http.StatusUnsupportedMediaType,
			wantDetail:  "Invalid document type",
		},
		{
			name:        "corrupted PDF",
			conv:        fixedConverter{status: 200, body: sampleTEI},
			contentType: "application/pdf",
			data:        []byte("%PDF-1.4 garbage"),
			wantStatus:  http.StatusUnsupportedMediaType,
			wantDetail:  "Couldn't read document",
		},
		{
			name:        "too large",
			conv:        fixedConverter{status: 200, body: sampleTEI},
			contentType: "application/pdf",
			data:        pdftest.Blank(1, "big"),
			maxUpload:   64,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantDetail:  "Document is too large",
		},
		{
			name:        "GROBID cannot extract",
			conv:        fixedConverter{status: 203},
			contentType: "application/pdf",
			data:        pdftest.Blank(1, "x"),
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:        "GROBID busy",
			conv:        fixedConverter{status: 503},
			contentType: "application/pdf",
			data:        pdftest.Blank(1, "y"),
			wantStatus:  http.StatusServiceUnavailable,
		},
		{
			name:        "unparseable TEI",
			conv:        fixedConverter{status: 200, body: "<TEI/>"},
			contentType: "application/pdf",
			data:        pdftest.Blank(1, "z"),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxUpload := tt.maxUpload
			if maxUpload == 0 {
				maxUpload = 1 << 20
			}
			r := newTestRouter(t, tt.conv, maxUpload)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, uploadRequest(t, "x.pdf", tt.contentType, tt.data))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			got := decodeDetail(t, rec)
			if got == "" || (tt.wantDetail != "" && got != tt.wantDetail) {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestUpload_MissingFile(t *testing.T) {
	r := newTestRouter(t, fixedConverter{}, 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidateURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			w.Header().Set("Content-Type", "application/pdf")
		case "/page":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer upstream.Close()

	r := newTestRouter(t, fixedConverter{}, 1<<20)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantDetail string
	}{
		{"valid", upstream.URL + "/ok.pdf", http.StatusOK, "PDF URL is valid"},
		{"not a PDF", upstream.URL + "/page", http.StatusUnsupportedMediaType, "File has unsupported extension type"},
		{"upstream status passthrough", upstream.URL + "/secret", http.StatusForbidden, "Request unsuccessful"},
		{"unreachable", "http://127.0.0.1:1/x.pdf", http.StatusInternalServerError, "An error occurred while requesting 'http://127.0.0.1:1/x.pdf'."},
		{"missing parameter", "", http.StatusBadRequest, "Missing url parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/validate_url"
			if tt.target != "" {
				path += "?url=" + url.QueryEscape(tt.target)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeDetail(t, rec); got != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, fixedConverter{}, 1<<20)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["model"] != "person" {
		t.Errorf("body = %v", body)
	}
}
