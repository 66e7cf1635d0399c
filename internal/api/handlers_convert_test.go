package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/polcat/internal/config"
)

const samplePolicy = "Version 1.0\nJanuary 1, 2020\n# Scope\nThis is the scope.\n## Applicability\nApplies broadly."

func testServer(cfg config.Config) *Server {
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 1 << 20
	}
	if cfg.BatchConcurrency == 0 {
		cfg.BatchConcurrency = 2
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(log, cfg)
}

func multipartUpload(t *testing.T, field, filename, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	io.WriteString(fw, content)
	for k, v := range extra {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleConvert_JSON(t *testing.T) {
	srv := testServer(config.Config{})
	body, ctype := multipartUpload(t, "file", "policy.md", samplePolicy, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Catalog struct {
			UUID   string `json:"uuid"`
			Groups []struct {
				ID string `json:"id"`
			} `json:"groups"`
		} `json:"catalog"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Catalog.UUID == "" {
		t.Error("expected a catalog uuid")
	}
	if len(out.Catalog.Groups) != 1 || out.Catalog.Groups[0].ID != "group-1-scope" {
		t.Errorf("unexpected groups: %+v", out.Catalog.Groups)
	}
}

func TestHandleConvert_MarkdownFormat(t *testing.T) {
	srv := testServer(config.Config{})
	body, ctype := multipartUpload(t, "file", "policy.md", samplePolicy, map[string]string{"format": "markdown"})

	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "# Conversion Report") {
		t.Errorf("expected a markdown report, got: %s", rec.Body.String())
	}
}

func TestHandleConvert_IncompleteMetadata(t *testing.T) {
	srv := testServer(config.Config{})
	body, ctype := multipartUpload(t, "file", "policy.md", "# Scope\nNo version or date here.", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleConvert_UnsupportedType(t *testing.T) {
	srv := testServer(config.Config{})
	body, ctype := multipartUpload(t, "file", "policy.xlsx", "irrelevant", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleConvert_AuthRequired(t *testing.T) {
	srv := testServer(config.Config{APIKey: "secret"})
	body, ctype := multipartUpload(t, "file", "policy.md", samplePolicy, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}

	body, ctype = multipartUpload(t, "file", "policy.md", samplePolicy, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleConvertBatch(t *testing.T) {
	srv := testServer(config.Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.md", "b.md"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		io.WriteString(fw, samplePolicy)
	}
	fw, _ := mw.CreateFormFile("files", "bad.md")
	io.WriteString(fw, "# Scope\nno metadata")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/convert/batch", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Results))
	}
	if _, ok := out.Results[0]["catalog"]; !ok {
		t.Errorf("expected a catalog for a.md, got %v", out.Results[0])
	}
	if _, ok := out.Results[2]["error"]; !ok {
		t.Errorf("expected an error for bad.md, got %v", out.Results[2])
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
