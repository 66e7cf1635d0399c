package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dgallion1/polcat/internal/loader"
	"github.com/dgallion1/polcat/internal/oscal"
	"github.com/dgallion1/polcat/internal/policy"
	"github.com/dgallion1/polcat/internal/report"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	doc, err := s.convertUpload(file, filename)
	if err != nil {
		jsonError(w, err.Error(), convertStatus(err))
		return
	}

	switch r.FormValue("format") {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(oscal.FromDocument(doc))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown(doc))
	case "html":
		out, err := report.HTML(doc)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out)
	default:
		jsonError(w, "unknown format: "+r.FormValue("format"), http.StatusBadRequest)
	}
}

func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	// Convert with bounded concurrency; each file gets its own parser.
	results := make([]map[string]any, len(files))
	sem := make(chan struct{}, s.cfg.BatchConcurrency)
	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			defer func() { <-sem }()
			filename := sanitizeFilename(fh.Filename)
			f, err := fh.Open()
			if err != nil {
				results[i] = map[string]any{"filename": filename, "error": "failed to open file"}
				return
			}
			doc, err := s.convertUpload(f, filename)
			f.Close()
			if err != nil {
				results[i] = map[string]any{"filename": filename, "error": err.Error()}
				return
			}
			results[i] = map[string]any{"filename": filename, "catalog": oscal.FromDocument(doc).Catalog}
		}(i, fh)
	}
	wg.Wait()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

// convertUpload runs the full load-and-parse path for one uploaded file.
func (s *Server) convertUpload(f io.Reader, filename string) (*policy.Document, error) {
	if !loader.IsSupportedExtension(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	ld, err := loader.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pl, ok := ld.(*loader.PDFLoader); ok {
		pl.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	lines, err := ld.Lines(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	doc, err := policy.NewParser().Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// convertStatus maps conversion errors to HTTP status codes. Fatal parse
// errors are the client's problem, not ours.
func convertStatus(err error) int {
	switch {
	case errors.Is(err, policy.ErrMalformedInput), errors.Is(err, policy.ErrIncompleteMetadata):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "unsupported file"):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "exceeds max size"):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
