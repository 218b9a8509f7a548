package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/services"
)

type stubDocuments struct {
	files   []models.UploadFile
	subject string
	level   string
	pasted  *models.PasteDocumentRequest
	listed  []models.DocumentSummary
	err     error
}

func (s *stubDocuments) Upload(ctx context.Context, email, subject, level string, files []models.UploadFile) (*models.UploadResponse, error) {
	s.subject, s.level, s.files = subject, level, files
	if s.err != nil {
		return nil, s.err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return &models.UploadResponse{OK: true, Count: len(files), Files: names}, nil
}

func (s *stubDocuments) Paste(ctx context.Context, email string, req models.PasteDocumentRequest) (*models.UploadResponse, error) {
	s.pasted = &req
	return &models.UploadResponse{OK: true, Count: 1, Files: []string{"pasted-notes.txt"}}, s.err
}

func (s *stubDocuments) List(ctx context.Context, email, subject, level string) ([]models.DocumentSummary, error) {
	s.subject, s.level = subject, level
	return s.listed, s.err
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req)
}

func TestDocumentHandler_UploadMultipart(t *testing.T) {
	docs := &stubDocuments{}
	h := NewDocumentHandler(docs, 1)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t,
		map[string]string{"subject": "DATABASE_SYSTEMS", "level": "INTERMEDIATE"},
		map[string]string{"joins.md": "# Joins"},
	))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if docs.subject != "DATABASE_SYSTEMS" || docs.level != "INTERMEDIATE" {
		t.Errorf("Unexpected form values: %q %q", docs.subject, docs.level)
	}
	if len(docs.files) != 1 || string(docs.files[0].Data) != "# Joins" || docs.files[0].Name != "joins.md" {
		t.Errorf("Unexpected files: %+v", docs.files)
	}

	var resp models.UploadResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.OK || resp.Count != 1 {
		t.Errorf("Unexpected body: %+v", resp)
	}
}

func TestDocumentHandler_UploadNoFiles(t *testing.T) {
	docs := &stubDocuments{err: &services.ValidationError{Fields: map[string]string{"files": "No files uploaded"}}}
	h := NewDocumentHandler(docs, 1)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, map[string]string{"subject": "MATHS"}, nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if decodeError(t, rr).Fields["files"] != "No files uploaded" {
		t.Errorf("Expected files field error")
	}
}

func TestDocumentHandler_UploadTooLarge(t *testing.T) {
	docs := &stubDocuments{}
	h := NewDocumentHandler(docs, 1)

	big := string(bytes.Repeat([]byte("x"), 2<<20))
	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, nil, map[string]string{"big.txt": big}))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", rr.Code)
	}
	if docs.files != nil {
		t.Errorf("Service should not be called")
	}
}

func TestDocumentHandler_Paste(t *testing.T) {
	docs := &stubDocuments{}
	h := NewDocumentHandler(docs, 1)

	rr := httptest.NewRecorder()
	h.Upload(rr, jsonRequest(t, http.MethodPost, "/api/v1/documents", map[string]string{
		"subject": "MIDGE",
		"text":    "notes",
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if docs.pasted == nil || docs.pasted.Text != "notes" || docs.pasted.Subject != "MIDGE" {
		t.Errorf("Unexpected paste request: %+v", docs.pasted)
	}
}

func TestDocumentHandler_List(t *testing.T) {
	docs := &stubDocuments{}
	h := NewDocumentHandler(docs, 1)

	rr := httptest.NewRecorder()
	h.List(rr, authed(httptest.NewRequest(http.MethodGet, "/api/v1/documents?subject=MATHS&level=ADVANCED", nil)))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if docs.subject != "MATHS" || docs.level != "ADVANCED" {
		t.Errorf("Unexpected filters: %q %q", docs.subject, docs.level)
	}

	var body map[string][]models.DocumentSummary
	json.NewDecoder(rr.Body).Decode(&body)
	if body["docs"] == nil {
		t.Errorf("Expected docs to be an empty array, got %s", rr.Body.String())
	}
}
