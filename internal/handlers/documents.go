package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"leedsbot-backend/internal/models"
)

type documentService interface {
	Upload(ctx context.Context, email, subject, level string, files []models.UploadFile) (*models.UploadResponse, error)
	Paste(ctx context.Context, email string, req models.PasteDocumentRequest) (*models.UploadResponse, error)
	List(ctx context.Context, email, subject, level string) ([]models.DocumentSummary, error)
}

type DocumentHandler struct {
	docs     documentService
	maxBytes int64
}

func NewDocumentHandler(docs documentService, maxUploadMB int) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &DocumentHandler{docs: docs, maxBytes: int64(maxUploadMB) << 20}
}

// Upload accepts either a multipart form with one or more "files" parts or a
// JSON body of pasted text.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds size limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		h.paste(w, r, email)
		return
	}

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds size limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []models.UploadFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read uploaded file", r))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read uploaded file", r))
			return
		}
		files = append(files, models.UploadFile{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	resp, err := h.docs.Upload(r.Context(), email, r.FormValue("subject"), r.FormValue("level"), files)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) paste(w http.ResponseWriter, r *http.Request, email string) {
	var req models.PasteDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.docs.Paste(r.Context(), email, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	docs, err := h.docs.List(r.Context(), email, q.Get("subject"), q.Get("level"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if docs == nil {
		docs = []models.DocumentSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"docs": docs})
}
