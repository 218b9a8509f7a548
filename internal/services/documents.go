package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/textutil"
)

// MaxDocumentText caps the stored text of a single document.
const MaxDocumentText = 200000

const pastedFilename = "pasted-notes.txt"

type documentStore interface {
	Create(ctx context.Context, d *models.Document) error
	ListByOwner(ctx context.Context, email string, subject models.Subject, level models.Level) ([]models.DocumentSummary, error)
}

// taskRunner runs extraction work off the request goroutine.
type taskRunner interface {
	Submit(ctx context.Context, fn func()) error
}

type DocumentService struct {
	docs      documentStore
	extractor *FileExtractService
	runner    taskRunner
	log       *logger.Logger
}

// NewDocumentService wires the store and extractor. A nil runner extracts
// files one after another on the calling goroutine.
func NewDocumentService(docs documentStore, extractor *FileExtractService, runner taskRunner, log *logger.Logger) *DocumentService {
	return &DocumentService{docs: docs, extractor: extractor, runner: runner, log: log}
}

type extracted struct {
	text string
	mime string
}

// Upload extracts and stores every file. A file whose text cannot be
// extracted is still stored, with empty text.
func (s *DocumentService) Upload(ctx context.Context, email, subject, level string, files []models.UploadFile) (*models.UploadResponse, error) {
	if len(files) == 0 {
		return nil, newValidationError("files", "No files uploaded")
	}

	subj := models.ParseSubject(subject, models.SubjectMaths)
	lvl := models.ParseLevel(level, models.LevelBeginner)

	results, err := s.extractAll(ctx, email, files)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for i, f := range files {
		doc := &models.Document{
			OwnerEmail:  email,
			Subject:     subj,
			Level:       lvl,
			Filename:    f.Name,
			MimeType:    results[i].mime,
			TextContent: textutil.Truncate(results[i].text, MaxDocumentText),
		}
		if err := s.docs.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to store document %q: %w", f.Name, err)
		}
		names = append(names, f.Name)
	}

	s.log.Info("documents uploaded", "email", email, "subject", subj, "level", lvl, "count", len(names))
	return &models.UploadResponse{OK: true, Count: len(names), Files: names}, nil
}

// extractAll returns one result per file, in input order.
func (s *DocumentService) extractAll(ctx context.Context, email string, files []models.UploadFile) ([]extracted, error) {
	results := make([]extracted, len(files))
	extractOne := func(i int) {
		f := files[i]
		text, mime, err := s.extractor.Extract(f.Name, f.MimeType, f.Data)
		if err != nil {
			s.log.Warn("text extraction failed", "file", f.Name, "email", email, "error", err)
			text = ""
		}
		results[i] = extracted{text: text, mime: mime}
	}

	if s.runner == nil || len(files) == 1 {
		for i := range files {
			extractOne(i)
		}
		return results, nil
	}

	var wg sync.WaitGroup
	for i := range files {
		i := i
		wg.Add(1)
		if err := s.runner.Submit(ctx, func() {
			defer wg.Done()
			extractOne(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to schedule extraction: %w", err)
		}
	}
	wg.Wait()
	return results, nil
}

// Paste stores text typed or pasted into the uploads page.
func (s *DocumentService) Paste(ctx context.Context, email string, req models.PasteDocumentRequest) (*models.UploadResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, newValidationError("text", "Text is required")
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = pastedFilename
	}

	doc := &models.Document{
		OwnerEmail:  email,
		Subject:     models.ParseSubject(req.Subject, models.SubjectMaths),
		Level:       models.ParseLevel(req.Level, models.LevelBeginner),
		Filename:    filename,
		MimeType:    mimeText,
		TextContent: textutil.Truncate(text, MaxDocumentText),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store pasted document: %w", err)
	}

	return &models.UploadResponse{OK: true, Count: 1, Files: []string{filename}}, nil
}

// List returns the caller's documents. Unknown subject or level values do
// not filter.
func (s *DocumentService) List(ctx context.Context, email, subject, level string) ([]models.DocumentSummary, error) {
	subj := models.ParseSubject(subject, "")
	lvl := models.ParseLevel(level, "")

	docs, err := s.docs.ListByOwner(ctx, email, subj, lvl)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
