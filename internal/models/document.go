package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID          uuid.UUID `json:"id"`
	OwnerEmail  string    `json:"ownerEmail"`
	Subject     Subject   `json:"subject"`
	Level       Level     `json:"level"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mimeType"`
	TextContent string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DocumentFilter selects documents for a (subject, level) pair. A nil
// OwnerEmail selects the pool across all owners.
type DocumentFilter struct {
	OwnerEmail *string
	Subject    Subject
	Level      Level
	Limit      int
}

type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Subject   Subject   `json:"subject"`
	Level     Level     `json:"level"`
	MimeType  string    `json:"mimeType"`
	Chars     int       `json:"chars"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadFile is one file received by the upload endpoint.
type UploadFile struct {
	Name     string
	MimeType string
	Data     []byte
}

type PasteDocumentRequest struct {
	Subject  string `json:"subject"`
	Level    string `json:"level"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

type UploadResponse struct {
	OK    bool     `json:"ok"`
	Count int      `json:"count"`
	Files []string `json:"files"`
}
