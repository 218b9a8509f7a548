package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leedsbot-backend/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New()
	query := `INSERT INTO documents (id, owner_email, subject, level, filename, mime_type, text_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.OwnerEmail, d.Subject, d.Level, d.Filename, d.MimeType, d.TextContent,
	).Scan(&d.CreatedAt)
}

// ListDocuments returns documents for the filter's subject and level, newest
// first. A nil OwnerEmail searches every owner.
func (r *DocumentRepo) ListDocuments(ctx context.Context, f models.DocumentFilter) ([]models.Document, error) {
	query := `SELECT id, owner_email, subject, level, filename, mime_type, text_content, created_at
		FROM documents WHERE subject = $1 AND level = $2`
	args := []interface{}{f.Subject, f.Level}

	if f.OwnerEmail != nil {
		args = append(args, *f.OwnerEmail)
		query += " AND owner_email = $3"
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		err := rows.Scan(&d.ID, &d.OwnerEmail, &d.Subject, &d.Level, &d.Filename, &d.MimeType, &d.TextContent, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListByOwner returns document summaries for the uploads page. Empty
// subject or level match everything.
func (r *DocumentRepo) ListByOwner(ctx context.Context, email string, subject models.Subject, level models.Level) ([]models.DocumentSummary, error) {
	var where []string
	args := []interface{}{email}
	where = append(where, "owner_email = $1")

	if subject != "" {
		args = append(args, subject)
		where = append(where, "subject = $"+strconv.Itoa(len(args)))
	}
	if level != "" {
		args = append(args, level)
		where = append(where, "level = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, filename, subject, level, mime_type, char_length(text_content), created_at
		FROM documents WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC LIMIT 100`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.DocumentSummary{}
	for rows.Next() {
		var d models.DocumentSummary
		if err := rows.Scan(&d.ID, &d.Filename, &d.Subject, &d.Level, &d.MimeType, &d.Chars, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
