package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leedsbot-backend/internal/models"
)

type QuizAttemptRepo struct {
	pool *pgxpool.Pool
}

func NewQuizAttemptRepo(pool *pgxpool.Pool) *QuizAttemptRepo {
	return &QuizAttemptRepo{pool: pool}
}

func (r *QuizAttemptRepo) Create(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()
	items := a.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	responses := a.Responses
	if len(responses) == 0 {
		responses = json.RawMessage("{}")
	}

	query := `INSERT INTO quiz_attempts (id, user_email, subject, items, responses, score, max_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserEmail, a.Subject, items, responses, a.Score, a.MaxScore,
	).Scan(&a.CreatedAt)
}

// RecentByUser returns the user's newest attempts for a subject.
func (r *QuizAttemptRepo) RecentByUser(ctx context.Context, email string, subject models.Subject, limit int) ([]models.QuizAttempt, error) {
	query := `SELECT id, user_email, subject, items, responses, score, max_score, created_at
		FROM quiz_attempts WHERE user_email = $1 AND subject = $2
		ORDER BY created_at DESC LIMIT $3`
	return r.list(ctx, query, email, subject, limit)
}

// RecentBySubjectSince returns attempts by any user for a subject created
// after since, newest first.
func (r *QuizAttemptRepo) RecentBySubjectSince(ctx context.Context, subject models.Subject, since time.Time, limit int) ([]models.QuizAttempt, error) {
	query := `SELECT id, user_email, subject, items, responses, score, max_score, created_at
		FROM quiz_attempts WHERE subject = $1 AND created_at >= $2
		ORDER BY created_at DESC LIMIT $3`
	return r.list(ctx, query, subject, since, limit)
}

// ListByUser returns score columns only; items and responses are left nil.
func (r *QuizAttemptRepo) ListByUser(ctx context.Context, email string) ([]models.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_email, subject, score, max_score, created_at
		FROM quiz_attempts WHERE user_email = $1
		ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserEmail, &a.Subject, &a.Score, &a.MaxScore, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *QuizAttemptRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		err := rows.Scan(&a.ID, &a.UserEmail, &a.Subject, &a.Items, &a.Responses, &a.Score, &a.MaxScore, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
