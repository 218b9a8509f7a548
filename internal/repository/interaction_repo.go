package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leedsbot-backend/internal/models"
)

type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) Create(ctx context.Context, i *models.Interaction) error {
	i.ID = uuid.New()
	if i.UsedDocIDs == nil {
		i.UsedDocIDs = []uuid.UUID{}
	}
	query := `INSERT INTO interactions (id, user_email, subject, level, prompt, answer, used_doc_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		i.ID, i.UserEmail, i.Subject, i.Level, i.Prompt, i.Answer, i.UsedDocIDs,
	).Scan(&i.CreatedAt)
}

// RecentTurns returns the newest interactions for a subject and level,
// newest first.
func (r *InteractionRepo) RecentTurns(ctx context.Context, email string, subject models.Subject, level models.Level, limit int) ([]models.Interaction, error) {
	query := `SELECT id, user_email, subject, level, prompt, answer, used_doc_ids, created_at
		FROM interactions
		WHERE user_email = $1 AND subject = $2 AND level = $3
		ORDER BY created_at DESC LIMIT $4`
	return r.list(ctx, query, email, subject, level, limit)
}

// RecentPrompts returns the newest non-empty prompts for a subject at any
// level, newest first.
func (r *InteractionRepo) RecentPrompts(ctx context.Context, email string, subject models.Subject, limit int) ([]models.Interaction, error) {
	query := `SELECT id, user_email, subject, level, prompt, answer, used_doc_ids, created_at
		FROM interactions
		WHERE user_email = $1 AND subject = $2 AND prompt <> ''
		ORDER BY created_at DESC LIMIT $3`
	return r.list(ctx, query, email, subject, limit)
}

func (r *InteractionRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.Interaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var i models.Interaction
		err := rows.Scan(&i.ID, &i.UserEmail, &i.Subject, &i.Level, &i.Prompt, &i.Answer, &i.UsedDocIDs, &i.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
