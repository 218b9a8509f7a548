package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leedsbot-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// EnsureUser creates the user on first contact. The student id defaults to
// the email until onboarding replaces it.
func (r *UserRepo) EnsureUser(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (email, student_id, degree)
		VALUES ($1, $1, 'BACHELORS')
		ON CONFLICT (email) DO NOTHING`, email)
	return err
}

func (r *UserRepo) EnsureLevel(ctx context.Context, email string, subject models.Subject) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subject_levels (user_email, subject, level)
		VALUES ($1, $2, 'BEGINNER')
		ON CONFLICT (user_email, subject) DO NOTHING`, email, subject)
	return err
}

func (r *UserRepo) GetProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	u := &models.UserProfile{}
	query := `SELECT email, student_id, degree, degree_name, goals, created_at, updated_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.Email, &u.StudentID, &u.Degree, &u.DegreeName, &u.Goals, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) ListLevels(ctx context.Context, email string) ([]models.SubjectLevel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_email, subject, level, updated_at
		FROM subject_levels WHERE user_email = $1
		ORDER BY subject`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []models.SubjectLevel
	for rows.Next() {
		var l models.SubjectLevel
		if err := rows.Scan(&l.UserEmail, &l.Subject, &l.Level, &l.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *UserRepo) GetLevel(ctx context.Context, email string, subject models.Subject) (models.Level, error) {
	var level models.Level
	err := r.pool.QueryRow(ctx,
		"SELECT level FROM subject_levels WHERE user_email = $1 AND subject = $2",
		email, subject,
	).Scan(&level)
	return level, err
}

func (r *UserRepo) UpsertLevel(ctx context.Context, email string, subject models.Subject, level models.Level) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subject_levels (user_email, subject, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_email, subject) DO UPDATE SET level = EXCLUDED.level, updated_at = NOW()`,
		email, subject, level)
	return err
}

func (r *UserRepo) UpdateGoals(ctx context.Context, email, goals string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET goals = $1, updated_at = NOW() WHERE email = $2",
		goals, email)
	return err
}

// SaveProfile upserts the profile and all of its subject levels in one
// transaction.
func (r *UserRepo) SaveProfile(ctx context.Context, p *models.UserProfile, levels map[models.Subject]models.Level) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin profile transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (email, student_id, degree, degree_name, goals)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			degree = EXCLUDED.degree,
			degree_name = EXCLUDED.degree_name,
			goals = COALESCE(EXCLUDED.goals, users.goals),
			updated_at = NOW()`,
		p.Email, p.StudentID, p.Degree, p.DegreeName, p.Goals)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	for subject, level := range levels {
		_, err := tx.Exec(ctx, `
			INSERT INTO subject_levels (user_email, subject, level)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_email, subject) DO UPDATE SET level = EXCLUDED.level, updated_at = NOW()`,
			p.Email, subject, level)
		if err != nil {
			return fmt.Errorf("failed to upsert %s level: %w", subject, err)
		}
	}

	return tx.Commit(ctx)
}
