package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/studyctx"
)

type stubUsers struct {
	mu sync.Mutex

	profile *models.UserProfile
	levels  []models.SubjectLevel
	err     error

	ensured     []string
	ensureErr   error
	goals       string
	upserted    map[models.Subject]models.Level
	saved       *models.UserProfile
	savedLevels map[models.Subject]models.Level
}

func (s *stubUsers) EnsureUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured = append(s.ensured, "user:"+email)
	if s.ensureErr != nil {
		return s.ensureErr
	}
	return s.err
}

func (s *stubUsers) EnsureLevel(ctx context.Context, email string, subject models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured = append(s.ensured, "level:"+string(subject))
	return s.err
}

func (s *stubUsers) GetProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.profile == nil {
		return nil, pgx.ErrNoRows
	}
	return s.profile, nil
}

func (s *stubUsers) ListLevels(ctx context.Context, email string) ([]models.SubjectLevel, error) {
	return s.levels, s.err
}

func (s *stubUsers) GetLevel(ctx context.Context, email string, subject models.Subject) (models.Level, error) {
	if s.err != nil {
		return "", s.err
	}
	for _, l := range s.levels {
		if l.Subject == subject {
			return l.Level, nil
		}
	}
	return "", pgx.ErrNoRows
}

func (s *stubUsers) UpsertLevel(ctx context.Context, email string, subject models.Subject, level models.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upserted == nil {
		s.upserted = map[models.Subject]models.Level{}
	}
	s.upserted[subject] = level
	return nil
}

func (s *stubUsers) UpdateGoals(ctx context.Context, email, goals string) error {
	s.goals = goals
	return nil
}

func (s *stubUsers) SaveProfile(ctx context.Context, p *models.UserProfile, levels map[models.Subject]models.Level) error {
	s.saved = p
	s.savedLevels = levels
	return s.err
}

type stubInteractions struct {
	turns     []models.Interaction
	created   []models.Interaction
	createErr error
	turnCalls int
}

func (s *stubInteractions) Create(ctx context.Context, i *models.Interaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *i)
	return nil
}

func (s *stubInteractions) RecentTurns(ctx context.Context, email string, subject models.Subject, level models.Level, limit int) ([]models.Interaction, error) {
	s.turnCalls++
	return s.turns, nil
}

type stubBuilder struct {
	bundle   studyctx.Bundle
	err      error
	requests []studyctx.Request
}

func (s *stubBuilder) Build(ctx context.Context, req studyctx.Request) (studyctx.Bundle, error) {
	s.requests = append(s.requests, req)
	return s.bundle, s.err
}

type stubAttempts struct {
	recent  []models.QuizAttempt
	all     []models.QuizAttempt
	created []models.QuizAttempt
}

func (s *stubAttempts) Create(ctx context.Context, a *models.QuizAttempt) error {
	a.CreatedAt = time.Now()
	s.created = append(s.created, *a)
	return nil
}

func (s *stubAttempts) RecentByUser(ctx context.Context, email string, subject models.Subject, limit int) ([]models.QuizAttempt, error) {
	return s.recent, nil
}

func (s *stubAttempts) ListByUser(ctx context.Context, email string) ([]models.QuizAttempt, error) {
	return s.all, nil
}
