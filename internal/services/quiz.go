package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/quiz"
	"leedsbot-backend/internal/studyctx"
)

const (
	quizHistoryWindow   = 3
	quizGenerateRetries = 2
	quizModeFocus       = "focus"
)

type levelStore interface {
	EnsureUser(ctx context.Context, email string) error
	GetLevel(ctx context.Context, email string, subject models.Subject) (models.Level, error)
	UpsertLevel(ctx context.Context, email string, subject models.Subject, level models.Level) error
}

type attemptStore interface {
	Create(ctx context.Context, a *models.QuizAttempt) error
	RecentByUser(ctx context.Context, email string, subject models.Subject, limit int) ([]models.QuizAttempt, error)
}

type QuizService struct {
	levels       levelStore
	attempts     attemptStore
	builder      contextBuilder
	provider     llm.Provider
	timeout      time.Duration
	persistLevel bool
	log          *logger.Logger
}

type QuizServiceConfig struct {
	Timeout time.Duration

	// PersistAdaptedLevel writes the adapted difficulty back to the
	// student's subject level after generation.
	PersistAdaptedLevel bool
}

func NewQuizService(levels levelStore, attempts attemptStore, builder contextBuilder, provider llm.Provider, cfg QuizServiceConfig, log *logger.Logger) *QuizService {
	return &QuizService{
		levels:       levels,
		attempts:     attempts,
		builder:      builder,
		provider:     provider,
		timeout:      cfg.Timeout,
		persistLevel: cfg.PersistAdaptedLevel,
		log:          log,
	}
}

// candidateList decodes either {"items": [...]} or a bare array.
type candidateList []quiz.Candidate

func (c *candidateList) UnmarshalJSON(b []byte) error {
	*c = quiz.ParseCandidates(b)
	return nil
}

// Generate builds a six-question quiz at the adapted difficulty. It always
// returns a quiz: model failures fall back to the subject's question bank.
func (s *QuizService) Generate(ctx context.Context, email string, req models.GenerateQuizRequest) (*models.GenerateQuizResponse, error) {
	subject := models.ParseSubject(req.Subject, models.SubjectMaths)

	base, err := s.levels.GetLevel(ctx, email, subject)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		base = models.LevelBeginner
	case err != nil:
		return nil, fmt.Errorf("failed to load level: %w", err)
	}
	if !base.Valid() {
		base = models.LevelBeginner
	}

	recent, err := s.attempts.RecentByUser(ctx, email, subject, quizHistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attempts: %w", err)
	}
	target, weakTopics := quiz.Adapt(base, recent)

	bundle, err := s.builder.Build(ctx, studyctx.Request{
		Email:         email,
		Subject:       subject,
		Level:         target,
		WithQuestions: true,
		WithCohort:    true,
	})
	if err != nil {
		return nil, err
	}

	guiding := bundle.GlobalTopics
	switch {
	case req.Mode == quizModeFocus && len(weakTopics) > 0:
		guiding = weakTopics
	case len(bundle.CohortWeakTopics) > 0:
		guiding = bundle.CohortWeakTopics
	}

	candidates := s.generate(ctx, subject, target, bundle, guiding)
	items := quiz.Compose(candidates, subject, target)

	if s.persistLevel && target != base {
		s.persistTarget(ctx, email, subject, target)
	}

	return &models.GenerateQuizResponse{
		Available:   true,
		Items:       items,
		WeakTopics:  weakTopics,
		TargetLevel: target,
	}, nil
}

// persistTarget stores the adapted level. The user row is created first so
// a student's very first quiz does not trip the foreign key.
func (s *QuizService) persistTarget(ctx context.Context, email string, subject models.Subject, level models.Level) {
	if err := s.levels.EnsureUser(ctx, email); err != nil {
		s.log.Warn("failed to ensure user before persisting level", "email", email, "error", err)
		return
	}
	if err := s.levels.UpsertLevel(ctx, email, subject, level); err != nil {
		s.log.Warn("failed to persist adapted level", "email", email, "subject", subject, "error", err)
	}
}

func (s *QuizService) generate(ctx context.Context, subject models.Subject, level models.Level, bundle studyctx.Bundle, topics []string) []quiz.Candidate {
	if s.provider == nil {
		return nil
	}

	res := llm.CompleteJSON(ctx, s.provider, llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			llm.UserMessage("Documents:\n" + orNone(bundle.DocumentsText)),
			llm.UserMessage("Student Questions:\n" + orNone(bundle.RecentQuestionsText)),
			llm.UserMessage(quizPrompt(subject, level, len(bundle.Documents) > 0, topics)),
		},
		JSONMode:    true,
		Temperature: 0.1,
	}, llm.JSONOptions[candidateList]{
		Attempts: quizGenerateRetries,
		Timeout:  s.timeout,
		Accept:   func(c candidateList) bool { return len(c) > 0 },
	})
	if res.Outcome != llm.OutcomeParsed {
		s.log.Warn("quiz generation fell back to question bank",
			"subject", subject, "outcome", res.Outcome.String(), "error", res.Err)
		return nil
	}
	return res.Value
}

// Submit grades a completed quiz and records the attempt.
func (s *QuizService) Submit(ctx context.Context, email string, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	if len(req.Items) == 0 {
		return nil, newValidationError("items", "No items to grade")
	}

	subject := models.ParseSubject(req.Subject, models.SubjectMaths)
	items := quiz.Normalize(req.Items)
	answers := req.Answers
	if answers == nil {
		answers = map[int]int{}
	}

	score, max := quiz.Grade(items, answers)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	responsesJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode responses: %w", err)
	}

	if err := s.levels.EnsureUser(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	attempt := &models.QuizAttempt{
		UserEmail: email,
		Subject:   subject,
		Items:     itemsJSON,
		Responses: responsesJSON,
		Score:     score,
		MaxScore:  max,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	s.log.Info("quiz submitted", "email", email, "subject", subject, "score", score, "max", max)
	return &models.SubmitQuizResponse{Score: score, Max: max}, nil
}
