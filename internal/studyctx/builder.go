// Package studyctx gathers the per-student material that prompts are built
// from: uploaded documents, recent questions and weak topics.
package studyctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/quiz"
	"leedsbot-backend/internal/textutil"
)

const (
	documentLimit    = 12
	docSnippetLen    = 2000
	docsTextLen      = 10000
	questionLimit    = 15
	questionLen      = 600
	questionsTextLen = 5000
	cohortWindow     = 14 * 24 * time.Hour
	cohortLimit      = 200
	cohortTopics     = 3
)

type DocumentSource interface {
	ListDocuments(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
}

type PromptSource interface {
	RecentPrompts(ctx context.Context, email string, subject models.Subject, limit int) ([]models.Interaction, error)
}

type AttemptSource interface {
	RecentBySubjectSince(ctx context.Context, subject models.Subject, since time.Time, limit int) ([]models.QuizAttempt, error)
}

type Request struct {
	Email   string
	Subject models.Subject
	Level   models.Level

	WithQuestions bool
	WithCohort    bool
}

type Bundle struct {
	Documents           []models.Document
	DocumentsText       string
	RecentQuestionsText string
	CohortWeakTopics    []string
	GlobalTopics        []string
}

// DocIDs returns the ids of the documents in the bundle.
func (b Bundle) DocIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.Documents))
	for i, d := range b.Documents {
		ids[i] = d.ID
	}
	return ids
}

type Builder struct {
	docs     DocumentSource
	prompts  PromptSource
	attempts AttemptSource
	log      *logger.Logger
	now      func() time.Time
}

func NewBuilder(docs DocumentSource, prompts PromptSource, attempts AttemptSource, log *logger.Logger) *Builder {
	return &Builder{
		docs:     docs,
		prompts:  prompts,
		attempts: attempts,
		log:      log,
		now:      time.Now,
	}
}

// Build assembles the bundle. Document and question lookups fail the call;
// the cohort lookup is best-effort.
func (b *Builder) Build(ctx context.Context, req Request) (Bundle, error) {
	bundle := Bundle{
		CohortWeakTopics: []string{},
		GlobalTopics:     GlobalTopics(req.Subject, req.Level),
	}

	docs, err := b.documents(ctx, req)
	if err != nil {
		return Bundle{}, err
	}
	bundle.Documents = docs
	bundle.DocumentsText = documentsText(docs)

	if req.WithQuestions {
		prompts, err := b.prompts.RecentPrompts(ctx, req.Email, req.Subject, questionLimit)
		if err != nil {
			return Bundle{}, fmt.Errorf("failed to load recent questions: %w", err)
		}
		bundle.RecentQuestionsText = questionsText(prompts)
	}

	if req.WithCohort {
		bundle.CohortWeakTopics = b.cohortWeakTopics(ctx, req.Subject)
	}

	return bundle, nil
}

// documents prefers the student's own uploads and only falls back to the
// shared pool when there are none.
func (b *Builder) documents(ctx context.Context, req Request) ([]models.Document, error) {
	email := req.Email
	filter := models.DocumentFilter{
		OwnerEmail: &email,
		Subject:    req.Subject,
		Level:      req.Level,
		Limit:      documentLimit,
	}

	own, err := b.docs.ListDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(own) > 0 {
		return own, nil
	}

	filter.OwnerEmail = nil
	pool, err := b.docs.ListDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool documents: %w", err)
	}
	return pool, nil
}

func (b *Builder) cohortWeakTopics(ctx context.Context, subject models.Subject) []string {
	attempts, err := b.attempts.RecentBySubjectSince(ctx, subject, b.now().Add(-cohortWindow), cohortLimit)
	if err != nil {
		b.log.Warn("cohort weak topics unavailable", "subject", subject, "error", err)
		return []string{}
	}

	var missed []string
	for _, a := range attempts {
		missed = append(missed, quiz.MissedTopics(a)...)
	}
	top := quiz.TopTopics(missed, cohortTopics)
	if top == nil {
		return []string{}
	}
	return top
}

func documentsText(docs []models.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("#Doc%d (%s)\n%s", i+1, d.Filename, textutil.Truncate(d.TextContent, docSnippetLen))
	}
	return textutil.Truncate(strings.Join(parts, "\n\n"), docsTextLen)
}

func questionsText(prompts []models.Interaction) string {
	parts := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if p.Prompt == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("#Q%d (%s):\n%s",
			len(parts)+1, p.CreatedAt.UTC().Format(time.RFC3339), textutil.Truncate(p.Prompt, questionLen)))
	}
	return textutil.Truncate(strings.Join(parts, "\n\n"), questionsTextLen)
}
