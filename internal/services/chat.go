package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"leedsbot-backend/internal/guard"
	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/studyctx"
	"leedsbot-backend/internal/textutil"
)

const (
	historyTurns      = 8
	shortMessageRunes = 30
	maxNextSteps      = 8
	maxAsk            = 5
	maxIntakeAsk      = 6
	minIntakeAsk      = 4
	maxLoggedText     = 8000

	defaultAnswer = "Here is a brief explanation."
	uploadNudge   = "Upload class notes or slides so I can tailor explanations to your course."
	intakePrompt  = "[intake/plan]"
)

var (
	chatReplySchema = &llm.Schema{
		Name: "chat_reply",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer":    map[string]any{"type": "string"},
				"nextSteps": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"ask":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}

	intakeSchema = &llm.Schema{
		Name: "intake_questions",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"ask"},
			"properties": map[string]any{
				"ask": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
)

func modelUnavailableReply() *models.ChatReply {
	return &models.ChatReply{
		Answer: "Model unavailable. Based on your notes, focus on: definitions → 2 practice problems → self-explanation. Upload more targeted notes if context is insufficient.",
		NextSteps: []string{
			"Skim your notes and extract 3 key points.",
			"Solve 2 related practice questions.",
			"Write a 3-bullet summary and one worked example.",
		},
		Ask: []string{"Which topic should we zoom into first?", "Do you prefer examples or theory?"},
	}
}

func quotaReply() *models.ChatReply {
	return &models.ChatReply{
		Answer:    "AI quota hit. Quick plan: focus on key terms, a worked example, and 2 practice questions. Upload specific notes to tailor further.",
		NextSteps: []string{"Extract 3 key ideas", "Solve 2 problems", "Write a brief summary"},
	}
}

func unparsedNextSteps() []string {
	return []string{"Review key definitions", "Try 2 practice problems", "Summarise one concept in your own words"}
}

type chatUserStore interface {
	EnsureUser(ctx context.Context, email string) error
	EnsureLevel(ctx context.Context, email string, subject models.Subject) error
	GetProfile(ctx context.Context, email string) (*models.UserProfile, error)
	GetLevel(ctx context.Context, email string, subject models.Subject) (models.Level, error)
	UpdateGoals(ctx context.Context, email, goals string) error
}

type interactionStore interface {
	Create(ctx context.Context, i *models.Interaction) error
	RecentTurns(ctx context.Context, email string, subject models.Subject, level models.Level, limit int) ([]models.Interaction, error)
}

type contextBuilder interface {
	Build(ctx context.Context, req studyctx.Request) (studyctx.Bundle, error)
}

type guardChecker interface {
	Check(ctx context.Context, text string) guard.Result
}

type ChatService struct {
	users        chatUserStore
	interactions interactionStore
	builder      contextBuilder
	guard        guardChecker
	provider     llm.Provider
	timeout      time.Duration
	log          *logger.Logger
}

// NewChatService wires the tutor. A nil provider makes every model-backed
// step return its canned reply.
func NewChatService(users chatUserStore, interactions interactionStore, builder contextBuilder, g guardChecker, provider llm.Provider, timeout time.Duration, log *logger.Logger) *ChatService {
	return &ChatService{
		users:        users,
		interactions: interactions,
		builder:      builder,
		guard:        g,
		provider:     provider,
		timeout:      timeout,
		log:          log,
	}
}

// Turn handles one chat request and returns a tutoring reply, a list of
// intake questions or a refusal.
func (s *ChatService) Turn(ctx context.Context, email string, req models.ChatRequest) (*models.ChatResult, error) {
	subject := models.ParseSubject(req.Subject, models.SubjectMaths)
	msg := strings.TrimSpace(req.Message)

	if msg != "" {
		if res := s.guard.Check(ctx, msg); res.Blocked {
			s.log.Info("chat message refused", "email", email, "reason", res.Reason, "hit", res.Hit)
			return &models.ChatResult{Refusal: guard.Refusal()}, nil
		}
		if reply, ok := matchFAQ(msg); ok {
			return &models.ChatResult{Reply: reply}, nil
		}
	}

	if err := s.users.EnsureUser(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	if err := s.users.EnsureLevel(ctx, email, subject); err != nil {
		return nil, fmt.Errorf("failed to ensure level: %w", err)
	}

	level, degree, err := s.levelAndDegree(ctx, email, subject)
	if err != nil {
		return nil, err
	}

	bundle, err := s.builder.Build(ctx, studyctx.Request{Email: email, Subject: subject, Level: level})
	if err != nil {
		return nil, err
	}
	hasDocs := len(bundle.Documents) > 0

	if req.Init {
		return &models.ChatResult{Intake: s.intake(ctx, subject, level, bundle)}, nil
	}

	if len(req.Intake) > 0 {
		if err := s.users.UpdateGoals(ctx, email, goalsSummary(req.Intake)); err != nil {
			return nil, fmt.Errorf("failed to store goals: %w", err)
		}
	}

	if s.provider == nil {
		return &models.ChatResult{Reply: modelUnavailableReply()}, nil
	}

	messages, err := s.history(ctx, email, subject, level, msg)
	if err != nil {
		return nil, err
	}
	messages = append(messages, llm.UserMessage(tutorUserPrompt(bundle.DocumentsText, msg)))

	reply := s.tutor(ctx, llm.Request{
		System:      tutorSystemPrompt(subject, level, degree, hasDocs),
		Messages:    messages,
		Temperature: 0.2,
	})
	if !hasDocs && reply.NextSteps != nil {
		reply.NextSteps = append(reply.NextSteps, uploadNudge)
	}

	s.logInteraction(ctx, email, subject, level, msg, reply.Answer, bundle)
	return &models.ChatResult{Reply: reply}, nil
}

func (s *ChatService) levelAndDegree(ctx context.Context, email string, subject models.Subject) (models.Level, models.Degree, error) {
	level, err := s.users.GetLevel(ctx, email, subject)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		level = models.LevelBeginner
	case err != nil:
		return "", "", fmt.Errorf("failed to load level: %w", err)
	}
	if !level.Valid() {
		level = models.LevelBeginner
	}

	degree := models.DegreeBachelors
	profile, err := s.users.GetProfile(ctx, email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return "", "", fmt.Errorf("failed to load profile: %w", err)
	case profile.Degree.Valid():
		degree = profile.Degree
	}
	return level, degree, nil
}

// intake asks the model for questions tailored to the documents and falls
// back to the fixed template.
func (s *ChatService) intake(ctx context.Context, subject models.Subject, level models.Level, bundle studyctx.Bundle) *models.IntakeReply {
	fallback := &models.IntakeReply{Ask: intakeTemplate(subject)}
	if s.provider == nil || len(bundle.Documents) == 0 {
		return fallback
	}

	res := llm.CompleteJSON(ctx, s.provider, llm.Request{
		System:      intakeSystemPrompt(subject, level),
		Messages:    []llm.Message{llm.UserMessage("Documents:\n" + bundle.DocumentsText)},
		Temperature: 0.2,
	}, llm.JSONOptions[models.IntakeReply]{
		Schema:  intakeSchema,
		Timeout: s.timeout,
		Accept: func(r models.IntakeReply) bool {
			return len(nonEmpty(r.Ask)) >= minIntakeAsk
		},
	})
	if res.Outcome != llm.OutcomeParsed {
		if res.Err != nil {
			s.log.Debug("intake questions fell back to template", "outcome", res.Outcome.String(), "error", res.Err)
		}
		return fallback
	}
	return &models.IntakeReply{Ask: textutil.Cap(nonEmpty(res.Value.Ask), maxIntakeAsk)}
}

// history returns recent turns oldest first. Short messages are answered
// without history.
func (s *ChatService) history(ctx context.Context, email string, subject models.Subject, level models.Level, msg string) ([]llm.Message, error) {
	n := textutil.RuneLen(msg)
	if n > 0 && n <= shortMessageRunes {
		return nil, nil
	}

	turns, err := s.interactions.RecentTurns(ctx, email, subject, level, historyTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := make([]llm.Message, 0, len(turns)*2+1)
	for i := len(turns) - 1; i >= 0; i-- {
		messages = append(messages,
			llm.UserMessage(turns[i].Prompt),
			llm.AssistantMessage(turns[i].Answer),
		)
	}
	return messages, nil
}

type tutorReply struct {
	Answer    string   `json:"answer"`
	NextSteps []string `json:"nextSteps"`
	Ask       []string `json:"ask"`
}

func (s *ChatService) tutor(ctx context.Context, req llm.Request) *models.ChatReply {
	res := llm.CompleteJSON(ctx, s.provider, req, llm.JSONOptions[tutorReply]{
		Schema:     chatReplySchema,
		Timeout:    s.timeout,
		WholeReply: true,
	})

	switch res.Outcome {
	case llm.OutcomeParsed:
		answer := res.Value.Answer
		if answer == "" {
			answer = defaultAnswer
		}
		return &models.ChatReply{
			Answer:    answer,
			NextSteps: textutil.Cap(res.Value.NextSteps, maxNextSteps),
			Ask:       textutil.Cap(res.Value.Ask, maxAsk),
		}
	case llm.OutcomeUnparsed:
		answer := strings.TrimSpace(res.Raw)
		if answer == "" {
			answer = defaultAnswer
		}
		return &models.ChatReply{Answer: answer, NextSteps: unparsedNextSteps()}
	default:
		s.log.Warn("tutor model call failed", "error", res.Err)
		return quotaReply()
	}
}

// logInteraction records the turn. Failures are logged and swallowed.
func (s *ChatService) logInteraction(ctx context.Context, email string, subject models.Subject, level models.Level, msg, answer string, bundle studyctx.Bundle) {
	prompt := msg
	if prompt == "" {
		prompt = intakePrompt
	}

	err := s.interactions.Create(ctx, &models.Interaction{
		UserEmail:  email,
		Subject:    subject,
		Level:      level,
		Prompt:     textutil.Truncate(prompt, maxLoggedText),
		Answer:     textutil.Truncate(answer, maxLoggedText),
		UsedDocIDs: bundle.DocIDs(),
	})
	if err != nil {
		s.log.Error("interaction log failed", "email", email, "error", err)
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
