// Package quiz turns model output into well-formed quizzes, adapts quiz
// difficulty to a student's history and grades submissions.
package quiz

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/textutil"
)

const (
	QuizLength  = 6
	ChoiceCount = 4

	maxChoiceLen      = 120
	maxQuestionLen    = 400
	maxExplanationLen = 600
	maxTopicLen       = 80

	defaultQuestion    = "Untitled question"
	defaultExplanation = "Explanation unavailable."
	defaultTopic       = "general"
)

// Candidate is a quiz item as proposed by the model, before any checks.
type Candidate map[string]any

// ParseCandidates reads `{"items": [...]}` or a bare array. Elements that
// are not objects are dropped.
func ParseCandidates(raw json.RawMessage) []Candidate {
	var list []any

	var wrapped struct {
		Items []any `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Items != nil {
		list = wrapped.Items
	} else if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}

	var out []Candidate
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Candidate(m))
		}
	}
	return out
}

// Sanitize coerces every candidate into a valid item at the given level.
func Sanitize(candidates []Candidate, level models.Level) []models.QuizItem {
	items := make([]models.QuizItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, sanitizeOne(c, level))
	}
	return items
}

func sanitizeOne(c Candidate, level models.Level) models.QuizItem {
	item := models.QuizItem{
		Question:    orDefault(c["question"], defaultQuestion, maxQuestionLen),
		Choices:     sanitizeChoices(c["choices"]),
		Explanation: orDefault(c["explanation"], defaultExplanation, maxExplanationLen),
		Topic:       orDefault(c["topic"], defaultTopic, maxTopicLen),
		Difficulty:  level,
	}

	if idx, ok := asInt(c["answerIndex"]); ok && idx >= 0 && idx < ChoiceCount {
		item.AnswerIndex = idx
	}
	if d, ok := c["difficulty"].(string); ok {
		item.Difficulty = models.ParseLevel(d, level)
	}
	return item
}

func sanitizeChoices(v any) []string {
	raw, _ := v.([]any)

	seen := map[string]bool{}
	choices := make([]string, 0, ChoiceCount)
	for _, el := range raw {
		s, ok := stringify(el)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		choices = append(choices, textutil.Truncate(s, maxChoiceLen))
		if len(choices) == ChoiceCount {
			break
		}
	}

	for len(choices) < ChoiceCount {
		choices = append(choices, fmt.Sprintf("Option %d", len(choices)+1))
	}
	return choices
}

func orDefault(v any, def string, max int) string {
	s, ok := stringify(v)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return def
	}
	return textutil.Truncate(s, max)
}

// stringify renders scalar JSON values. Falsy values (null, "", 0, false)
// report false.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case float64:
		if x == 0 {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return "true", x
	case nil:
		return "", false
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// ExactSix trims items to six or pads them with the filler question.
func ExactSix(items []models.QuizItem, level models.Level) []models.QuizItem {
	if len(items) > QuizLength {
		return items[:QuizLength]
	}
	out := make([]models.QuizItem, 0, QuizLength)
	out = append(out, items...)
	for len(out) < QuizLength {
		out = append(out, fillerItem(level))
	}
	return out
}

func fillerItem(level models.Level) models.QuizItem {
	return models.QuizItem{
		Question:    "Which SQL statement inserts a new row?",
		Choices:     []string{"ADD ROW", "INSERT INTO", "CREATE ROW", "MAKE ROW"},
		AnswerIndex: 1,
		Explanation: "`INSERT INTO` adds new rows to a table.",
		Topic:       "sql-dml",
		Difficulty:  level,
	}
}

// Compose sanitises candidates and returns exactly six items, using the
// subject's fallback bank when nothing usable was proposed.
func Compose(candidates []Candidate, subject models.Subject, level models.Level) []models.QuizItem {
	items := Sanitize(candidates, level)
	if len(items) == 0 {
		items = FallbackBank(subject, level)
	}
	return ExactSix(items, level)
}

// Normalize repairs the fields of a submitted quiz that grading depends on.
// Choices are kept exactly as the student saw them; only an out-of-range
// answer index, a missing topic or an unknown difficulty is corrected.
func Normalize(items []models.QuizItem) []models.QuizItem {
	out := make([]models.QuizItem, 0, len(items))
	for _, it := range items {
		it.Choices = append([]string(nil), it.Choices...)
		if it.AnswerIndex < 0 || it.AnswerIndex >= len(it.Choices) {
			it.AnswerIndex = 0
		}
		if !it.Difficulty.Valid() {
			it.Difficulty = models.LevelBeginner
		}
		if strings.TrimSpace(it.Topic) == "" {
			it.Topic = "general"
		}
		out = append(out, it)
	}
	return out
}
