package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuizItem is a sanitised multiple-choice question.
type QuizItem struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation"`
	Topic       string   `json:"topic"`
	Difficulty  Level    `json:"difficulty"`
}

// QuizAttempt keeps items and responses as raw JSON; readers must tolerate
// payloads that do not decode.
type QuizAttempt struct {
	ID        uuid.UUID       `json:"id"`
	UserEmail string          `json:"userEmail"`
	Subject   Subject         `json:"subject"`
	Items     json.RawMessage `json:"items"`
	Responses json.RawMessage `json:"responses"`
	Score     int             `json:"score"`
	MaxScore  int             `json:"maxScore"`
	CreatedAt time.Time       `json:"createdAt"`
}

type GenerateQuizRequest struct {
	Subject string `json:"subject"`
	Mode    string `json:"mode"` // "new" | "focus"
}

type GenerateQuizResponse struct {
	Available   bool       `json:"available"`
	Items       []QuizItem `json:"items"`
	WeakTopics  []string   `json:"weakTopics"`
	TargetLevel Level      `json:"targetLevel"`
}

type SubmitQuizRequest struct {
	Subject string      `json:"subject"`
	Items   []QuizItem  `json:"items"`
	Answers map[int]int `json:"answers"`
}

type SubmitQuizResponse struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}
