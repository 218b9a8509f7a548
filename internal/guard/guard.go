// Package guard decides whether a chat message asks for assessed work to be
// produced on the student's behalf. Checks run as an ordered chain of
// stages; the first stage that commits to a decision wins.
package guard

import (
	"context"

	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
)

type Decision int

const (
	// Defer passes the text on to the next stage.
	Defer Decision = iota
	Allow
	Block
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Block:
		return "block"
	default:
		return "defer"
	}
}

type Verdict struct {
	Decision Decision
	Reason   string
	Hit      string
}

type Result struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
	Hit     string `json:"hit,omitempty"`
}

// Stage inspects text and returns a verdict. Stages must not fail: any
// internal error is turned into a verdict by the stage itself.
type Stage func(ctx context.Context, text string) Verdict

type Chain struct {
	stages []Stage
}

func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// New builds the standard chain: keyword rules first, then the model
// classifier for texts that mention assessed work. A nil provider disables
// the classifier stage.
func New(p llm.Provider, cache Cache, log *logger.Logger) *Chain {
	var classifier Classifier
	if p != nil {
		classifier = NewLLMClassifier(p, cache, log)
	}
	return NewChain(RuleStage, ClassifierStage(classifier, log))
}

// Check runs the stages in order. If every stage defers the text is allowed.
func (c *Chain) Check(ctx context.Context, text string) Result {
	for _, stage := range c.stages {
		v := stage(ctx, text)
		switch v.Decision {
		case Block:
			return Result{Blocked: true, Reason: v.Reason, Hit: v.Hit}
		case Allow:
			return Result{}
		}
	}
	return Result{}
}
