// Package llm abstracts chat-completion providers behind a single Generate
// call and provides the JSON-with-fallback helper used by chat, intake and
// quiz generation.
package llm

import "context"

// Provider is implemented by every model backend.
type Provider interface {
	// Generate sends the conversation and returns the raw completion text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

type Request struct {
	// System sets the model's role and constraints. Optional.
	System string

	// Messages is the ordered conversation. The last entry is the turn the
	// model answers.
	Messages []Message

	// JSONMode asks the provider for a JSON object reply when it supports it.
	JSONMode bool

	MaxTokens int

	// Temperature controls randomness. Zero means deterministic.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage is shorthand for an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Schema is a JSON Schema a structured reply must satisfy.
type Schema struct {
	// Name identifies the schema in the compile cache. snake_case.
	Name string

	Definition map[string]any
}

type Response struct {
	// Content is the completion text exactly as returned by the provider.
	Content string

	Usage Usage

	// Model is the model that served the request.
	Model string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}
