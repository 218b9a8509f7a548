package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type askReply struct {
	Ask []string `json:"ask"`
}

var askSchema = &Schema{
	Name: "test_ask",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"ask"},
		"properties": map[string]any{
			"ask": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
}

func TestCompleteJSON_NilProvider(t *testing.T) {
	res := CompleteJSON(context.Background(), nil, Request{}, JSONOptions[askReply]{
		Fallback: askReply{Ask: []string{"fallback"}},
	})

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNoProvider)
	assert.Equal(t, []string{"fallback"}, res.Value.Ask)
}

func TestCompleteJSON_Parsed(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "```json\n{\"ask\":[\"a\",\"b\"]}\n```"})

	res := CompleteJSON(context.Background(), mock, Request{JSONMode: true}, JSONOptions[askReply]{
		Schema: askSchema,
	})

	require.Equal(t, OutcomeParsed, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{"a", "b"}, res.Value.Ask)
	assert.Equal(t, 1, mock.CallCount())
	assert.True(t, mock.Calls[0].JSONMode)
}

func TestCompleteJSON_RetriesThenParses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "not json at all"},
		MockResponse{Content: `{"ask":["x","y","z","w"]}`},
	)

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{
		Schema:   askSchema,
		Attempts: 2,
	})

	assert.Equal(t, OutcomeParsed, res.Outcome)
	assert.Len(t, res.Value.Ask, 4)
	assert.Equal(t, 2, mock.CallCount())
}

func TestCompleteJSON_UnparsedKeepsRaw(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "plain prose reply"})

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{
		Fallback: askReply{Ask: []string{"fb"}},
	})

	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Equal(t, "plain prose reply", res.Raw)
	assert.Equal(t, []string{"fb"}, res.Value.Ask)

	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, res.Err, &invalid)
}

func TestCompleteJSON_WholeReplyIgnoresEmbeddedObject(t *testing.T) {
	prose := `Use a list like {"ask": ["a", "b"]} when you need several questions.`

	loose := CompleteJSON(context.Background(), NewMockProvider(MockResponse{Content: prose}), Request{}, JSONOptions[askReply]{})
	assert.Equal(t, OutcomeParsed, loose.Outcome)

	res := CompleteJSON(context.Background(), NewMockProvider(MockResponse{Content: prose}), Request{}, JSONOptions[askReply]{
		WholeReply: true,
	})

	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Equal(t, prose, res.Raw)
	assert.Empty(t, res.Value.Ask)
}

func TestCompleteJSON_WholeReplyAcceptsFencedDocument(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "```json\n{\"ask\":[\"a\"]}\n```"})

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{
		Schema:     askSchema,
		WholeReply: true,
	})

	require.Equal(t, OutcomeParsed, res.Outcome)
	assert.Equal(t, []string{"a"}, res.Value.Ask)
}

func TestCompleteJSON_SchemaMismatch(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: `{"ask":"not-a-list"}`})

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{Schema: askSchema})

	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestCompleteJSON_AcceptRejects(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: `{"ask":["only one"]}`})

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{
		Accept:   func(r askReply) bool { return len(r.Ask) >= 4 },
		Fallback: askReply{Ask: []string{"default"}},
	})

	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Equal(t, []string{"default"}, res.Value.Ask)
}

func TestCompleteJSON_ProviderError(t *testing.T) {
	quota := &ErrRateLimit{Err: errors.New("quota")}
	mock := NewMockProvider(MockResponse{Err: quota}, MockResponse{Err: quota})

	res := CompleteJSON(context.Background(), mock, Request{}, JSONOptions[askReply]{Attempts: 2})

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 2, mock.CallCount())

	var rl *ErrRateLimit
	assert.ErrorAs(t, res.Err, &rl)
}

func TestCompleteJSON_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := NewMockProvider(MockResponse{Content: `{"ask":[]}`}, MockResponse{Content: `{"ask":[]}`})

	res := CompleteJSON(ctx, mock, Request{}, JSONOptions[askReply]{Attempts: 2})

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 1, mock.CallCount())
}
