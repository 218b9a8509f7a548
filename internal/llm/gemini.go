package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey         string
	Model          string
	ConcurrentReqs int
}

// GeminiProvider implements Provider on the Gemini API. Concurrent calls are
// bounded by a token-bucket channel.
type GeminiProvider struct {
	client   *genai.Client
	model    string
	rateChan chan struct{}
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	slots := cfg.ConcurrentReqs
	if slots <= 0 {
		slots = 1
	}
	rateChan := make(chan struct{}, slots)
	for i := 0; i < slots; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiProvider{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

// acquireRate blocks until a rate slot is available
func (p *GeminiProvider) acquireRate(ctx context.Context) error {
	select {
	case <-p.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Minute):
		return &ErrRateLimit{Err: fmt.Errorf("timeout waiting for Gemini rate slot")}
	}
}

func (p *GeminiProvider) releaseRate() {
	p.rateChan <- struct{}{}
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("gemini: at least one message is required")
	}
	if err := p.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer p.releaseRate()

	// GenerativeModel carries per-call settings, so each request gets its own.
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	cs := model.StartChat()
	last := len(req.Messages) - 1
	for _, m := range req.Messages[:last] {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.Messages[last].Content))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	out := &Response{Content: extractText(resp), Model: p.model}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

func mapGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
