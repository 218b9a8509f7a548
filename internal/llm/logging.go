package llm

import (
	"context"
	"time"

	"leedsbot-backend/internal/logger"
)

// LoggingProvider records latency, token usage and failures of every call.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

func WithLogging(p Provider, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		l.log.Warn("llm request failed",
			"model", l.inner.ModelID(),
			"latency_ms", latency,
			"error", err,
		)
		return nil, err
	}

	l.log.Debug("llm request",
		"model", resp.Model,
		"latency_ms", latency,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"json_mode", req.JSONMode,
	)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
