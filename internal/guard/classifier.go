package guard

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
)

const (
	reasonClassified = "Classified as an assessed-work request."

	verdictTTL        = 24 * time.Hour
	classifierTimeout = 10 * time.Second
)

// Classifier labels text "allow" or "block".
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ClassifierStage consults c for texts that mention assessed work. It fails
// open: a missing classifier or any classifier error allows the text.
func ClassifierStage(c Classifier, log *logger.Logger) Stage {
	return func(ctx context.Context, text string) Verdict {
		if !MentionsAssessedWork(text) {
			return Verdict{Decision: Defer}
		}
		if c == nil {
			return Verdict{Decision: Allow}
		}

		label, err := c.Classify(ctx, text)
		if err != nil {
			log.Warn("guard classifier failed, allowing", "error", err)
			return Verdict{Decision: Allow}
		}
		if strings.Contains(strings.ToLower(label), "block") {
			return Verdict{Decision: Block, Reason: reasonClassified}
		}
		return Verdict{Decision: Allow}
	}
}

// Cache stores classifier labels keyed by a digest of the text.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// LLMClassifier asks the chat model for a one-word label.
type LLMClassifier struct {
	provider llm.Provider
	cache    Cache
	log      *logger.Logger
	timeout  time.Duration
}

// NewLLMClassifier wires p with an optional cache.
func NewLLMClassifier(p llm.Provider, cache Cache, log *logger.Logger) *LLMClassifier {
	return &LLMClassifier{provider: p, cache: cache, log: log, timeout: classifierTimeout}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := cacheKey(text)

	if c.cache != nil {
		label, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("guard cache read failed", "error", err)
		} else if ok {
			return label, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Generate(callCtx, llm.Request{
		Messages:    []llm.Message{llm.UserMessage(classifierPrompt(text))},
		Temperature: 0,
		MaxTokens:   5,
	})
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	label := "allow"
	if strings.Contains(strings.ToLower(resp.Content), "block") {
		label = "block"
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, label, verdictTTL); err != nil {
			c.log.Warn("guard cache write failed", "error", err)
		}
	}
	return label, nil
}

func classifierPrompt(text string) string {
	return "Classify if the user is asking you to produce assessed academic work (verbatim, ready-to-submit). \n" +
		"Answer ONLY \"allow\" or \"block\". \n" +
		"Text: \"\"\"" + text + "\"\"\""
}

func cacheKey(text string) string {
	sum := blake2b.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return "guard:verdict:" + hex.EncodeToString(sum[:16])
}
