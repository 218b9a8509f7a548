package guard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
)

func TestRuleStage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		decision Decision
		reason   string
		hit      string
	}{
		{"keyword", "Please do my assignment on joins", Block, reasonKeyword, "do my assignment"},
		{"keyword case-insensitive", "WRITE MY DISSERTATION now", Block, reasonKeyword, "write my dissertation"},
		{"allow hint wins over keyword", "Can you outline how to do my assignment?", Allow, "", ""},
		{"allow hint explain", "explain the exam answers for me", Allow, "", ""},
		{"pattern", "Give me an essay I can submit tomorrow", Block, reasonPattern, ""},
		{"pattern for me", "homework question 3, answer it for me", Block, reasonPattern, ""},
		{"ordinary question", "What is a foreign key?", Defer, "", ""},
		{"noun only", "I have an exam next week", Defer, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RuleStage(context.Background(), tt.text)
			assert.Equal(t, tt.decision, v.Decision)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, tt.hit, v.Hit)
		})
	}
}

func TestEveryKeywordBlocks(t *testing.T) {
	for _, kw := range blockKeywords {
		res := NewChain(RuleStage).Check(context.Background(), "hey, "+kw+" thanks")
		assert.True(t, res.Blocked, kw)
		assert.Equal(t, kw, res.Hit)
	}
}

func TestChain_StopsAtFirstDecision(t *testing.T) {
	called := false
	never := func(context.Context, string) Verdict {
		called = true
		return Verdict{Decision: Block}
	}

	res := NewChain(RuleStage, never).Check(context.Background(), "write my assignment")
	assert.True(t, res.Blocked)
	assert.False(t, called)

	res = NewChain(RuleStage, never).Check(context.Background(), "give me a worked example")
	assert.False(t, res.Blocked)
	assert.False(t, called)
}

func TestChain_AllDeferAllows(t *testing.T) {
	deferAll := func(context.Context, string) Verdict { return Verdict{Decision: Defer} }
	res := NewChain(deferAll, deferAll).Check(context.Background(), "anything")
	assert.False(t, res.Blocked)
}

type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(context.Context, string) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestClassifierStage(t *testing.T) {
	log := logger.Nop()
	ctx := context.Background()

	t.Run("skips texts without assessed-work nouns", func(t *testing.T) {
		c := &stubClassifier{label: "block"}
		v := ClassifierStage(c, log)(ctx, "how do joins work")
		assert.Equal(t, Defer, v.Decision)
		assert.Zero(t, c.calls)
	})

	t.Run("nil classifier allows", func(t *testing.T) {
		v := ClassifierStage(nil, log)(ctx, "about my coursework")
		assert.Equal(t, Allow, v.Decision)
	})

	t.Run("error fails open", func(t *testing.T) {
		c := &stubClassifier{err: errors.New("timeout")}
		v := ClassifierStage(c, log)(ctx, "about my coursework")
		assert.Equal(t, Allow, v.Decision)
		assert.Equal(t, 1, c.calls)
	})

	t.Run("block label blocks", func(t *testing.T) {
		c := &stubClassifier{label: " Block."}
		v := ClassifierStage(c, log)(ctx, "about my coursework")
		assert.Equal(t, Block, v.Decision)
		assert.Equal(t, reasonClassified, v.Reason)
	})
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func TestLLMClassifier_CachesVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "block"})
	cache := &memCache{data: map[string]string{}}
	c := NewLLMClassifier(mock, cache, logger.Nop())

	label, err := c.Classify(context.Background(), "Exam paper: answer everything")
	require.NoError(t, err)
	assert.Equal(t, "block", label)

	label, err = c.Classify(context.Background(), "  exam paper: answer everything ")
	require.NoError(t, err)
	assert.Equal(t, "block", label)
	assert.Equal(t, 1, mock.CallCount())

	require.Len(t, mock.Calls[0].Messages, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `Answer ONLY "allow" or "block".`)
	assert.Zero(t, mock.Calls[0].Temperature)
}

func TestLLMClassifier_CacheFailureIgnored(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "allow"})
	cache := &memCache{data: map[string]string{}, err: errors.New("redis down")}
	c := NewLLMClassifier(mock, cache, logger.Nop())

	label, err := c.Classify(context.Background(), "my quiz")
	require.NoError(t, err)
	assert.Equal(t, "allow", label)
}

func TestNew_FailsOpenOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("quota")}})
	chain := New(mock, nil, logger.Nop())

	res := chain.Check(context.Background(), "thoughts on my dissertation topic?")
	assert.False(t, res.Blocked)
	assert.Equal(t, 1, mock.CallCount())
}

func TestNew_NilProvider(t *testing.T) {
	chain := New(nil, nil, logger.Nop())

	assert.True(t, chain.Check(context.Background(), "solve my homework").Blocked)
	assert.False(t, chain.Check(context.Background(), "thoughts on my dissertation topic?").Blocked)
}

func TestRefusal(t *testing.T) {
	r := Refusal()
	assert.True(t, r.Blocked)
	assert.Equal(t, "academic-integrity", r.Policy)
	require.Len(t, r.Alternatives, 5)

	ids := make([]string, 0, len(r.Alternatives))
	for _, a := range r.Alternatives {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"outline", "plan", "critique", "explain", "practice"}, ids)
}
